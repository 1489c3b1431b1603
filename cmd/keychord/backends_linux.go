//go:build linux

package main

import _ "github.com/Danondso/keychord/internal/backend/uinput"
