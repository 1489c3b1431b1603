//go:build darwin

package main

import _ "github.com/Danondso/keychord/internal/backend/native"
