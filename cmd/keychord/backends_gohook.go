//go:build darwin || windows || (linux && xorg)

package main

import _ "github.com/Danondso/keychord/internal/backend/gohook"
