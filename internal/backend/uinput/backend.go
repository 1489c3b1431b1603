//go:build linux

// Package uinput reads input straight from /dev/input/event* devices and
// synthesizes events through /dev/uinput. It works under X11, Wayland and
// on the console, but needs read access to the input devices.
package uinput

import (
	"log"

	"github.com/Danondso/keychord/internal/backend"
	"github.com/Danondso/keychord/internal/input"
	"github.com/Danondso/keychord/internal/listener"
)

// Name is the registry name of this backend.
const Name = "uinput"

func init() {
	backend.Register(Name, Open)
}

// Backend is the evdev/uinput backend.
type Backend struct {
	keyboardPath string
	mousePath    string
	logger       *log.Logger
}

// Open creates the backend. Devices are opened when a listener starts.
func Open(opts backend.Options) (backend.Backend, error) {
	return &Backend{
		keyboardPath: opts.KeyboardDevice,
		mousePath:    opts.MouseDevice,
		logger:       opts.Log(),
	}, nil
}

// Name implements backend.Backend.
func (b *Backend) Name() string { return Name }

// Source implements backend.Backend.
func (b *Backend) Source(input.Kind) (listener.Source, error) {
	return &source{keyboardPath: b.keyboardPath, mousePath: b.mousePath, logger: b.logger}, nil
}

// Emitter implements backend.Backend.
func (b *Backend) Emitter() (backend.Emitter, error) {
	return newEmitter()
}
