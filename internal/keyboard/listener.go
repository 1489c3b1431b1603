// Package keyboard provides keyboard listeners, event streams and a
// controller for typing synthetic keys.
package keyboard

import (
	"github.com/Danondso/keychord/internal/input"
	"github.com/Danondso/keychord/internal/listener"
)

// Handler receives keyboard events. Returning listener.ErrStop stops the
// listener; any other error stops it and is reported by Join.
type Handler interface {
	OnPress(k input.Key) error
	OnRelease(k input.Key) error
}

// Funcs adapts plain functions to a Handler. Nil fields are ignored.
type Funcs struct {
	Press   func(input.Key) error
	Release func(input.Key) error
}

func (f Funcs) OnPress(k input.Key) error {
	if f.Press == nil {
		return nil
	}
	return f.Press(k)
}

func (f Funcs) OnRelease(k input.Key) error {
	if f.Release == nil {
		return nil
	}
	return f.Release(k)
}

// Listener delivers key presses and releases to a Handler.
type Listener struct {
	*listener.Listener
}

// NewListener creates an idle keyboard listener on src.
func NewListener(src listener.Source, h Handler, opts ...listener.Option) *Listener {
	opts = append([]listener.Option{listener.WithName("keyboard")}, opts...)
	return &Listener{Listener: listener.New(src, input.KindKeyboard, Dispatch(h), opts...)}
}

// Dispatch routes keyboard events to h and ignores everything else.
func Dispatch(h Handler) listener.Dispatcher {
	return func(ev input.Event) error {
		switch ev := ev.(type) {
		case input.KeyPress:
			return h.OnPress(ev.Key)
		case input.KeyRelease:
			return h.OnRelease(ev.Key)
		}
		return nil
	}
}

// Canonical returns the form of k that hotkeys compare against.
func (l *Listener) Canonical(k input.Key) input.Key {
	return input.Canonical(k)
}

// NewEvents creates an idle stream of keyboard events from src.
func NewEvents(src listener.Source, opts ...listener.Option) *listener.Events {
	opts = append([]listener.Option{listener.WithName("keyboard events")}, opts...)
	return listener.NewEvents(src, input.KindKeyboard, 0, opts...)
}
