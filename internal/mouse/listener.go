// Package mouse provides mouse listeners, event streams and a controller
// for moving the pointer and clicking.
package mouse

import (
	"github.com/Danondso/keychord/internal/input"
	"github.com/Danondso/keychord/internal/listener"
)

// Handler receives mouse events. Returning listener.ErrStop stops the
// listener; any other error stops it and is reported by Join.
type Handler interface {
	OnMove(x, y int) error
	OnClick(x, y int, b input.Button, pressed bool) error
	OnScroll(x, y, dx, dy int) error
}

// Funcs adapts plain functions to a Handler. Nil fields are ignored.
type Funcs struct {
	Move   func(x, y int) error
	Click  func(x, y int, b input.Button, pressed bool) error
	Scroll func(x, y, dx, dy int) error
}

func (f Funcs) OnMove(x, y int) error {
	if f.Move == nil {
		return nil
	}
	return f.Move(x, y)
}

func (f Funcs) OnClick(x, y int, b input.Button, pressed bool) error {
	if f.Click == nil {
		return nil
	}
	return f.Click(x, y, b, pressed)
}

func (f Funcs) OnScroll(x, y, dx, dy int) error {
	if f.Scroll == nil {
		return nil
	}
	return f.Scroll(x, y, dx, dy)
}

// Listener delivers pointer events to a Handler.
type Listener struct {
	*listener.Listener
}

// NewListener creates an idle mouse listener on src.
func NewListener(src listener.Source, h Handler, opts ...listener.Option) *Listener {
	opts = append([]listener.Option{listener.WithName("mouse")}, opts...)
	return &Listener{Listener: listener.New(src, input.KindMouse, Dispatch(h), opts...)}
}

// Dispatch routes mouse events to h and ignores everything else.
func Dispatch(h Handler) listener.Dispatcher {
	return func(ev input.Event) error {
		switch ev := ev.(type) {
		case input.Move:
			return h.OnMove(ev.X, ev.Y)
		case input.Click:
			return h.OnClick(ev.X, ev.Y, ev.Button, ev.Pressed)
		case input.Scroll:
			return h.OnScroll(ev.X, ev.Y, ev.DX, ev.DY)
		}
		return nil
	}
}

// NewEvents creates an idle stream of mouse events from src.
func NewEvents(src listener.Source, opts ...listener.Option) *listener.Events {
	opts = append([]listener.Option{listener.WithName("mouse events")}, opts...)
	return listener.NewEvents(src, input.KindMouse, 0, opts...)
}
