//go:build linux

package uinput

import (
	"fmt"
	"sort"
	"sync"

	evdev "github.com/holoplot/go-evdev"

	"github.com/Danondso/keychord/internal/backend"
	"github.com/Danondso/keychord/internal/input"
)

const virtualDeviceName = "keychord virtual input"

// emitter writes events to a uinput virtual device. The device is
// relative, so Position reports where the emitter has moved the pointer
// since it was created rather than the real pointer location.
type emitter struct {
	mu    sync.Mutex
	dev   *evdev.InputDevice
	x, y  int
	shift bool
}

func newEmitter() (*emitter, error) {
	keys := make([]evdev.EvCode, 0, len(codeByKey)+len(buttonCode))
	for _, code := range codeByKey {
		keys = append(keys, evdev.EvCode(code))
	}
	for _, code := range buttonCode {
		keys = append(keys, evdev.EvCode(code))
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	dev, err := evdev.CreateDevice(virtualDeviceName,
		evdev.InputID{BusType: 0x03, Vendor: 0x4b43, Product: 0x0001, Version: 1},
		map[evdev.EvType][]evdev.EvCode{
			evdev.EV_KEY: keys,
			evdev.EV_REL: {codeRelX, codeRelY, codeRelHWheel, codeRelWheel},
		})
	if err != nil {
		return nil, fmt.Errorf("create uinput device: %w", err)
	}
	return &emitter{dev: dev}, nil
}

func (e *emitter) write(typ evdev.EvType, code uint16, value int32) error {
	return e.dev.WriteOne(&evdev.InputEvent{Type: typ, Code: evdev.EvCode(code), Value: value})
}

func (e *emitter) sync() error {
	return e.write(evdev.EV_SYN, codeSynReport, 0)
}

// Emit implements backend.Emitter.
func (e *emitter) Emit(ev input.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var err error
	switch ev := ev.(type) {
	case input.KeyPress:
		err = e.key(ev.Key, true)
	case input.KeyRelease:
		err = e.key(ev.Key, false)
	case input.Move:
		dx, dy := ev.X-e.x, ev.Y-e.y
		if dx != 0 {
			err = e.write(evdev.EV_REL, codeRelX, int32(dx))
		}
		if err == nil && dy != 0 {
			err = e.write(evdev.EV_REL, codeRelY, int32(dy))
		}
		if err == nil {
			e.x, e.y = ev.X, ev.Y
		}
	case input.Click:
		code, ok := buttonCode[ev.Button]
		if !ok {
			return fmt.Errorf("button %s: %w", ev.Button, backend.ErrUnsupported)
		}
		err = e.write(evdev.EV_KEY, code, boolValue(ev.Pressed))
	case input.Scroll:
		if ev.DY != 0 {
			err = e.write(evdev.EV_REL, codeRelWheel, int32(ev.DY))
		}
		if err == nil && ev.DX != 0 {
			err = e.write(evdev.EV_REL, codeRelHWheel, int32(ev.DX))
		}
	default:
		return fmt.Errorf("event %v: %w", ev, backend.ErrUnsupported)
	}
	if err != nil {
		return fmt.Errorf("write %v: %w", ev, err)
	}
	return e.sync()
}

// key sends one key transition, wrapping it in a shift press when the
// character needs one and shift is not already held.
func (e *emitter) key(k input.Key, press bool) error {
	code, needShift, ok := codeForKey(k)
	if !ok {
		return fmt.Errorf("no key code for %v: %w", k, backend.ErrUnsupported)
	}
	if k.Special.Generic() == input.Shift {
		e.shift = press
	}

	wrap := needShift && !e.shift
	if wrap && press {
		if err := e.write(evdev.EV_KEY, codeLeftShift, 1); err != nil {
			return err
		}
	}
	if err := e.write(evdev.EV_KEY, code, boolValue(press)); err != nil {
		return err
	}
	if wrap && !press {
		return e.write(evdev.EV_KEY, codeLeftShift, 0)
	}
	return nil
}

// Position implements backend.Emitter.
func (e *emitter) Position() (int, int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.x, e.y, nil
}

// Close implements backend.Emitter.
func (e *emitter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dev.Close()
}

func boolValue(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
