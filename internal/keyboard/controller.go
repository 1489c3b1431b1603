package keyboard

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"unicode"

	"github.com/Danondso/keychord/internal/input"
)

// ErrInvalidKey is returned when a key cannot be sent.
var ErrInvalidKey = errors.New("invalid key")

// InvalidCharacterError reports the position of a character Type could not
// send.
type InvalidCharacterError struct {
	Index int
	Char  rune
	Err   error
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("type character %q at %d: %v", e.Char, e.Index, e.Err)
}

func (e *InvalidCharacterError) Unwrap() error { return e.Err }

// Emitter injects events into the system.
type Emitter interface {
	Emit(ev input.Event) error
}

// Controller sends synthetic key events and tracks the modifiers it holds.
type Controller struct {
	em Emitter

	mu        sync.Mutex
	modifiers map[input.Special]struct{}
	capsLock  bool
}

// NewController creates a controller that sends events through em.
func NewController(em Emitter) *Controller {
	return &Controller{em: em, modifiers: make(map[input.Special]struct{})}
}

// Press sends a key press. While shift is held, character keys are sent in
// upper case.
func (c *Controller) Press(k input.Key) error {
	return c.Touch(k, true)
}

// Release sends a key release.
func (c *Controller) Release(k input.Key) error {
	return c.Touch(k, false)
}

// Touch presses or releases k.
func (c *Controller) Touch(k input.Key, press bool) error {
	if k.IsZero() {
		return ErrInvalidKey
	}

	c.mu.Lock()
	resolved := c.resolveLocked(k)
	c.updateLocked(resolved, press)
	c.mu.Unlock()

	var ev input.Event = input.KeyRelease{Key: resolved}
	if press {
		ev = input.KeyPress{Key: resolved}
	}
	if err := c.em.Emit(ev); err != nil {
		return fmt.Errorf("emit %v: %w", ev, err)
	}
	return nil
}

func (c *Controller) resolveLocked(k input.Key) input.Key {
	if k.Char != 0 && c.shiftLocked() {
		k.Char = unicode.ToUpper(k.Char)
	}
	return k
}

func (c *Controller) updateLocked(k input.Key, press bool) {
	if k.Special == input.CapsLock && press {
		c.capsLock = !c.capsLock
	}
	if !k.IsModifier() {
		return
	}
	mod := k.Special.Generic()
	if press {
		c.modifiers[mod] = struct{}{}
	} else {
		delete(c.modifiers, mod)
	}
}

// Tap presses and releases k.
func (c *Controller) Tap(k input.Key) error {
	if err := c.Press(k); err != nil {
		return err
	}
	return c.Release(k)
}

// Pressed holds keys down in order while fn runs and releases them in
// reverse order afterwards, even when fn fails.
func (c *Controller) Pressed(keys []input.Key, fn func() error) (err error) {
	held := make([]input.Key, 0, len(keys))
	defer func() {
		for i := len(held) - 1; i >= 0; i-- {
			if rerr := c.Release(held[i]); rerr != nil && err == nil {
				err = rerr
			}
		}
	}()
	for _, k := range keys {
		if err := c.Press(k); err != nil {
			return err
		}
		held = append(held, k)
	}
	return fn()
}

// Type taps a key for every character of s. Newlines, carriage returns and
// tabs are sent as the enter and tab keys.
func (c *Controller) Type(s string) error {
	i := 0
	for _, r := range s {
		k := input.Char(r)
		if sp, ok := input.ControlKey(r); ok && r != ' ' {
			k = input.Named(sp)
		}
		if err := c.Tap(k); err != nil {
			return &InvalidCharacterError{Index: i, Char: r, Err: err}
		}
		i++
	}
	return nil
}

// Modifiers returns the generic modifiers currently held, sorted.
func (c *Controller) Modifiers() []input.Special {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]input.Special, 0, len(c.modifiers))
	for m := range c.modifiers {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (c *Controller) held(s input.Special) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.modifiers[s]
	return ok
}

// AltPressed reports whether an alt key is held.
func (c *Controller) AltPressed() bool { return c.held(input.Alt) }

// AltGrPressed reports whether alt_gr is held.
func (c *Controller) AltGrPressed() bool { return c.held(input.AltGr) }

// CtrlPressed reports whether a ctrl key is held.
func (c *Controller) CtrlPressed() bool { return c.held(input.Ctrl) }

// CmdPressed reports whether a cmd key is held.
func (c *Controller) CmdPressed() bool { return c.held(input.Cmd) }

// ShiftPressed reports whether a shift key is held or caps lock is on.
func (c *Controller) ShiftPressed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shiftLocked()
}

func (c *Controller) shiftLocked() bool {
	_, ok := c.modifiers[input.Shift]
	return ok || c.capsLock
}
