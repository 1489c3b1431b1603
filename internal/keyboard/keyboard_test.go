package keyboard

import (
	"errors"
	"testing"
	"time"

	"github.com/Danondso/keychord/internal/backend/dummy"
	"github.com/Danondso/keychord/internal/input"
	"github.com/Danondso/keychord/internal/listener"
)

// recorder is an Emitter that remembers what it was asked to send.
type recorder struct {
	events []input.Event
	failOn input.Key
}

func (r *recorder) Emit(ev input.Event) error {
	if p, ok := ev.(input.KeyPress); ok && !r.failOn.IsZero() && p.Key == r.failOn {
		return errors.New("cannot send")
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) strings() []string {
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.String()
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestControllerType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"plain", "hi", []string{"press h", "release h", "press i", "release i"}},
		{"newline", "a\n", []string{"press a", "release a", "press <enter>", "release <enter>"}},
		{"tab", "\t", []string{"press <tab>", "release <tab>"}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			c := NewController(rec)
			if err := c.Type(tt.text); err != nil {
				t.Fatalf("Type(%q): %v", tt.text, err)
			}
			if got := rec.strings(); !equal(got, tt.want) {
				t.Errorf("Type(%q) sent %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestControllerTypeInvalidCharacter(t *testing.T) {
	rec := &recorder{failOn: input.Char('x')}
	c := NewController(rec)

	err := c.Type("abxd")
	var ice *InvalidCharacterError
	if !errors.As(err, &ice) {
		t.Fatalf("Type error = %v, want InvalidCharacterError", err)
	}
	if ice.Index != 2 || ice.Char != 'x' {
		t.Errorf("InvalidCharacterError = {%d %q}, want {2 'x'}", ice.Index, ice.Char)
	}
}

func TestControllerShiftUppercases(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec)

	err := c.Pressed([]input.Key{input.Named(input.ShiftL)}, func() error {
		if !c.ShiftPressed() {
			t.Error("expected shift pressed")
		}
		return c.Tap(input.Char('a'))
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"press <shift_l>", "press A", "release A", "release <shift_l>"}
	if got := rec.strings(); !equal(got, want) {
		t.Errorf("sent %v, want %v", got, want)
	}
	if c.ShiftPressed() {
		t.Error("expected shift released")
	}
}

func TestControllerCapsLock(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec)

	if err := c.Tap(input.Named(input.CapsLock)); err != nil {
		t.Fatal(err)
	}
	if !c.ShiftPressed() {
		t.Error("expected caps lock to count as shift")
	}
	if err := c.Tap(input.Named(input.CapsLock)); err != nil {
		t.Fatal(err)
	}
	if c.ShiftPressed() {
		t.Error("expected caps lock toggled off")
	}
}

func TestControllerPressedReleasesOnError(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec)
	bodyErr := errors.New("body")

	err := c.Pressed([]input.Key{input.Named(input.Ctrl), input.Named(input.AltR)}, func() error {
		mods := c.Modifiers()
		if len(mods) != 2 || mods[0] != input.Alt || mods[1] != input.Ctrl {
			t.Errorf("Modifiers = %v, want [alt ctrl]", mods)
		}
		if !c.AltPressed() || !c.CtrlPressed() {
			t.Error("expected alt and ctrl pressed")
		}
		return bodyErr
	})
	if !errors.Is(err, bodyErr) {
		t.Errorf("Pressed = %v, want %v", err, bodyErr)
	}
	want := []string{"press <ctrl>", "press <alt_r>", "release <alt_r>", "release <ctrl>"}
	if got := rec.strings(); !equal(got, want) {
		t.Errorf("sent %v, want %v", got, want)
	}
	if len(c.Modifiers()) != 0 {
		t.Errorf("Modifiers after release = %v, want none", c.Modifiers())
	}
}

func TestControllerInvalidKey(t *testing.T) {
	c := NewController(&recorder{})
	if err := c.Press(input.Key{}); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Press(zero) = %v, want ErrInvalidKey", err)
	}
}

func TestListenerReceivesControllerEvents(t *testing.T) {
	b := dummy.New()
	src, _ := b.Source(input.KindKeyboard)

	var pressed, released []input.Key
	l := NewListener(src, Funcs{
		Press: func(k input.Key) error {
			pressed = append(pressed, input.Canonical(k))
			return nil
		},
		Release: func(k input.Key) error {
			released = append(released, k)
			if k == input.Named(input.Esc) {
				return listener.ErrStop
			}
			return nil
		},
	})
	if err := l.Start(); err != nil {
		t.Fatal(err)
	}

	c := NewController(b)
	if err := c.Type("Ab"); err != nil {
		t.Fatal(err)
	}
	if err := c.Tap(input.Named(input.Esc)); err != nil {
		t.Fatal(err)
	}
	if err := l.JoinTimeout(2 * time.Second); err != nil {
		t.Fatalf("Join = %v", err)
	}

	wantPressed := []input.Key{input.Char('a'), input.Char('b'), input.Named(input.Esc)}
	if len(pressed) != len(wantPressed) {
		t.Fatalf("pressed = %v, want %v", pressed, wantPressed)
	}
	for i := range wantPressed {
		if pressed[i] != wantPressed[i] {
			t.Errorf("pressed[%d] = %v, want %v", i, pressed[i], wantPressed[i])
		}
	}
	if len(released) != 3 || released[0] != input.Char('A') {
		t.Errorf("released = %v, want raw A first", released)
	}
}

func TestListenerCanonical(t *testing.T) {
	src, _ := dummy.New().Source(input.KindKeyboard)
	l := NewListener(src, Funcs{})
	if got := l.Canonical(input.Named(input.CtrlR)); got != input.Named(input.Ctrl) {
		t.Errorf("Canonical(ctrl_r) = %v, want <ctrl>", got)
	}
}

func TestFuncsNilFields(t *testing.T) {
	var f Funcs
	if err := f.OnPress(input.Char('a')); err != nil {
		t.Errorf("OnPress = %v, want nil", err)
	}
	if err := f.OnRelease(input.Char('a')); err != nil {
		t.Errorf("OnRelease = %v, want nil", err)
	}
}
