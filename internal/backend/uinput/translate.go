package uinput

import "github.com/Danondso/keychord/internal/input"

// rawEvent is the part of a kernel input event the translator needs.
type rawEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

// translator turns kernel events into keys and pointer events. It tracks
// shift so that characters come out the way they were typed, and
// integrates relative motion into an absolute position.
type translator struct {
	shiftL, shiftR bool
	capsLock       bool

	x, y  int
	moved bool
}

func (t *translator) shift() bool {
	return t.shiftL || t.shiftR
}

func (t *translator) translate(ev rawEvent) []input.Event {
	switch ev.Type {
	case typeKey:
		if b, ok := codeButton[ev.Code]; ok {
			return []input.Event{input.Click{X: t.x, Y: t.y, Button: b, Pressed: ev.Value != 0}}
		}
		return t.key(ev)
	case typeRel:
		switch ev.Code {
		case codeRelX:
			t.x += int(ev.Value)
			t.moved = true
		case codeRelY:
			t.y += int(ev.Value)
			t.moved = true
		case codeRelWheel:
			return []input.Event{input.Scroll{X: t.x, Y: t.y, DY: int(ev.Value)}}
		case codeRelHWheel:
			return []input.Event{input.Scroll{X: t.x, Y: t.y, DX: int(ev.Value)}}
		}
	case typeSyn:
		if ev.Code == codeSynReport && t.moved {
			t.moved = false
			return []input.Event{input.Move{X: t.x, Y: t.y}}
		}
	}
	return nil
}

func (t *translator) key(ev rawEvent) []input.Event {
	// value 1 = down, 2 = auto-repeat, 0 = up
	pressed := ev.Value != 0
	k := keyForCode(ev.Code, t.shift() != t.capsLock && isLetter(ev.Code) || t.shift() && !isLetter(ev.Code))

	switch k.Special {
	case input.ShiftL:
		t.shiftL = pressed
	case input.ShiftR:
		t.shiftR = pressed
	case input.CapsLock:
		if ev.Value == 1 {
			t.capsLock = !t.capsLock
		}
	}

	if pressed {
		return []input.Event{input.KeyPress{Key: k}}
	}
	return []input.Event{input.KeyRelease{Key: k}}
}

func isLetter(code uint16) bool {
	k, ok := keyCodes[code]
	return ok && k.Char >= 'a' && k.Char <= 'z'
}
