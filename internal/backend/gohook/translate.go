//go:build darwin || windows || (linux && xorg)

package gohook

import (
	"unicode/utf8"

	hook "github.com/robotn/gohook"

	"github.com/Danondso/keychord/internal/input"
)

// hookNames maps gohook key names to special keys.
var hookNames = map[string]input.Special{
	"alt":            input.AltL,
	"lalt":           input.AltL,
	"ralt":           input.AltR,
	"cmd":            input.CmdL,
	"lcmd":           input.CmdL,
	"rcmd":           input.CmdR,
	"command":        input.CmdL,
	"ctrl":           input.CtrlL,
	"lctrl":          input.CtrlL,
	"rctrl":          input.CtrlR,
	"control":        input.CtrlL,
	"shift":          input.ShiftL,
	"lshift":         input.ShiftL,
	"rshift":         input.ShiftR,
	"enter":          input.Enter,
	"return":         input.Enter,
	"esc":            input.Esc,
	"escape":         input.Esc,
	"space":          input.Space,
	"tab":            input.Tab,
	"backspace":      input.Backspace,
	"delete":         input.Delete,
	"insert":         input.Insert,
	"home":           input.Home,
	"end":            input.End,
	"pageup":         input.PageUp,
	"pagedown":       input.PageDown,
	"up":             input.Up,
	"down":           input.Down,
	"left":           input.Left,
	"right":          input.Right,
	"capslock":       input.CapsLock,
	"numlock":        input.NumLock,
	"scrolllock":     input.ScrollLock,
	"printscreen":    input.PrintScreen,
	"pause":          input.Pause,
	"menu":           input.Menu,
	"audio_mute":     input.MediaVolumeMute,
	"audio_vol_down": input.MediaVolumeDown,
	"audio_vol_up":   input.MediaVolumeUp,
	"audio_play":     input.MediaPlayPause,
	"audio_prev":     input.MediaPrevious,
	"audio_next":     input.MediaNext,
}

// keyFor names the key behind a raw hook code.
func keyFor(rawcode uint16) input.Key {
	name := hook.RawcodetoKeychar(rawcode)
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return input.Key{Char: r, VK: uint32(rawcode)}
	}
	if sp, ok := hookNames[name]; ok {
		return input.Key{Special: sp, VK: uint32(rawcode)}
	}
	if sp, ok := input.LookupSpecial(name); ok {
		return input.Key{Special: sp, VK: uint32(rawcode)}
	}
	return input.VK(uint32(rawcode))
}

// buttons maps libuiohook button numbers to buttons.
var buttons = map[uint16]input.Button{
	1: input.ButtonLeft,
	2: input.ButtonRight,
	3: input.ButtonMiddle,
	4: input.ButtonX1,
	5: input.ButtonX2,
}

// wheelHorizontal is libuiohook's WHEEL_HORIZONTAL_DIRECTION.
const wheelHorizontal = 4

// translate converts a hook event. gohook's KeyDown is libuiohook's "key
// typed" and its MouseHold and MouseDown are "pressed" and "released".
func translate(ev hook.Event) (input.Event, bool) {
	x, y := int(ev.X), int(ev.Y)
	switch ev.Kind {
	case hook.KeyHold:
		return input.KeyPress{Key: keyFor(ev.Rawcode)}, true
	case hook.KeyUp:
		return input.KeyRelease{Key: keyFor(ev.Rawcode)}, true
	case hook.MouseHold:
		return input.Click{X: x, Y: y, Button: buttons[ev.Button], Pressed: true}, true
	case hook.MouseDown:
		return input.Click{X: x, Y: y, Button: buttons[ev.Button], Pressed: false}, true
	case hook.MouseMove, hook.MouseDrag:
		return input.Move{X: x, Y: y}, true
	case hook.MouseWheel:
		if ev.Direction == wheelHorizontal {
			return input.Scroll{X: x, Y: y, DX: int(ev.Rotation)}, true
		}
		return input.Scroll{X: x, Y: y, DY: -int(ev.Rotation)}, true
	}
	return nil, false
}
