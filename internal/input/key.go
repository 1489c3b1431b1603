// Package input defines the keys, buttons and events shared by listeners,
// controllers and backends.
package input

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Special identifies a named key that has no character of its own.
type Special uint8

const (
	SpecialNone Special = iota
	Alt
	AltL
	AltR
	AltGr
	Backspace
	CapsLock
	Cmd
	CmdL
	CmdR
	Ctrl
	CtrlL
	CtrlR
	Delete
	Down
	End
	Enter
	Esc
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	F13
	F14
	F15
	F16
	F17
	F18
	F19
	F20
	Home
	Left
	PageDown
	PageUp
	Right
	Shift
	ShiftL
	ShiftR
	Space
	Tab
	Up
	MediaPlayPause
	MediaVolumeMute
	MediaVolumeDown
	MediaVolumeUp
	MediaPrevious
	MediaNext
	Insert
	Menu
	NumLock
	Pause
	PrintScreen
	ScrollLock

	specialCount
)

var specialNames = [specialCount]string{
	SpecialNone:     "",
	Alt:             "alt",
	AltL:            "alt_l",
	AltR:            "alt_r",
	AltGr:           "alt_gr",
	Backspace:       "backspace",
	CapsLock:        "caps_lock",
	Cmd:             "cmd",
	CmdL:            "cmd_l",
	CmdR:            "cmd_r",
	Ctrl:            "ctrl",
	CtrlL:           "ctrl_l",
	CtrlR:           "ctrl_r",
	Delete:          "delete",
	Down:            "down",
	End:             "end",
	Enter:           "enter",
	Esc:             "esc",
	F1:              "f1",
	F2:              "f2",
	F3:              "f3",
	F4:              "f4",
	F5:              "f5",
	F6:              "f6",
	F7:              "f7",
	F8:              "f8",
	F9:              "f9",
	F10:             "f10",
	F11:             "f11",
	F12:             "f12",
	F13:             "f13",
	F14:             "f14",
	F15:             "f15",
	F16:             "f16",
	F17:             "f17",
	F18:             "f18",
	F19:             "f19",
	F20:             "f20",
	Home:            "home",
	Left:            "left",
	PageDown:        "page_down",
	PageUp:          "page_up",
	Right:           "right",
	Shift:           "shift",
	ShiftL:          "shift_l",
	ShiftR:          "shift_r",
	Space:           "space",
	Tab:             "tab",
	Up:              "up",
	MediaPlayPause:  "media_play_pause",
	MediaVolumeMute: "media_volume_mute",
	MediaVolumeDown: "media_volume_down",
	MediaVolumeUp:   "media_volume_up",
	MediaPrevious:   "media_previous",
	MediaNext:       "media_next",
	Insert:          "insert",
	Menu:            "menu",
	NumLock:         "num_lock",
	Pause:           "pause",
	PrintScreen:     "print_screen",
	ScrollLock:      "scroll_lock",
}

var specialByName = func() map[string]Special {
	m := make(map[string]Special, specialCount)
	for s := Special(1); s < specialCount; s++ {
		m[specialNames[s]] = s
	}
	return m
}()

// genericModifier maps sided modifier variants to their generic key.
var genericModifier = map[Special]Special{
	AltL:   Alt,
	AltR:   Alt,
	CmdL:   Cmd,
	CmdR:   Cmd,
	CtrlL:  Ctrl,
	CtrlR:  Ctrl,
	ShiftL: Shift,
	ShiftR: Shift,
}

// String returns the lower-case name used in hotkey strings, e.g. "page_down".
func (s Special) String() string {
	if s < specialCount {
		return specialNames[s]
	}
	return "special(" + strconv.Itoa(int(s)) + ")"
}

// IsModifier reports whether s is one of alt, alt_gr, cmd, ctrl or shift,
// in either generic or sided form.
func (s Special) IsModifier() bool {
	switch s {
	case Alt, AltL, AltR, AltGr, Cmd, CmdL, CmdR, Ctrl, CtrlL, CtrlR, Shift, ShiftL, ShiftR:
		return true
	}
	return false
}

// Generic returns the generic modifier for a sided variant and s otherwise.
func (s Special) Generic() Special {
	if g, ok := genericModifier[s]; ok {
		return g
	}
	return s
}

// LookupSpecial finds a special key by name, ignoring case.
func LookupSpecial(name string) (Special, bool) {
	s, ok := specialByName[strings.ToLower(name)]
	return s, ok
}

// Specials returns every named key in declaration order.
func Specials() []Special {
	out := make([]Special, 0, specialCount-1)
	for s := Special(1); s < specialCount; s++ {
		out = append(out, s)
	}
	return out
}

// Key identifies a keyboard key. A key is either a named special key, a key
// producing a character, or a key known only by its platform virtual code.
// Backends may fill VK alongside Special or Char; the zero Key is invalid.
type Key struct {
	Special Special
	Char    rune
	VK      uint32
}

// Named returns the key for a special key.
func Named(s Special) Key { return Key{Special: s} }

// Char returns the key producing r.
func Char(r rune) Key { return Key{Char: r} }

// VK returns a key identified only by its virtual key code.
func VK(code uint32) Key { return Key{VK: code} }

// IsZero reports whether k identifies no key at all.
func (k Key) IsZero() bool { return k == Key{} }

// IsModifier reports whether k is a modifier key.
func (k Key) IsModifier() bool { return k.Special.IsModifier() }

// String renders k the way hotkey strings spell it: "<ctrl>", "a", "<65>".
func (k Key) String() string {
	switch {
	case k.Special != SpecialNone:
		return "<" + k.Special.String() + ">"
	case k.Char != 0:
		if unicode.IsPrint(k.Char) && k.Char != ' ' {
			return string(k.Char)
		}
		return fmt.Sprintf("%q", k.Char)
	case k.VK != 0:
		return "<" + strconv.FormatUint(uint64(k.VK), 10) + ">"
	}
	return "<none>"
}

// controlChars maps whitespace characters to the special key that types them.
var controlChars = map[rune]Special{
	' ':  Space,
	'\t': Tab,
	'\n': Enter,
	'\r': Enter,
}

// Canonical collapses k to the form hotkeys compare against. Characters are
// lower-cased, sided modifiers become generic ones (alt_gr stays distinct)
// and platform virtual codes are dropped from keys that have a name or a
// character. Keys known only by their virtual code are returned unchanged.
func Canonical(k Key) Key {
	switch {
	case k.Special != SpecialNone:
		return Named(k.Special.Generic())
	case k.Char != 0:
		if s, ok := controlChars[k.Char]; ok {
			return Named(s)
		}
		return Char(unicode.ToLower(k.Char))
	}
	return k
}

// ControlKey reports the special key typed for a whitespace control
// character such as '\n'.
func ControlKey(r rune) (Special, bool) {
	s, ok := controlChars[r]
	return s, ok
}
