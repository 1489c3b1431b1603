package uinput

import "github.com/Danondso/keychord/internal/input"

// Button and axis codes from linux/input-event-codes.h.
const (
	codeKeyA      = 30
	codeKeyZ      = 44
	codeLeftShift = 42

	codeRelX      = 0x00
	codeRelY      = 0x01
	codeRelHWheel = 0x06
	codeRelWheel  = 0x08

	codeBtnLeft   = 0x110
	codeBtnRight  = 0x111
	codeBtnMiddle = 0x112
	codeBtnSide   = 0x113
	codeBtnExtra  = 0x114

	codeSynReport = 0

	typeSyn = 0x00
	typeKey = 0x01
	typeRel = 0x02
)

// keyCodes maps Linux key codes to keys for a US layout.
var keyCodes = map[uint16]input.Key{
	1:   input.Named(input.Esc),
	2:   input.Char('1'),
	3:   input.Char('2'),
	4:   input.Char('3'),
	5:   input.Char('4'),
	6:   input.Char('5'),
	7:   input.Char('6'),
	8:   input.Char('7'),
	9:   input.Char('8'),
	10:  input.Char('9'),
	11:  input.Char('0'),
	12:  input.Char('-'),
	13:  input.Char('='),
	14:  input.Named(input.Backspace),
	15:  input.Named(input.Tab),
	16:  input.Char('q'),
	17:  input.Char('w'),
	18:  input.Char('e'),
	19:  input.Char('r'),
	20:  input.Char('t'),
	21:  input.Char('y'),
	22:  input.Char('u'),
	23:  input.Char('i'),
	24:  input.Char('o'),
	25:  input.Char('p'),
	26:  input.Char('['),
	27:  input.Char(']'),
	28:  input.Named(input.Enter),
	29:  input.Named(input.CtrlL),
	30:  input.Char('a'),
	31:  input.Char('s'),
	32:  input.Char('d'),
	33:  input.Char('f'),
	34:  input.Char('g'),
	35:  input.Char('h'),
	36:  input.Char('j'),
	37:  input.Char('k'),
	38:  input.Char('l'),
	39:  input.Char(';'),
	40:  input.Char('\''),
	41:  input.Char('`'),
	42:  input.Named(input.ShiftL),
	43:  input.Char('\\'),
	44:  input.Char('z'),
	45:  input.Char('x'),
	46:  input.Char('c'),
	47:  input.Char('v'),
	48:  input.Char('b'),
	49:  input.Char('n'),
	50:  input.Char('m'),
	51:  input.Char(','),
	52:  input.Char('.'),
	53:  input.Char('/'),
	54:  input.Named(input.ShiftR),
	55:  input.Char('*'), // KEY_KPASTERISK
	56:  input.Named(input.AltL),
	57:  input.Named(input.Space),
	58:  input.Named(input.CapsLock),
	59:  input.Named(input.F1),
	60:  input.Named(input.F2),
	61:  input.Named(input.F3),
	62:  input.Named(input.F4),
	63:  input.Named(input.F5),
	64:  input.Named(input.F6),
	65:  input.Named(input.F7),
	66:  input.Named(input.F8),
	67:  input.Named(input.F9),
	68:  input.Named(input.F10),
	69:  input.Named(input.NumLock),
	70:  input.Named(input.ScrollLock),
	87:  input.Named(input.F11),
	88:  input.Named(input.F12),
	97:  input.Named(input.CtrlR),
	99:  input.Named(input.PrintScreen), // KEY_SYSRQ
	100: input.Named(input.AltR),
	102: input.Named(input.Home),
	103: input.Named(input.Up),
	104: input.Named(input.PageUp),
	105: input.Named(input.Left),
	106: input.Named(input.Right),
	107: input.Named(input.End),
	108: input.Named(input.Down),
	109: input.Named(input.PageDown),
	110: input.Named(input.Insert),
	111: input.Named(input.Delete),
	113: input.Named(input.MediaVolumeMute),
	114: input.Named(input.MediaVolumeDown),
	115: input.Named(input.MediaVolumeUp),
	119: input.Named(input.Pause),
	125: input.Named(input.CmdL),
	126: input.Named(input.CmdR),
	127: input.Named(input.Menu), // KEY_COMPOSE
	163: input.Named(input.MediaNext),
	164: input.Named(input.MediaPlayPause),
	165: input.Named(input.MediaPrevious),
	183: input.Named(input.F13),
	184: input.Named(input.F14),
	185: input.Named(input.F15),
	186: input.Named(input.F16),
	187: input.Named(input.F17),
	188: input.Named(input.F18),
	189: input.Named(input.F19),
	190: input.Named(input.F20),
}

// shifted maps the unshifted character of a key to the one typed with shift.
var shifted = map[rune]rune{
	'1': '!', '2': '@', '3': '#', '4': '$', '5': '%',
	'6': '^', '7': '&', '8': '*', '9': '(', '0': ')',
	'-': '_', '=': '+', '[': '{', ']': '}', ';': ':',
	'\'': '"', '`': '~', '\\': '|', ',': '<', '.': '>', '/': '?',
}

var (
	codeByKey  = map[input.Key]uint16{}
	unshifted  = map[rune]rune{}
	buttonCode = map[input.Button]uint16{
		input.ButtonLeft:   codeBtnLeft,
		input.ButtonRight:  codeBtnRight,
		input.ButtonMiddle: codeBtnMiddle,
		input.ButtonX1:     codeBtnSide,
		input.ButtonX2:     codeBtnExtra,
	}
	codeButton = map[uint16]input.Button{}
)

func init() {
	for code, k := range keyCodes {
		if code == 55 {
			// keypad asterisk; shift+8 types '*' on the main block
			continue
		}
		codeByKey[k] = code
	}
	for base, s := range shifted {
		unshifted[s] = base
	}
	for b, code := range buttonCode {
		codeButton[code] = b
	}
}

// keyForCode returns the key a code produces given the shift state.
// Unknown codes become virtual-code keys.
func keyForCode(code uint16, shift bool) input.Key {
	k, ok := keyCodes[code]
	if !ok {
		return input.VK(uint32(code))
	}
	if shift && k.Char != 0 {
		if s, ok := shifted[k.Char]; ok {
			return input.Char(s)
		}
		if k.Char >= 'a' && k.Char <= 'z' {
			return input.Char(k.Char - 'a' + 'A')
		}
	}
	return k
}

// codeForKey returns the code that types k and whether shift must be held.
func codeForKey(k input.Key) (code uint16, needShift bool, ok bool) {
	switch {
	case k.Special != input.SpecialNone:
		sp := k.Special
		switch sp {
		case input.Alt:
			sp = input.AltL
		case input.AltGr:
			sp = input.AltR
		case input.Ctrl:
			sp = input.CtrlL
		case input.Shift:
			sp = input.ShiftL
		case input.Cmd:
			sp = input.CmdL
		}
		code, ok = codeByKey[input.Named(sp)]
		return code, false, ok
	case k.Char != 0:
		r := k.Char
		if r >= 'A' && r <= 'Z' {
			code, ok = codeByKey[input.Char(r-'A'+'a')]
			return code, true, ok
		}
		if base, isShifted := unshifted[r]; isShifted {
			code, ok = codeByKey[input.Char(base)]
			return code, true, ok
		}
		if sp, isControl := input.ControlKey(r); isControl {
			code, ok = codeByKey[input.Named(sp)]
			return code, false, ok
		}
		code, ok = codeByKey[input.Char(r)]
		return code, false, ok
	case k.VK != 0 && k.VK <= 0x2ff:
		return uint16(k.VK), false, true
	}
	return 0, false, false
}
