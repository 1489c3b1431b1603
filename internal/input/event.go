package input

import "fmt"

// Kind is a set of event families.
type Kind uint8

const (
	KindKeyboard Kind = 1 << iota
	KindMouse

	KindAll = KindKeyboard | KindMouse
)

// Has reports whether every family in other is in k.
func (k Kind) Has(other Kind) bool { return k&other == other && other != 0 }

func (k Kind) String() string {
	switch k {
	case KindKeyboard:
		return "keyboard"
	case KindMouse:
		return "mouse"
	case KindAll:
		return "keyboard+mouse"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Button is a mouse button.
type Button uint8

const (
	ButtonUnknown Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
	ButtonX1
	ButtonX2
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	case ButtonX1:
		return "x1"
	case ButtonX2:
		return "x2"
	}
	return "unknown"
}

// Event is a single input event delivered by a backend.
type Event interface {
	Kind() Kind
	String() string
}

// KeyPress is emitted when a key goes down or auto-repeats.
type KeyPress struct {
	Key Key
}

// KeyRelease is emitted when a key goes up.
type KeyRelease struct {
	Key Key
}

// Move is emitted when the pointer moves to X, Y.
type Move struct {
	X, Y int
}

// Click is emitted when Button is pressed or released at X, Y.
type Click struct {
	X, Y    int
	Button  Button
	Pressed bool
}

// Scroll is emitted when the wheel scrolls by DX, DY at X, Y.
type Scroll struct {
	X, Y   int
	DX, DY int
}

func (KeyPress) Kind() Kind   { return KindKeyboard }
func (KeyRelease) Kind() Kind { return KindKeyboard }
func (Move) Kind() Kind       { return KindMouse }
func (Click) Kind() Kind      { return KindMouse }
func (Scroll) Kind() Kind     { return KindMouse }

func (e KeyPress) String() string   { return "press " + e.Key.String() }
func (e KeyRelease) String() string { return "release " + e.Key.String() }
func (e Move) String() string       { return fmt.Sprintf("move (%d, %d)", e.X, e.Y) }

func (e Click) String() string {
	verb := "release"
	if e.Pressed {
		verb = "press"
	}
	return fmt.Sprintf("%s %s (%d, %d)", verb, e.Button, e.X, e.Y)
}

func (e Scroll) String() string {
	return fmt.Sprintf("scroll %+d,%+d (%d, %d)", e.DX, e.DY, e.X, e.Y)
}
