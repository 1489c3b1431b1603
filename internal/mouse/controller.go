package mouse

import (
	"errors"
	"fmt"

	"github.com/Danondso/keychord/internal/input"
)

// ErrInvalidButton is returned for ButtonUnknown.
var ErrInvalidButton = errors.New("invalid mouse button")

// Emitter injects pointer events and reports the pointer position.
type Emitter interface {
	Emit(ev input.Event) error
	Position() (x, y int, err error)
}

// Controller moves the pointer and sends button and wheel events.
type Controller struct {
	em Emitter
}

// NewController creates a controller that sends events through em.
func NewController(em Emitter) *Controller {
	return &Controller{em: em}
}

// Position returns the current pointer position.
func (c *Controller) Position() (int, int, error) {
	x, y, err := c.em.Position()
	if err != nil {
		return 0, 0, fmt.Errorf("read pointer position: %w", err)
	}
	return x, y, nil
}

// SetPosition moves the pointer to x, y.
func (c *Controller) SetPosition(x, y int) error {
	return c.emit(input.Move{X: x, Y: y})
}

// Move moves the pointer by dx, dy from its current position.
func (c *Controller) Move(dx, dy int) error {
	x, y, err := c.Position()
	if err != nil {
		return err
	}
	return c.SetPosition(x+dx, y+dy)
}

// Press presses b at the current position.
func (c *Controller) Press(b input.Button) error {
	return c.touch(b, true)
}

// Release releases b at the current position.
func (c *Controller) Release(b input.Button) error {
	return c.touch(b, false)
}

func (c *Controller) touch(b input.Button, pressed bool) error {
	if b == input.ButtonUnknown {
		return ErrInvalidButton
	}
	x, y, err := c.Position()
	if err != nil {
		return err
	}
	return c.emit(input.Click{X: x, Y: y, Button: b, Pressed: pressed})
}

// Click presses and releases b count times.
func (c *Controller) Click(b input.Button, count int) error {
	for i := 0; i < count; i++ {
		if err := c.Press(b); err != nil {
			return err
		}
		if err := c.Release(b); err != nil {
			return err
		}
	}
	return nil
}

// Scroll scrolls by dx, dy steps at the current position.
func (c *Controller) Scroll(dx, dy int) error {
	x, y, err := c.Position()
	if err != nil {
		return err
	}
	return c.emit(input.Scroll{X: x, Y: y, DX: dx, DY: dy})
}

func (c *Controller) emit(ev input.Event) error {
	if err := c.em.Emit(ev); err != nil {
		return fmt.Errorf("emit %v: %w", ev, err)
	}
	return nil
}
