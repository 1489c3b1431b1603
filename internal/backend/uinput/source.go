//go:build linux

package uinput

import (
	"context"
	"errors"
	"fmt"
	"log"

	evdev "github.com/holoplot/go-evdev"

	"github.com/Danondso/keychord/internal/input"
	"github.com/Danondso/keychord/internal/listener"
)

// source reads keyboard and mouse devices directly.
type source struct {
	keyboardPath string
	mousePath    string
	logger       *log.Logger
}

func (s *source) open(kinds input.Kind) ([]*deviceReader, error) {
	var readers []*deviceReader
	closeAll := func() {
		for _, r := range readers {
			r.Close()
		}
	}

	if kinds&input.KindKeyboard != 0 {
		dev, err := FindKeyboard(s.keyboardPath)
		if err != nil {
			return nil, err
		}
		s.logger.Printf("backend: keyboard device %s", dev.Path())
		readers = append(readers, &deviceReader{dev: dev})
	}
	if kinds&input.KindMouse != 0 {
		dev, err := FindMouse(s.mousePath)
		if err != nil {
			closeAll()
			return nil, err
		}
		s.logger.Printf("backend: mouse device %s", dev.Path())
		readers = append(readers, &deviceReader{dev: dev})
	}
	return readers, nil
}

// Run implements listener.Source. Suppression grabs the devices
// exclusively, so it applies to every event; per-event filter verdicts are
// not honored.
func (s *source) Run(ctx context.Context, opts listener.SourceOptions, ready func(), emit listener.Emit) error {
	readers, err := s.open(opts.Kinds)
	if err != nil {
		return err
	}
	defer func() {
		for _, r := range readers {
			r.Close()
		}
	}()

	if opts.Suppress {
		for _, r := range readers {
			if err := r.dev.Grab(); err != nil {
				return fmt.Errorf("grab %s: %w", r.dev.Path(), err)
			}
		}
	}
	if opts.Intercept && !opts.Suppress {
		s.logger.Printf("backend: uinput cannot withhold single events, filter verdicts are ignored")
	}

	raw := make(chan *evdev.InputEvent)
	quit := make(chan struct{})
	errCh := make(chan error, len(readers))
	for _, r := range readers {
		go func(r *deviceReader) {
			errCh <- r.run(raw, quit)
		}(r)
	}
	defer close(quit)

	ready()

	var tr translator
	pending := len(readers)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			pending--
			if err != nil {
				return err
			}
			if pending == 0 {
				return errors.New("all input devices closed")
			}
		case ev := <-raw:
			for _, e := range tr.translate(rawEvent{Type: uint16(ev.Type), Code: uint16(ev.Code), Value: ev.Value}) {
				emit(e)
			}
		}
	}
}
