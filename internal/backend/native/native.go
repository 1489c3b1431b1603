//go:build darwin

// Package native listens for registered key combinations through the macOS
// global hotkey API. It sees nothing but the chords registered up front, so
// it only serves GlobalHotKeys.
package native

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.design/x/hotkey"

	"github.com/Danondso/keychord/internal/backend"
	combo "github.com/Danondso/keychord/internal/hotkey"
	"github.com/Danondso/keychord/internal/input"
	"github.com/Danondso/keychord/internal/listener"
)

// Name is the registry name of this backend.
const Name = "hotkey"

// ErrNoChords is returned when a source is started before any chord was
// registered.
var ErrNoChords = errors.New("no chords registered")

func init() {
	backend.Register(Name, Open)
}

// modifierMap maps modifier keys to hotkey.Modifier values.
var modifierMap = map[input.Special]hotkey.Modifier{
	input.Alt:   hotkey.ModOption,
	input.Ctrl:  hotkey.ModCtrl,
	input.Shift: hotkey.ModShift,
	input.Cmd:   hotkey.ModCmd,
}

// specialMap maps named keys to hotkey.Key values.
var specialMap = map[input.Special]hotkey.Key{
	input.Space:  hotkey.KeySpace,
	input.Enter:  hotkey.KeyReturn,
	input.Esc:    hotkey.KeyEscape,
	input.Delete: hotkey.KeyDelete,
	input.Tab:    hotkey.KeyTab,
	input.Left:   hotkey.KeyLeft,
	input.Right:  hotkey.KeyRight,
	input.Up:     hotkey.KeyUp,
	input.Down:   hotkey.KeyDown,
	input.F1:     hotkey.KeyF1,
	input.F2:     hotkey.KeyF2,
	input.F3:     hotkey.KeyF3,
	input.F4:     hotkey.KeyF4,
	input.F5:     hotkey.KeyF5,
	input.F6:     hotkey.KeyF6,
	input.F7:     hotkey.KeyF7,
	input.F8:     hotkey.KeyF8,
	input.F9:     hotkey.KeyF9,
	input.F10:    hotkey.KeyF10,
	input.F11:    hotkey.KeyF11,
	input.F12:    hotkey.KeyF12,
	input.F13:    hotkey.KeyF13,
	input.F14:    hotkey.KeyF14,
	input.F15:    hotkey.KeyF15,
	input.F16:    hotkey.KeyF16,
	input.F17:    hotkey.KeyF17,
	input.F18:    hotkey.KeyF18,
	input.F19:    hotkey.KeyF19,
	input.F20:    hotkey.KeyF20,
}

// charMap maps character keys to hotkey.Key values.
var charMap = map[rune]hotkey.Key{
	'a': hotkey.KeyA, 'b': hotkey.KeyB, 'c': hotkey.KeyC, 'd': hotkey.KeyD,
	'e': hotkey.KeyE, 'f': hotkey.KeyF, 'g': hotkey.KeyG, 'h': hotkey.KeyH,
	'i': hotkey.KeyI, 'j': hotkey.KeyJ, 'k': hotkey.KeyK, 'l': hotkey.KeyL,
	'm': hotkey.KeyM, 'n': hotkey.KeyN, 'o': hotkey.KeyO, 'p': hotkey.KeyP,
	'q': hotkey.KeyQ, 'r': hotkey.KeyR, 's': hotkey.KeyS, 't': hotkey.KeyT,
	'u': hotkey.KeyU, 'v': hotkey.KeyV, 'w': hotkey.KeyW, 'x': hotkey.KeyX,
	'y': hotkey.KeyY, 'z': hotkey.KeyZ,
	'0': hotkey.Key0, '1': hotkey.Key1, '2': hotkey.Key2, '3': hotkey.Key3,
	'4': hotkey.Key4, '5': hotkey.Key5, '6': hotkey.Key6, '7': hotkey.Key7,
	'8': hotkey.Key8, '9': hotkey.Key9,
}

// chord is one registrable combination: modifiers plus exactly one key.
type chord struct {
	keys []input.Key
	mods []hotkey.Modifier
	key  hotkey.Key
}

// toChord converts canonical keys into a registrable chord.
func toChord(keys []input.Key) (chord, error) {
	c := chord{keys: keys}
	var main []input.Key
	for _, k := range keys {
		if mod, ok := modifierMap[k.Special]; ok {
			c.mods = append(c.mods, mod)
			continue
		}
		main = append(main, k)
	}
	if len(main) != 1 {
		return chord{}, fmt.Errorf("%s needs modifiers plus exactly one key: %w", combo.Format(keys), backend.ErrUnsupported)
	}

	k := main[0]
	switch {
	case k.Special != input.SpecialNone:
		hk, ok := specialMap[k.Special]
		if !ok {
			return chord{}, fmt.Errorf("key %s: %w", k, backend.ErrUnsupported)
		}
		c.key = hk
	case k.Char != 0:
		hk, ok := charMap[k.Char]
		if !ok {
			return chord{}, fmt.Errorf("key %s: %w", k, backend.ErrUnsupported)
		}
		c.key = hk
	default:
		c.key = hotkey.Key(k.VK)
	}
	return c, nil
}

// Backend registers chords with the operating system.
type Backend struct {
	logger *log.Logger
}

// Open creates the backend.
func Open(opts backend.Options) (backend.Backend, error) {
	return &Backend{logger: opts.Log()}, nil
}

// Name implements backend.Backend.
func (b *Backend) Name() string { return Name }

// Source implements backend.Backend. Only keyboard sources exist.
func (b *Backend) Source(kinds input.Kind) (listener.Source, error) {
	if kinds.Has(input.KindMouse) {
		return nil, fmt.Errorf("%s mouse listener: %w", Name, backend.ErrUnsupported)
	}
	return &Source{logger: b.logger}, nil
}

// Emitter implements backend.Backend.
func (b *Backend) Emitter() (backend.Emitter, error) {
	return nil, fmt.Errorf("%s synthesis: %w", Name, backend.ErrUnsupported)
}

// Source reports registered chords as the key presses and releases that
// make them up.
type Source struct {
	logger *log.Logger

	mu     sync.Mutex
	chords []chord
}

var _ combo.ChordRegistrar = (*Source)(nil)

// RegisterChords replaces the chords the source registers when it runs.
func (s *Source) RegisterChords(chords [][]input.Key) error {
	out := make([]chord, 0, len(chords))
	for _, keys := range chords {
		c, err := toChord(keys)
		if err != nil {
			return err
		}
		out = append(out, c)
	}
	s.mu.Lock()
	s.chords = out
	s.mu.Unlock()
	return nil
}

type activation struct {
	chord int
	down  bool
}

// Run implements listener.Source. Registered chords never reach other
// applications, so suppression is always in effect.
func (s *Source) Run(ctx context.Context, opts listener.SourceOptions, ready func(), emit listener.Emit) error {
	s.mu.Lock()
	chords := append([]chord(nil), s.chords...)
	s.mu.Unlock()
	if len(chords) == 0 {
		return ErrNoChords
	}
	if opts.Intercept {
		s.logger.Printf("backend: %s cannot pass chords through, filter verdicts are ignored", Name)
	}

	hks := make([]*hotkey.Hotkey, 0, len(chords))
	defer func() {
		for _, hk := range hks {
			if err := hk.Unregister(); err != nil {
				s.logger.Printf("backend: unregister hotkey: %v", err)
			}
		}
	}()
	for _, c := range chords {
		hk := hotkey.New(c.mods, c.key)
		if err := hk.Register(); err != nil {
			return fmt.Errorf("register hotkey %s: %w", combo.Format(c.keys), err)
		}
		hks = append(hks, hk)
	}

	acts := make(chan activation)
	var wg sync.WaitGroup
	for i, hk := range hks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			forward(ctx, i, hk, acts)
		}()
	}
	defer wg.Wait()
	ready()

	for {
		select {
		case <-ctx.Done():
			return nil
		case a := <-acts:
			for _, ev := range sequence(chords[a.chord].keys, a.down) {
				emit(ev)
			}
		}
	}
}

func forward(ctx context.Context, i int, hk *hotkey.Hotkey, acts chan<- activation) {
	for {
		var a activation
		select {
		case <-ctx.Done():
			return
		case <-hk.Keydown():
			a = activation{chord: i, down: true}
		case <-hk.Keyup():
			a = activation{chord: i, down: false}
		}
		select {
		case acts <- a:
		case <-ctx.Done():
			return
		}
	}
}

// sequence expands a chord into presses in order, or releases in reverse.
func sequence(keys []input.Key, down bool) []input.Event {
	out := make([]input.Event, 0, len(keys))
	if down {
		for _, k := range keys {
			out = append(out, input.KeyPress{Key: k})
		}
		return out
	}
	for i := len(keys) - 1; i >= 0; i-- {
		out = append(out, input.KeyRelease{Key: keys[i]})
	}
	return out
}
