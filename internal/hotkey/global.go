package hotkey

import (
	"fmt"
	"sort"

	"github.com/Danondso/keychord/internal/input"
	"github.com/Danondso/keychord/internal/keyboard"
	"github.com/Danondso/keychord/internal/listener"
)

// ChordRegistrar is implemented by sources that only observe combinations
// registered with the operating system ahead of time.
type ChordRegistrar interface {
	RegisterChords(chords [][]input.Key) error
}

// Option configures GlobalHotKeys.
type Option func(*globalOptions)

type globalOptions struct {
	everyPress func(input.Key)
	listener   []listener.Option
}

// WithEveryPress calls fn with every raw key press before hotkeys see it.
func WithEveryPress(fn func(input.Key)) Option {
	return func(o *globalOptions) { o.everyPress = fn }
}

// WithListenerOptions passes options through to the keyboard listener.
func WithListenerOptions(opts ...listener.Option) Option {
	return func(o *globalOptions) { o.listener = append(o.listener, opts...) }
}

// GlobalHotKeys runs a set of hotkeys on one keyboard listener. Every press
// and release is canonicalized and offered to each hotkey in combination
// order.
type GlobalHotKeys struct {
	*keyboard.Listener

	combos     []string
	hotkeys    []*HotKey
	everyPress func(input.Key)
}

// NewGlobalHotKeys parses every combination in bindings and creates an idle
// listener on src that activates the matching callback.
func NewGlobalHotKeys(src listener.Source, bindings map[string]func(), opts ...Option) (*GlobalHotKeys, error) {
	var o globalOptions
	for _, opt := range opts {
		opt(&o)
	}

	combos := make([]string, 0, len(bindings))
	for combo := range bindings {
		combos = append(combos, combo)
	}
	sort.Strings(combos)

	g := &GlobalHotKeys{combos: combos, everyPress: o.everyPress}
	chords := make([][]input.Key, 0, len(combos))
	for _, combo := range combos {
		keys, err := Parse(combo)
		if err != nil {
			return nil, err
		}
		g.hotkeys = append(g.hotkeys, New(keys, bindings[combo]))
		chords = append(chords, keys)
	}

	if r, ok := src.(ChordRegistrar); ok {
		if err := r.RegisterChords(chords); err != nil {
			return nil, fmt.Errorf("register chords: %w", err)
		}
	}

	lopts := append([]listener.Option{listener.WithName("hotkeys")}, o.listener...)
	g.Listener = keyboard.NewListener(src, keyboard.Funcs{Press: g.press, Release: g.release}, lopts...)
	return g, nil
}

func (g *GlobalHotKeys) press(k input.Key) error {
	if g.everyPress != nil {
		g.everyPress(k)
	}
	c := input.Canonical(k)
	for _, h := range g.hotkeys {
		h.Press(c)
	}
	return nil
}

func (g *GlobalHotKeys) release(k input.Key) error {
	c := input.Canonical(k)
	for _, h := range g.hotkeys {
		h.Release(c)
	}
	return nil
}

// Combos returns the registered combinations, sorted.
func (g *GlobalHotKeys) Combos() []string {
	return append([]string(nil), g.combos...)
}

