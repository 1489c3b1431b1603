// Package hotkey detects key combinations from a stream of key presses and
// releases.
package hotkey

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Danondso/keychord/internal/input"
)

// ErrInvalidHotKey is wrapped by every Parse error.
var ErrInvalidHotKey = errors.New("invalid hotkey")

// HotKey tracks which of a fixed set of keys are held and fires once each
// time the whole set becomes held. Releasing any key of the set re-arms it.
//
// Keys passed to Press and Release are compared as-is; callers feeding raw
// listener events should canonicalize them first. A HotKey is not safe for
// concurrent use.
type HotKey struct {
	keys       []input.Key
	want       map[input.Key]struct{}
	state      map[input.Key]struct{}
	onActivate func()
}

// New creates a hotkey that calls onActivate when all keys are held.
func New(keys []input.Key, onActivate func()) *HotKey {
	h := &HotKey{
		keys:       append([]input.Key(nil), keys...),
		want:       make(map[input.Key]struct{}, len(keys)),
		state:      make(map[input.Key]struct{}, len(keys)),
		onActivate: onActivate,
	}
	for _, k := range keys {
		h.want[k] = struct{}{}
	}
	return h
}

// Press records k as held. If that completes the set, onActivate runs.
func (h *HotKey) Press(k input.Key) {
	if _, ok := h.want[k]; !ok {
		return
	}
	if _, ok := h.state[k]; ok {
		return
	}
	h.state[k] = struct{}{}
	if len(h.state) == len(h.want) && h.onActivate != nil {
		h.onActivate()
	}
}

// Release records k as no longer held.
func (h *HotKey) Release(k input.Key) {
	delete(h.state, k)
}

// Keys returns the keys of the combination in the order given to New.
func (h *HotKey) Keys() []input.Key {
	return append([]input.Key(nil), h.keys...)
}

// Pressed returns the held keys of the combination, in combination order.
func (h *HotKey) Pressed() []input.Key {
	out := make([]input.Key, 0, len(h.state))
	for _, k := range h.keys {
		if _, ok := h.state[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// String renders the combination in Parse syntax.
func (h *HotKey) String() string {
	return Format(h.keys)
}

// Parse reads a combination such as "<ctrl>+<alt>+h". Parts are separated
// by '+'; a '+' directly after a separator is the plus key itself, so
// "<ctrl>++" is ctrl and plus. Each part is a single character, a special
// key name in angle brackets, or a virtual key code in angle brackets.
// The returned keys are canonical.
func Parse(s string) ([]input.Key, error) {
	parts, err := split(s)
	if err != nil {
		return nil, err
	}

	keys := make([]input.Key, 0, len(parts))
	seen := make(map[input.Key]struct{}, len(parts))
	for _, part := range parts {
		k, err := parseKey(part)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidHotKey, s, err)
		}
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("%w %q: duplicate key %s", ErrInvalidHotKey, s, k)
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) []input.Key {
	keys, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return keys
}

func split(s string) ([]string, error) {
	var parts []string
	start := 0
	for i, c := range s {
		if c == '+' && i != start {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	if start == len(s) {
		return nil, fmt.Errorf("%w %q: missing key after separator", ErrInvalidHotKey, s)
	}
	return append(parts, s[start:]), nil
}

func parseKey(part string) (input.Key, error) {
	if utf8.RuneCountInString(part) == 1 {
		r, _ := utf8.DecodeRuneInString(part)
		return input.Canonical(input.Char(r)), nil
	}

	if len(part) > 2 && strings.HasPrefix(part, "<") && strings.HasSuffix(part, ">") {
		name := part[1 : len(part)-1]
		if sp, ok := input.LookupSpecial(name); ok {
			return input.Canonical(input.Named(sp)), nil
		}
		if code, err := strconv.ParseUint(name, 10, 32); err == nil && code > 0 {
			return input.VK(uint32(code)), nil
		}
	}
	return input.Key{}, fmt.Errorf("unknown key %q", part)
}

// Format renders keys in Parse syntax.
func Format(keys []input.Key) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.String()
	}
	return strings.Join(parts, "+")
}
