//go:build darwin

package native

import (
	"errors"
	"strings"
	"testing"

	"golang.design/x/hotkey"

	"github.com/Danondso/keychord/internal/backend"
	"github.com/Danondso/keychord/internal/input"
)

func TestToChord(t *testing.T) {
	tests := []struct {
		name     string
		keys     []input.Key
		wantMods []hotkey.Modifier
		wantKey  hotkey.Key
		wantErr  bool
	}{
		{"option+space", []input.Key{input.Named(input.Alt), input.Named(input.Space)}, []hotkey.Modifier{hotkey.ModOption}, hotkey.KeySpace, false},
		{"ctrl+f5", []input.Key{input.Named(input.Ctrl), input.Named(input.F5)}, []hotkey.Modifier{hotkey.ModCtrl}, hotkey.KeyF5, false},
		{"ctrl+shift+s", []input.Key{input.Named(input.Ctrl), input.Named(input.Shift), input.Char('s')}, []hotkey.Modifier{hotkey.ModCtrl, hotkey.ModShift}, hotkey.KeyS, false},
		{"cmd+alt+1", []input.Key{input.Named(input.Cmd), input.Named(input.Alt), input.Char('1')}, []hotkey.Modifier{hotkey.ModCmd, hotkey.ModOption}, hotkey.Key1, false},
		{"bare key", []input.Key{input.Char('a')}, nil, hotkey.KeyA, false},
		{"virtual code", []input.Key{input.Named(input.Cmd), input.VK(0x31)}, []hotkey.Modifier{hotkey.ModCmd}, hotkey.Key(0x31), false},
		{"modifiers only", []input.Key{input.Named(input.Ctrl), input.Named(input.Shift)}, nil, 0, true},
		{"two keys", []input.Key{input.Char('a'), input.Char('b')}, nil, 0, true},
		{"unmapped special", []input.Key{input.Named(input.Ctrl), input.Named(input.MediaNext)}, nil, 0, true},
		{"unmapped char", []input.Key{input.Named(input.Ctrl), input.Char('é')}, nil, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := toChord(tt.keys)
			if tt.wantErr {
				if !errors.Is(err, backend.ErrUnsupported) {
					t.Errorf("toChord = %v, want ErrUnsupported", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(c.mods) != len(tt.wantMods) {
				t.Fatalf("mods = %v, want %v", c.mods, tt.wantMods)
			}
			for i := range c.mods {
				if c.mods[i] != tt.wantMods[i] {
					t.Errorf("mod[%d] = %v, want %v", i, c.mods[i], tt.wantMods[i])
				}
			}
			if c.key != tt.wantKey {
				t.Errorf("key = %v, want %v", c.key, tt.wantKey)
			}
		})
	}
}

func TestToChordErrorNamesCombo(t *testing.T) {
	keys := []input.Key{input.Named(input.Ctrl), input.Char('a'), input.Char('b')}
	_, err := toChord(keys)
	if !errors.Is(err, backend.ErrUnsupported) {
		t.Fatalf("toChord error = %v, want ErrUnsupported", err)
	}
	if !strings.Contains(err.Error(), "<ctrl>+a+b") {
		t.Errorf("error %q does not name the combination <ctrl>+a+b", err)
	}
}

func TestSequence(t *testing.T) {
	keys := []input.Key{input.Named(input.Ctrl), input.Char('h')}

	down := sequence(keys, true)
	up := sequence(keys, false)
	want := []string{"press <ctrl>", "press h", "release h", "release <ctrl>"}
	got := []string{down[0].String(), down[1].String(), up[0].String(), up[1].String()}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegisterChordsRejectsUnsupported(t *testing.T) {
	s := &Source{}
	err := s.RegisterChords([][]input.Key{{input.Named(input.Ctrl)}})
	if !errors.Is(err, backend.ErrUnsupported) {
		t.Errorf("RegisterChords = %v, want ErrUnsupported", err)
	}
}

func TestMouseSourceUnsupported(t *testing.T) {
	b := &Backend{}
	if _, err := b.Source(input.KindMouse); !errors.Is(err, backend.ErrUnsupported) {
		t.Errorf("Source(mouse) = %v, want ErrUnsupported", err)
	}
}
