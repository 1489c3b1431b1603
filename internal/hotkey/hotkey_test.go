package hotkey

import (
	"errors"
	"testing"

	"github.com/Danondso/keychord/internal/input"
)

var (
	ctrl  = input.Named(input.Ctrl)
	alt   = input.Named(input.Alt)
	shift = input.Named(input.Shift)
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []input.Key
	}{
		{"single char", "a", []input.Key{input.Char('a')}},
		{"upper char folds", "A", []input.Key{input.Char('a')}},
		{"ctrl a", "<ctrl>+a", []input.Key{ctrl, input.Char('a')}},
		{"three keys", "<ctrl>+<alt>+h", []input.Key{ctrl, alt, input.Char('h')}},
		{"name case insensitive", "<CTRL>+<Shift>+x", []input.Key{ctrl, shift, input.Char('x')}},
		{"sided modifier folds", "<ctrl_l>+a", []input.Key{ctrl, input.Char('a')}},
		{"alt gr stays", "<alt_gr>+e", []input.Key{input.Named(input.AltGr), input.Char('e')}},
		{"plus key", "<ctrl>++", []input.Key{ctrl, input.Char('+')}},
		{"plus alone", "+", []input.Key{input.Char('+')}},
		{"plus first", "++a", []input.Key{input.Char('+'), input.Char('a')}},
		{"virtual code", "<ctrl>+<65>", []input.Key{ctrl, input.VK(65)}},
		{"special key", "<cmd>+<page_down>", []input.Key{input.Named(input.Cmd), input.Named(input.PageDown)}},
		{"function key", "<f12>", []input.Key{input.Named(input.F12)}},
		{"unicode char", "<alt>+é", []input.Key{alt, input.Char('é')}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Parse(%q)[%d] = %#v, want %#v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"bare word", "invalid"},
		{"trailing separator", "a+"},
		{"unknown special", "<ctrl>+<halt>"},
		{"duplicate", "<ctrl>+a+a"},
		{"duplicate after folding", "<ctrl>+a+A"},
		{"duplicate modifier variants", "<ctrl_l>+<ctrl_r>"},
		{"empty brackets", "<>+a"},
		{"unclosed bracket", "<ctrl+a"},
		{"zero code", "<0>"},
		{"negative code", "<-1>"},
		{"multi char", "<ctrl>+ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) = %v, want error", tt.input, keys)
			}
			if !errors.Is(err, ErrInvalidHotKey) {
				t.Errorf("Parse(%q) error %v does not wrap ErrInvalidHotKey", tt.input, err)
			}
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	for _, s := range []string{"<ctrl>+<alt>+h", "<ctrl>++", "a", "<cmd>+<65>", "<shift>+<f5>"} {
		keys := MustParse(s)
		if got := Format(keys); got != s {
			t.Errorf("Format(Parse(%q)) = %q", s, got)
		}
	}
}

func TestHotKeyActivatesOnce(t *testing.T) {
	count := 0
	h := New([]input.Key{ctrl, input.Char('a')}, func() { count++ })

	h.Press(ctrl)
	if count != 0 {
		t.Fatal("activated with partial combination")
	}
	h.Press(input.Char('a'))
	if count != 1 {
		t.Fatalf("count = %d after full combination, want 1", count)
	}

	// Auto-repeat and unrelated keys do not re-fire.
	h.Press(input.Char('a'))
	h.Press(ctrl)
	h.Press(input.Char('b'))
	if count != 1 {
		t.Errorf("count = %d after repeats, want 1", count)
	}

	// Releasing one key re-arms.
	h.Release(input.Char('a'))
	h.Press(input.Char('a'))
	if count != 2 {
		t.Errorf("count = %d after re-press, want 2", count)
	}
}

func TestHotKeyOrderIndependent(t *testing.T) {
	count := 0
	h := New(MustParse("<ctrl>+<shift>+x"), func() { count++ })

	h.Press(input.Char('x'))
	h.Press(shift)
	h.Press(ctrl)
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestHotKeyReleaseUnknownKey(t *testing.T) {
	count := 0
	h := New([]input.Key{input.Char('q')}, func() { count++ })
	h.Release(input.Char('z'))
	h.Release(input.Char('q'))
	h.Press(input.Char('q'))
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestHotKeyStateUpdatedBeforeActivation(t *testing.T) {
	var h *HotKey
	var pressed []input.Key
	h = New([]input.Key{ctrl, input.Char('s')}, func() {
		pressed = h.Pressed()
	})
	h.Press(ctrl)
	h.Press(input.Char('s'))
	if len(pressed) != 2 {
		t.Errorf("Pressed() inside callback = %v, want both keys", pressed)
	}
}

func TestHotKeyEmptyNeverActivates(t *testing.T) {
	count := 0
	h := New(nil, func() { count++ })
	h.Press(input.Char('a'))
	if count != 0 {
		t.Errorf("empty hotkey activated %d times", count)
	}
}

func TestHotKeyNoCanonicalization(t *testing.T) {
	count := 0
	h := New([]input.Key{ctrl}, func() { count++ })
	h.Press(input.Named(input.CtrlL))
	if count != 0 {
		t.Error("expected raw sided key not to match without canonicalization")
	}
	h.Press(input.Canonical(input.Named(input.CtrlL)))
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestHotKeyString(t *testing.T) {
	h := New(MustParse("<ctrl>+<alt>+<delete>"), nil)
	if got := h.String(); got != "<ctrl>+<alt>+<delete>" {
		t.Errorf("String() = %q", got)
	}
	if got := len(h.Keys()); got != 3 {
		t.Errorf("len(Keys()) = %d, want 3", got)
	}
}
