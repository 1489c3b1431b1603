//go:build darwin

package clipboard

import (
	"context"
	"strings"
	"testing"
)

func TestEscapeAppleScript(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no escaping", "hello world", "hello world"},
		{"double quotes", `say "hello"`, `say \"hello\"`},
		{"backslash", `path\to\file`, `path\\to\\file`},
		{"both", `"hello\world"`, `\"hello\\world\"`},
		{"newline", "a\nb", `a\nb`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := escapeAppleScript(tt.input)
			if result != tt.expected {
				t.Errorf("escapeAppleScript(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestPasteExternalOsascript(t *testing.T) {
	var runs [][]string
	p := newTestPaster(nil, &fakeClipboard{}, &runs)

	if err := p.Type(context.Background(), `say "hi"`); err != nil {
		t.Fatalf("Type: %v", err)
	}
	if len(runs) != 1 || runs[0][0] != "osascript" || !strings.Contains(runs[0][2], `say \"hi\"`) {
		t.Errorf("ran %v, want escaped osascript keystroke", runs)
	}
}
