package clipboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Danondso/keychord/internal/input"
	"github.com/Danondso/keychord/internal/keyboard"
)

type recorder struct {
	events []string
}

func (r *recorder) Emit(ev input.Event) error {
	r.events = append(r.events, ev.String())
	return nil
}

type fakeClipboard struct {
	writes []string
	err    error
}

func (f *fakeClipboard) write(s string) error {
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, s)
	return nil
}

func newTestPaster(kb *keyboard.Controller, clip *fakeClipboard, runs *[][]string) *Paster {
	p := New(kb, 0, nil)
	p.write = clip.write
	p.run = func(_ context.Context, name string, args ...string) error {
		*runs = append(*runs, append([]string{name}, args...))
		return nil
	}
	return p
}

func TestPasteWithController(t *testing.T) {
	rec := &recorder{}
	clip := &fakeClipboard{}
	var runs [][]string
	p := newTestPaster(keyboard.NewController(rec), clip, &runs)

	if err := p.Paste(context.Background(), "hello"); err != nil {
		t.Fatalf("Paste: %v", err)
	}

	if len(clip.writes) != 2 || clip.writes[0] != "hello" || clip.writes[1] != "" {
		t.Errorf("clipboard writes = %q, want [hello, \"\"]", clip.writes)
	}
	mod := input.Named(pasteModifier).String()
	want := []string{"press " + mod, "press v", "release v", "release " + mod}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, rec.events[i], want[i])
		}
	}
	if len(runs) != 0 {
		t.Errorf("expected no external tools, ran %v", runs)
	}
}

func TestPasteClipboardWriteError(t *testing.T) {
	clip := &fakeClipboard{err: errors.New("no clipboard")}
	var runs [][]string
	p := newTestPaster(keyboard.NewController(&recorder{}), clip, &runs)

	if err := p.Paste(context.Background(), "x"); err == nil {
		t.Error("expected error when the clipboard cannot be written")
	}
}

func TestPasteClipboardOnlySendsShortcut(t *testing.T) {
	rec := &recorder{}
	clip := &fakeClipboard{}
	var runs [][]string
	p := newTestPaster(keyboard.NewController(rec), clip, &runs)

	if err := p.PasteClipboard(context.Background()); err != nil {
		t.Fatalf("PasteClipboard: %v", err)
	}
	if len(clip.writes) != 0 {
		t.Errorf("clipboard should be untouched, got writes %q", clip.writes)
	}
	if len(rec.events) != 4 {
		t.Errorf("events = %v, want the paste shortcut", rec.events)
	}
}

func TestTypeWithController(t *testing.T) {
	rec := &recorder{}
	var runs [][]string
	p := newTestPaster(keyboard.NewController(rec), &fakeClipboard{}, &runs)

	if err := p.Type(context.Background(), "ok"); err != nil {
		t.Fatalf("Type: %v", err)
	}
	want := []string{"press o", "release o", "press k", "release k"}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
}

func TestDelayHonorsContext(t *testing.T) {
	p := New(keyboard.NewController(&recorder{}), time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Type(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("Type = %v, want context.Canceled", err)
	}
}
