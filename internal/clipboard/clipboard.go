// Package clipboard copies text to the system clipboard and pastes it into
// the focused application.
package clipboard

import (
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"time"

	atclip "github.com/atotto/clipboard"

	"github.com/Danondso/keychord/internal/input"
	"github.com/Danondso/keychord/internal/keyboard"
)

// clearDelay is how long pasted text stays on the clipboard before it is
// cleared again.
const clearDelay = 100 * time.Millisecond

// Copy puts text on the system clipboard.
func Copy(text string) error {
	if err := atclip.WriteAll(text); err != nil {
		return fmt.Errorf("write to clipboard: %w", err)
	}
	return nil
}

// Paster inserts text into the focused application. It sends the paste
// shortcut and types text through a keyboard controller when one is
// available and falls back to platform tools (xdotool, ydotool, osascript)
// otherwise.
type Paster struct {
	kb     *keyboard.Controller
	delay  time.Duration
	logger *log.Logger

	write func(string) error
	run   func(ctx context.Context, name string, args ...string) error
}

// New creates a Paster. kb may be nil when the backend cannot synthesize
// key events. delay is waited before each paste so the hotkey's own keys
// are released first.
func New(kb *keyboard.Controller, delay time.Duration, logger *log.Logger) *Paster {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Paster{kb: kb, delay: delay, logger: logger, write: atclip.WriteAll, run: runTool}
}

// Paste puts text on the clipboard, sends the paste shortcut and clears the
// clipboard again (best-effort).
func (p *Paster) Paste(ctx context.Context, text string) error {
	if err := p.wait(ctx); err != nil {
		return err
	}
	if err := p.write(text); err != nil {
		return fmt.Errorf("write to clipboard: %w", err)
	}
	if err := p.shortcut(ctx); err != nil {
		return err
	}

	// Clearing is a courtesy; failure should not fail a successful paste.
	time.Sleep(clearDelay)
	if err := p.write(""); err != nil {
		p.logger.Printf("action: clear clipboard: %v", err)
	}
	return nil
}

// PasteClipboard sends the paste shortcut for whatever the clipboard holds.
func (p *Paster) PasteClipboard(ctx context.Context) error {
	if err := p.wait(ctx); err != nil {
		return err
	}
	return p.shortcut(ctx)
}

// Type types text key by key.
func (p *Paster) Type(ctx context.Context, text string) error {
	if err := p.wait(ctx); err != nil {
		return err
	}
	if p.kb != nil {
		return p.kb.Type(text)
	}
	return typeExternal(ctx, p.run, text)
}

func (p *Paster) wait(ctx context.Context) error {
	if p.delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.delay):
		return nil
	}
}

func (p *Paster) shortcut(ctx context.Context) error {
	if p.kb != nil {
		err := p.kb.Pressed([]input.Key{input.Named(pasteModifier)}, func() error {
			return p.kb.Tap(input.Char('v'))
		})
		if err != nil {
			return fmt.Errorf("send paste shortcut: %w", err)
		}
		return nil
	}
	return pasteExternal(ctx, p.run)
}

func runTool(ctx context.Context, name string, args ...string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%s not found: %w%s", name, err, installHint(name))
	}
	if err := exec.CommandContext(ctx, name, args...).Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
