// Package action turns [[hotkey]] config entries into runnable actions and
// runs them off the listener goroutine.
package action

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/Danondso/keychord/internal/chime"
	"github.com/Danondso/keychord/internal/clipboard"
	"github.com/Danondso/keychord/internal/config"
)

// ErrUnavailable is returned by Build when the action needs a facility the
// daemon could not set up, such as key synthesis for paste.
var ErrUnavailable = errors.New("action unavailable")

// Func performs one activation.
type Func func(ctx context.Context) error

// Notifier shows a desktop notification.
type Notifier interface {
	Notify(ctx context.Context, summary, body string) error
}

// Deps are the facilities actions are built from. Nil fields make the
// actions that need them unavailable.
type Deps struct {
	Paster   *clipboard.Paster
	Chime    *chime.Player
	Notifier Notifier
	// Copy writes the system clipboard. Defaults to clipboard.Copy.
	Copy func(string) error
	// Output receives "log" action lines. Defaults to stderr.
	Output io.Writer
	Logger *log.Logger
}

func (d Deps) logger() *log.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return log.New(io.Discard, "", 0)
}

// Build returns the action for h.
func Build(h config.HotkeyConfig, d Deps) (Func, error) {
	switch h.Action {
	case config.ActionExec:
		if len(h.Command) == 0 {
			return nil, fmt.Errorf("hotkey %s: exec needs a command", h.Combo)
		}
		return execCommand(h, d.logger()), nil

	case config.ActionClipboard:
		copyText := d.Copy
		if copyText == nil {
			copyText = clipboard.Copy
		}
		return func(context.Context) error { return copyText(h.Text) }, nil

	case config.ActionPaste:
		if d.Paster == nil {
			return nil, fmt.Errorf("hotkey %s: paste: %w", h.Combo, ErrUnavailable)
		}
		if h.Text == "" {
			return d.Paster.PasteClipboard, nil
		}
		return func(ctx context.Context) error { return d.Paster.Paste(ctx, h.Text) }, nil

	case config.ActionType:
		if d.Paster == nil {
			return nil, fmt.Errorf("hotkey %s: type: %w", h.Combo, ErrUnavailable)
		}
		return func(ctx context.Context) error { return d.Paster.Type(ctx, h.Text) }, nil

	case config.ActionChime:
		if d.Chime == nil {
			return nil, fmt.Errorf("hotkey %s: chime: %w", h.Combo, ErrUnavailable)
		}
		return func(context.Context) error {
			d.Chime.PlayActivate()
			return nil
		}, nil

	case config.ActionNotify:
		if d.Notifier == nil {
			return nil, fmt.Errorf("hotkey %s: notify: %w", h.Combo, ErrUnavailable)
		}
		body := h.Text
		if body == "" {
			body = h.Combo + " pressed"
		}
		return func(ctx context.Context) error { return d.Notifier.Notify(ctx, "keychord", body) }, nil

	case config.ActionLog:
		out := d.Output
		if out == nil {
			out = os.Stderr
		}
		line := h.Combo + " activated"
		if h.Text != "" {
			line += ": " + h.Text
		}
		return func(context.Context) error {
			_, err := fmt.Fprintln(out, line)
			return err
		}, nil
	}
	return nil, fmt.Errorf("hotkey %s: unknown action %q", h.Combo, h.Action)
}

func execCommand(h config.HotkeyConfig, logger *log.Logger) Func {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, h.Timeout())
		defer cancel()

		cmd := exec.CommandContext(ctx, h.Command[0], h.Command[1:]...)
		cmd.Env = append(os.Environ(), "KEYCHORD_COMBO="+h.Combo)
		if h.Text != "" {
			cmd.Stdin = strings.NewReader(h.Text)
		}
		out, err := cmd.CombinedOutput()
		if out = bytes.TrimSpace(out); len(out) > 0 {
			logger.Printf("action: %s output: %s", h.Combo, out)
		}
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("exec %s: timed out after %v", h.Command[0], h.Timeout())
		}
		if err != nil {
			return fmt.Errorf("exec %s: %w", h.Command[0], err)
		}
		return nil
	}
}
