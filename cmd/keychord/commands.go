package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/Danondso/keychord/internal/backend"
	"github.com/Danondso/keychord/internal/config"
	"github.com/Danondso/keychord/internal/hotkey"
	"github.com/Danondso/keychord/internal/input"
)

var errParse = errors.New("some hotkeys did not parse")

// runParse prints the canonical form of each hotkey string.
func runParse(combos []string, w io.Writer) error {
	if len(combos) == 0 {
		return errors.New("usage: keychord parse HOTKEY [HOTKEY ...]")
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	failed := false
	for _, combo := range combos {
		keys, err := hotkey.Parse(combo)
		if err != nil {
			failed = true
			fmt.Fprintf(tw, "%s\terror: %v\n", combo, err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", combo, hotkey.Format(keys))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if failed {
		return errParse
	}
	return nil
}

// runBackends lists the compiled-in backends and which ones the current
// flags, config and environment select.
func runBackends(o options, w io.Writer, getenv func(string) string) error {
	cfg, err := config.Load(o.config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Fprintln(w, "available:")
	for _, name := range backend.Names() {
		fmt.Fprintf(w, "  %s\n", name)
	}

	fmt.Fprintln(w, "selected:")
	for _, sel := range []struct {
		label    string
		kind     input.Kind
		explicit string
	}{
		{"keyboard", input.KindKeyboard, firstNonEmpty(o.backend, cfg.Backend.Keyboard)},
		{"mouse", input.KindMouse, firstNonEmpty(o.backend, cfg.Backend.Mouse)},
	} {
		name := backend.Select(sel.explicit, sel.kind, getenv)
		fmt.Fprintf(w, "  %-9s %s\n", sel.label+":", name)
		if hint := backend.Hint(name); hint != "" {
			fmt.Fprintf(w, "            (%s)\n", hint)
		}
	}
	return nil
}

// runInit writes the example config unless a file already exists.
func runInit(path string, w io.Writer) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(w, "config already exists at %s\n", path)
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := config.Save(path, config.Example()); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Fprintf(w, "wrote example config to %s\n", path)
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
