package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Danondso/keychord/internal/action"
	"github.com/Danondso/keychord/internal/backend"
	"github.com/Danondso/keychord/internal/chime"
	"github.com/Danondso/keychord/internal/clipboard"
	"github.com/Danondso/keychord/internal/config"
	"github.com/Danondso/keychord/internal/hotkey"
	"github.com/Danondso/keychord/internal/input"
	"github.com/Danondso/keychord/internal/keyboard"
	"github.com/Danondso/keychord/internal/listener"
)

// pasteDelay lets the hotkey's own keys come up before text is pasted.
const pasteDelay = 50 * time.Millisecond

// daemon owns the running GlobalHotKeys and rebuilds them when the config
// changes. Listeners cannot be restarted, so a reload always creates a new
// instance.
type daemon struct {
	kb     backend.Backend
	deps   action.Deps
	chime  *chime.Player
	runner *action.Runner
	dbg    *log.Logger
	ctx    context.Context

	// reload serializes apply and lets wait observe a finished swap.
	reload sync.Mutex

	mu      sync.Mutex
	current *hotkey.GlobalHotKeys
	cfg     *config.Config
	fatal   error
}

func runDaemon(o options, dbg *log.Logger) error {
	cfg, err := config.Load(o.config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", o.config, err)
	}
	if len(cfg.Hotkeys) == 0 {
		return fmt.Errorf("no hotkeys configured in %s (run 'keychord init' for an example)", o.config)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	name := backend.Select(firstNonEmpty(o.backend, cfg.Backend.Keyboard), input.KindKeyboard, os.Getenv)
	kb, err := backend.Open(name, backend.Options{
		KeyboardDevice: cfg.Backend.KeyboardDevice,
		MouseDevice:    cfg.Backend.MouseDevice,
		Logger:         dbg,
	})
	if err != nil {
		return err
	}

	var ctrl *keyboard.Controller
	if em, err := kb.Emitter(); err != nil {
		dbg.Printf("backend: %s cannot send keys (%v), paste and type use external tools", name, err)
	} else {
		defer em.Close()
		ctrl = keyboard.NewController(em)
	}

	player, err := chime.New(cfg.Audio.ChimePath, cfg.Audio.ChimeEnabled, dbg)
	if err != nil {
		return fmt.Errorf("create chime player: %w", err)
	}

	d := &daemon{
		kb:    kb,
		chime: player,
		dbg:   dbg,
		ctx:   ctx,
		deps: action.Deps{
			Paster:   clipboard.New(ctrl, pasteDelay, dbg),
			Chime:    player,
			Notifier: &action.DBusNotifier{},
			Logger:   dbg,
		},
	}
	d.runner = action.NewRunner(dbg, func(combo string, err error) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "keychord: %s: %v\n", combo, err)
			d.chime.PlayError()
		}
	})
	defer d.runner.Wait()

	if err := d.apply(cfg); err != nil {
		if hint := backend.Hint(name); hint != "" {
			return fmt.Errorf("%w (%s)", err, hint)
		}
		return err
	}
	fmt.Fprintf(os.Stderr, "keychord: listening for %d hotkeys with the %s backend\n", len(cfg.Hotkeys), name)

	go func() {
		err := config.Watch(ctx, o.config, func(next *config.Config, err error) {
			if err != nil {
				fmt.Fprintf(os.Stderr, "keychord: %v (keeping previous hotkeys)\n", err)
				return
			}
			if err := d.apply(next); err != nil {
				fmt.Fprintf(os.Stderr, "keychord: reload: %v (keeping previous hotkeys)\n", err)
				return
			}
			dbg.Printf("config: reloaded %d hotkeys", len(next.Hotkeys))
		})
		if err != nil {
			dbg.Printf("config: watch disabled: %v", err)
		}
	}()

	return d.wait()
}

// build creates an idle GlobalHotKeys for cfg.
func (d *daemon) build(cfg *config.Config) (*hotkey.GlobalHotKeys, error) {
	bindings := make(map[string]func(), len(cfg.Hotkeys))
	for _, h := range cfg.Hotkeys {
		fn, err := action.Build(h, d.deps)
		if err != nil {
			return nil, err
		}
		combo, chimeAction := h.Combo, h.Action == config.ActionChime
		bindings[combo] = func() {
			d.dbg.Printf("hotkey: %s activated", combo)
			if !chimeAction {
				d.chime.PlayActivate()
			}
			d.runner.Go(d.ctx, combo, fn)
		}
	}

	src, err := d.kb.Source(input.KindKeyboard)
	if err != nil {
		return nil, fmt.Errorf("keyboard source: %w", err)
	}
	return hotkey.NewGlobalHotKeys(src, bindings, hotkey.WithListenerOptions(
		listener.WithLogger(d.dbg),
		listener.WithSuppress(cfg.Backend.Suppress),
	))
}

// apply starts hotkeys for cfg and then retires the previous instance.
// If the new set fails to start, the previous config is started again.
func (d *daemon) apply(cfg *config.Config) error {
	d.reload.Lock()
	defer d.reload.Unlock()
	if err := d.ctx.Err(); err != nil {
		return err
	}

	prevCfg := d.config()
	if prevCfg != nil && prevCfg.Backend != cfg.Backend {
		fmt.Fprintln(os.Stderr, "keychord: [backend] changes take effect after a restart")
	}

	next, err := d.build(cfg)
	if err != nil {
		return err
	}

	// Some backends register chords exclusively, so the old set must be
	// released before the new one starts.
	if prev := d.hotkeys(); prev != nil {
		prev.Stop()
		if err := prev.Join(); err != nil {
			d.dbg.Printf("hotkey: previous listener ended with: %v", err)
		}
	}

	if err := next.Start(); err != nil {
		err = fmt.Errorf("start hotkeys: %w", err)
		if prevCfg == nil {
			return err
		}
		restored, rerr := d.build(prevCfg)
		if rerr == nil {
			rerr = restored.Start()
		}
		if rerr != nil {
			d.setFatal(fmt.Errorf("%w (restoring previous hotkeys: %v)", err, rerr))
			return err
		}
		d.set(restored, prevCfg)
		return err
	}

	d.set(next, cfg)
	return nil
}

func (d *daemon) set(g *hotkey.GlobalHotKeys, cfg *config.Config) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = g
	d.cfg = cfg
}

func (d *daemon) setFatal(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fatal = err
}

func (d *daemon) hotkeys() *hotkey.GlobalHotKeys {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

func (d *daemon) config() *config.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// wait blocks until a signal arrives or the running listener fails.
func (d *daemon) wait() error {
	for {
		cur := d.hotkeys()
		done := make(chan error, 1)
		go func() { done <- cur.Join() }()

		select {
		case <-d.ctx.Done():
			d.reload.Lock()
			defer d.reload.Unlock()
			var err error
			if last := d.hotkeys(); last == cur {
				// The Join goroutine owns the captured error.
				cur.Stop()
				err = <-done
			} else {
				last.Stop()
				err = last.Join()
			}
			if err != nil {
				d.dbg.Printf("hotkey: listener stopped with: %v", err)
			}
			fmt.Fprintln(os.Stderr, "keychord: stopped")
			return nil
		case err := <-done:
			// A reload may be swapping listeners right now.
			d.reload.Lock()
			replaced := d.hotkeys() != cur
			d.mu.Lock()
			fatal := d.fatal
			d.mu.Unlock()
			d.reload.Unlock()

			if fatal != nil {
				return fatal
			}
			if replaced {
				continue
			}
			if err != nil {
				return fmt.Errorf("hotkey listener: %w", err)
			}
			return nil
		}
	}
}
