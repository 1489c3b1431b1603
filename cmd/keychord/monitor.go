package main

import (
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Danondso/keychord/internal/backend"
	"github.com/Danondso/keychord/internal/config"
	"github.com/Danondso/keychord/internal/input"
	"github.com/Danondso/keychord/internal/keyboard"
	"github.com/Danondso/keychord/internal/listener"
	"github.com/Danondso/keychord/internal/mouse"
	"github.com/Danondso/keychord/internal/tui"
)

const droppedInterval = time.Second

// stream is one running event queue feeding the monitor.
type stream struct {
	name   string
	events *listener.Events
}

func runMonitor(o options, dbg *log.Logger) error {
	cfg, err := config.Load(o.config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", o.config, err)
	}

	bopts := backend.Options{
		KeyboardDevice: cfg.Backend.KeyboardDevice,
		MouseDevice:    cfg.Backend.MouseDevice,
		Logger:         dbg,
	}

	kbName := backend.Select(firstNonEmpty(o.backend, cfg.Backend.Keyboard), input.KindKeyboard, nil)
	kb, err := backend.Open(kbName, bopts)
	if err != nil {
		return err
	}
	src, err := kb.Source(input.KindKeyboard)
	if err != nil {
		return fmt.Errorf("keyboard source: %w", err)
	}
	streams := []stream{{
		name:   kbName,
		events: keyboard.NewEvents(src, listener.WithLogger(dbg), listener.WithName("monitor-keyboard")),
	}}

	if cfg.Monitor.Mouse {
		mb, err := backend.Resolve(firstNonEmpty(o.backend, cfg.Backend.Mouse), input.KindMouse, bopts)
		if err != nil {
			return err
		}
		msrc, err := mb.Source(input.KindMouse)
		if err != nil {
			return fmt.Errorf("mouse source: %w", err)
		}
		streams = append(streams, stream{
			name:   mb.Name(),
			events: mouse.NewEvents(msrc, listener.WithLogger(dbg), listener.WithName("monitor-mouse")),
		})
	}

	tui.RegisterCustomThemes(cfg.CustomThemes)
	model, err := tui.NewModel(cfg, kbName, dbg, o.debug)
	if err != nil {
		return fmt.Errorf("create monitor: %w", err)
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	if o.debug {
		dbg.SetOutput(tui.NewLogWriter(p))
	}

	for _, s := range streams {
		if err := s.events.Start(); err != nil {
			closeStreams(streams, dbg)
			if hint := backend.Hint(s.name); hint != "" {
				return fmt.Errorf("start %s listener: %w (%s)", s.name, err, hint)
			}
			return fmt.Errorf("start %s listener: %w", s.name, err)
		}
	}
	defer closeStreams(streams, dbg)

	for _, s := range streams {
		go pump(p, s.events)
	}

	quit := make(chan struct{})
	defer close(quit)
	go func() {
		ticker := time.NewTicker(droppedInterval)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				var total uint64
				for _, s := range streams {
					total += s.events.Dropped()
				}
				p.Send(tui.DroppedMsg{Total: total})
			}
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	return nil
}

// pump forwards queued events to the program until the queue ends.
func pump(p *tea.Program, events *listener.Events) {
	for ev := range events.All() {
		p.Send(tui.InputMsg{Event: ev, Time: time.Now()})
	}
	p.Send(tui.StoppedMsg{Err: events.Close()})
}

func closeStreams(streams []stream, dbg *log.Logger) {
	for _, s := range streams {
		if err := s.events.Close(); err != nil {
			dbg.Printf("monitor: %s listener: %v", s.name, err)
		}
	}
}
