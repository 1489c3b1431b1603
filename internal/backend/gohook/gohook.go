//go:build darwin || windows || (linux && xorg)

// Package gohook listens through the libuiohook global hook, which covers
// macOS, Windows and X11. It cannot withhold events or synthesize them.
package gohook

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"

	hook "github.com/robotn/gohook"

	"github.com/Danondso/keychord/internal/backend"
	"github.com/Danondso/keychord/internal/input"
	"github.com/Danondso/keychord/internal/listener"
)

// subscriberBuffer is how many hook events a slow listener may lag behind
// before events are dropped. The hook thread never blocks on a listener.
const subscriberBuffer = 256

// Name returns the registry name this backend uses on the current platform.
func Name() string {
	switch runtime.GOOS {
	case "darwin":
		return "darwin"
	case "windows":
		return "win32"
	}
	return "xorg"
}

func init() {
	backend.Register(Name(), Open)
}

// Backend shares one process-wide hook between all of its listeners.
type Backend struct {
	logger *log.Logger
}

// Open creates the backend. The hook starts with the first listener.
func Open(opts backend.Options) (backend.Backend, error) {
	return &Backend{logger: opts.Log()}, nil
}

// Name implements backend.Backend.
func (b *Backend) Name() string { return Name() }

// Source implements backend.Backend.
func (b *Backend) Source(input.Kind) (listener.Source, error) {
	return &source{logger: b.logger}, nil
}

// Emitter implements backend.Backend.
func (b *Backend) Emitter() (backend.Emitter, error) {
	return nil, fmt.Errorf("%s synthesis: %w", Name(), backend.ErrUnsupported)
}

// hub fans the single gohook event channel out to every running source.
type hub struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
	stop chan struct{}
}

type subscriber struct {
	ch   chan hook.Event
	quit chan struct{}
}

var shared = &hub{subs: make(map[*subscriber]struct{})}

func (h *hub) subscribe(logger *log.Logger) *subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &subscriber{ch: make(chan hook.Event, subscriberBuffer), quit: make(chan struct{})}
	if len(h.subs) == 0 {
		h.stop = make(chan struct{})
		go h.pump(hook.Start(), h.stop, logger)
		logger.Printf("backend: gohook started")
	}
	h.subs[sub] = struct{}{}
	return sub
}

// unsubscribe must be called after sub.quit is closed so a blocked
// release delivery gives up before the hub lock is needed.
func (h *hub) unsubscribe(sub *subscriber, logger *log.Logger) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.subs, sub)
	if len(h.subs) == 0 && h.stop != nil {
		close(h.stop)
		h.stop = nil
		hook.End()
		logger.Printf("backend: gohook stopped")
	}
}

// isRelease reports whether ev ends a press. Releases are never dropped: a
// lost release would leave the key held in every hotkey state.
func isRelease(ev hook.Event) bool {
	return ev.Kind == hook.KeyUp || ev.Kind == hook.MouseDown
}

// deliver hands ev to sub. Releases wait for room; other events are
// dropped when the subscriber lags.
func deliver(sub *subscriber, ev hook.Event, stop <-chan struct{}) bool {
	if isRelease(ev) {
		select {
		case sub.ch <- ev:
		case <-sub.quit:
		case <-stop:
		}
		return true
	}
	select {
	case sub.ch <- ev:
		return true
	default:
		return false
	}
}

func (h *hub) pump(events chan hook.Event, stop <-chan struct{}, logger *log.Logger) {
	for {
		select {
		case <-stop:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			h.mu.Lock()
			for sub := range h.subs {
				if !deliver(sub, ev, stop) {
					logger.Printf("backend: gohook listener lagging, dropped %v", ev.Kind)
				}
			}
			h.mu.Unlock()
		}
	}
}

type source struct {
	logger *log.Logger
}

// Run implements listener.Source.
func (s *source) Run(ctx context.Context, opts listener.SourceOptions, ready func(), emit listener.Emit) error {
	if opts.Suppress {
		return listener.ErrSuppressUnsupported
	}
	if opts.Intercept {
		s.logger.Printf("backend: gohook cannot withhold events, filter verdicts are ignored")
	}

	sub := shared.subscribe(s.logger)
	defer shared.unsubscribe(sub, s.logger)
	defer close(sub.quit)
	ready()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-sub.ch:
			if e, ok := translate(ev); ok && e.Kind()&opts.Kinds != 0 {
				emit(e)
			}
		}
	}
}
