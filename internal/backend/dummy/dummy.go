// Package dummy is an in-memory backend. Events injected through its
// emitter are delivered to every listener running on the same Backend,
// which makes it the backend of choice for tests.
package dummy

import (
	"context"
	"sync"

	"github.com/Danondso/keychord/internal/backend"
	"github.com/Danondso/keychord/internal/input"
	"github.com/Danondso/keychord/internal/listener"
)

// Name is the registry name of this backend.
const Name = "dummy"

// Default is the instance handed out by the backend registry.
var Default = New()

func init() {
	backend.Register(Name, func(backend.Options) (backend.Backend, error) {
		return Default, nil
	})
}

// Option configures a Backend.
type Option func(*Backend)

// WithStartError makes every source fail to start with err, the way a real
// backend fails without input permissions.
func WithStartError(err error) Option {
	return func(b *Backend) { b.startErr = err }
}

// Backend is an in-memory input system.
type Backend struct {
	startErr error

	mu         sync.Mutex
	subs       map[*subscriber]struct{}
	x, y       int
	emitted    []input.Event
	suppressed []input.Event
}

// New creates an empty in-memory backend.
func New(opts ...Option) *Backend {
	b := &Backend{subs: make(map[*subscriber]struct{})}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name implements backend.Backend.
func (b *Backend) Name() string { return Name }

// Source implements backend.Backend.
func (b *Backend) Source(input.Kind) (listener.Source, error) {
	return &source{b: b}, nil
}

// Emitter implements backend.Backend. The backend is its own emitter.
func (b *Backend) Emitter() (backend.Emitter, error) {
	return b, nil
}

// Emit delivers ev to every running listener whose kinds include it.
// Move events also update the pointer position.
func (b *Backend) Emit(ev input.Event) error {
	b.mu.Lock()
	if m, ok := ev.(input.Move); ok {
		b.x, b.y = m.X, m.Y
	}
	b.emitted = append(b.emitted, ev)
	subs := make([]*subscriber, 0, len(b.subs))
	for s := range b.subs {
		if ev.Kind()&s.kinds != 0 {
			subs = append(subs, s)
		}
	}
	b.mu.Unlock()

	for _, s := range subs {
		s.push(ev)
	}
	return nil
}

// Position implements backend.Emitter.
func (b *Backend) Position() (int, int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.x, b.y, nil
}

// Close implements backend.Emitter.
func (b *Backend) Close() error { return nil }

// Emitted returns every event injected so far.
func (b *Backend) Emitted() []input.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]input.Event(nil), b.emitted...)
}

// Suppressed returns the events a listener withheld from the system.
func (b *Backend) Suppressed() []input.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]input.Event(nil), b.suppressed...)
}

// Listeners reports how many sources are currently running.
func (b *Backend) Listeners() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Backend) subscribe(s *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[s] = struct{}{}
}

func (b *Backend) unsubscribe(s *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, s)
}

func (b *Backend) recordSuppressed(ev input.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.suppressed = append(b.suppressed, ev)
}

// subscriber is an unbounded queue so that a callback may emit events
// without blocking on its own listener.
type subscriber struct {
	kinds  input.Kind
	mu     sync.Mutex
	queue  []input.Event
	signal chan struct{}
}

func (s *subscriber) push(ev input.Event) {
	s.mu.Lock()
	s.queue = append(s.queue, ev)
	s.mu.Unlock()
	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *subscriber) drain() []input.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.queue
	s.queue = nil
	return q
}

type source struct {
	b *Backend
}

func (s *source) Run(ctx context.Context, opts listener.SourceOptions, ready func(), emit listener.Emit) error {
	if s.b.startErr != nil {
		return s.b.startErr
	}

	sub := &subscriber{kinds: opts.Kinds, signal: make(chan struct{}, 1)}
	s.b.subscribe(sub)
	defer s.b.unsubscribe(sub)
	ready()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sub.signal:
			for _, ev := range sub.drain() {
				if ctx.Err() != nil {
					return nil
				}
				if emit(ev) == listener.Suppress {
					s.b.recordSuppressed(ev)
				}
			}
		}
	}
}
