// Package listener runs a backend event source on its own goroutine and
// dispatches each event to a callback, with a start-once lifecycle.
package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/Danondso/keychord/internal/input"
)

var (
	// ErrStop may be returned from a callback to stop the listener without
	// reporting an error.
	ErrStop = errors.New("stop listener")

	// ErrAlreadyStarted is returned by Start on a running listener.
	ErrAlreadyStarted = errors.New("listener already started")

	// ErrStopped is returned by Start on a listener that has been stopped.
	// Listeners cannot be restarted; create a new one instead.
	ErrStopped = errors.New("listener stopped")

	// ErrNotStarted is returned by Join on a listener that was never started.
	ErrNotStarted = errors.New("listener not started")

	// ErrSuppressUnsupported is returned by sources that cannot withhold
	// events from the rest of the system.
	ErrSuppressUnsupported = errors.New("event suppression not supported by backend")
)

// State is the lifecycle position of a Listener.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Verdict tells a source whether an event should reach the rest of the system.
type Verdict uint8

const (
	Pass Verdict = iota
	Suppress
)

// Filter inspects every event before dispatch and decides whether the
// system still receives it. A filter may call Stop on its listener.
type Filter func(input.Event) Verdict

// Emit delivers one event from a source to its listener.
type Emit func(input.Event) Verdict

// SourceOptions describe what a listener needs from its source.
type SourceOptions struct {
	Kinds    input.Kind
	Suppress bool
	// Intercept is set when the listener has a Filter, so the source must
	// honor per-event verdicts.
	Intercept bool
}

// Source produces native input events. Run must call ready once events are
// being delivered, then call emit for each event from a single goroutine
// until ctx is done. An error returned before ready is a start failure.
type Source interface {
	Run(ctx context.Context, opts SourceOptions, ready func(), emit Emit) error
}

// Dispatcher routes one event to the user's callbacks.
type Dispatcher func(input.Event) error

// Option configures a Listener.
type Option func(*options)

type options struct {
	suppress bool
	filter   Filter
	logger   *log.Logger
	name     string
}

// WithSuppress withholds every event from the rest of the system while the
// listener runs.
func WithSuppress(suppress bool) Option {
	return func(o *options) { o.suppress = suppress }
}

// WithFilter installs a per-event interception filter.
func WithFilter(f Filter) Option {
	return func(o *options) { o.filter = f }
}

// WithLogger sets the debug logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithName labels the listener in log lines.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// Listener pumps events from a Source into a Dispatcher on a dedicated
// goroutine. Callbacks run one at a time in arrival order.
type Listener struct {
	src      Source
	kinds    input.Kind
	dispatch Dispatcher
	opts     options

	mu       sync.Mutex
	state    State
	cancel   context.CancelFunc
	done     chan struct{}
	ready    bool
	err      error
	reported bool
}

// New creates an idle listener for the given event kinds.
func New(src Source, kinds input.Kind, dispatch Dispatcher, opts ...Option) *Listener {
	o := options{logger: log.New(io.Discard, "", 0), name: kinds.String()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Listener{src: src, kinds: kinds, dispatch: dispatch, opts: o}
}

// Start launches the pump goroutine and waits until the source is
// delivering events. If the source fails before that, its error is returned
// here and not reported again by Join.
func (l *Listener) Start() error {
	l.mu.Lock()
	switch l.state {
	case StateRunning:
		l.mu.Unlock()
		return ErrAlreadyStarted
	case StateStopped:
		l.mu.Unlock()
		return ErrStopped
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.state = StateRunning
	l.cancel = cancel
	l.done = make(chan struct{})
	done := l.done
	l.mu.Unlock()

	readyCh := make(chan struct{})
	var once sync.Once
	ready := func() {
		once.Do(func() {
			l.mu.Lock()
			l.ready = true
			l.mu.Unlock()
			close(readyCh)
		})
	}

	go l.run(ctx, ready)

	select {
	case <-readyCh:
		l.opts.logger.Printf("listener %s: started", l.opts.name)
		return nil
	case <-done:
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.ready {
			return nil
		}
		return l.takeErrLocked()
	}
}

func (l *Listener) run(ctx context.Context, ready func()) {
	defer close(l.done)

	opts := SourceOptions{
		Kinds:     l.kinds,
		Suppress:  l.opts.suppress,
		Intercept: l.opts.filter != nil,
	}
	err := l.src.Run(ctx, opts, ready, l.emit)

	l.mu.Lock()
	if err != nil && !errors.Is(err, context.Canceled) && l.err == nil {
		if l.ready {
			err = fmt.Errorf("listener %s: %w", l.opts.name, err)
		}
		l.err = err
	}
	l.state = StateStopped
	l.cancel()
	l.mu.Unlock()

	l.opts.logger.Printf("listener %s: stopped", l.opts.name)
}

// emit is the Emit handed to the source. Each callback begins only after
// the pump has seen the listener running under l.mu, so no callback begins
// once the pump has observed a Stop.
func (l *Listener) emit(ev input.Event) Verdict {
	if !l.active() {
		return Pass
	}

	verdict := Pass
	if l.opts.suppress {
		verdict = Suppress
	} else if l.opts.filter != nil {
		err := l.guard(func() error {
			verdict = l.opts.filter(ev)
			return nil
		})
		if err != nil {
			l.fail(err)
			return Pass
		}
	}

	if ev.Kind()&l.kinds == 0 || !l.active() {
		return verdict
	}
	if err := l.guard(func() error { return l.dispatch(ev) }); err != nil {
		l.fail(err)
	}
	return verdict
}

func (l *Listener) active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state == StateRunning
}

// guard runs a callback and converts a panic into an error.
func (l *Listener) guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.opts.logger.Printf("listener %s: callback panic: %v\n%s", l.opts.name, r, debug.Stack())
			err = fmt.Errorf("listener %s: callback panic: %v", l.opts.name, r)
		}
	}()
	return fn()
}

func (l *Listener) fail(err error) {
	if errors.Is(err, ErrStop) {
		l.opts.logger.Printf("listener %s: stop requested by callback", l.opts.name)
		l.Stop()
		return
	}
	l.opts.logger.Printf("listener %s: callback error: %v", l.opts.name, err)
	l.mu.Lock()
	if l.err == nil {
		l.err = err
	}
	l.mu.Unlock()
	l.Stop()
}

// Stop asks the listener to stop. It returns without waiting and is safe to
// call repeatedly from any goroutine, including from inside a callback.
// No callback begins after the pump observes the stop; a callback the pump
// already entered runs to completion, so at most one callback may still
// start after Stop returns. Join waits for it.
func (l *Listener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.state {
	case StateIdle:
		l.state = StateStopped
	case StateRunning:
		l.state = StateStopped
		l.cancel()
	}
}

// Join waits for the pump goroutine to exit. The first call after a
// callback failure returns that error; later calls return nil. Join must not
// be called from inside a callback.
func (l *Listener) Join() error {
	return l.JoinContext(context.Background())
}

// JoinContext is Join bounded by ctx. Giving up on the wait does not stop
// the listener.
func (l *Listener) JoinContext(ctx context.Context) error {
	l.mu.Lock()
	done, state := l.done, l.state
	l.mu.Unlock()

	if done == nil {
		if state == StateStopped {
			return nil
		}
		return ErrNotStarted
	}

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.takeErrLocked()
}

// JoinTimeout is Join bounded by d.
func (l *Listener) JoinTimeout(d time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return l.JoinContext(ctx)
}

func (l *Listener) takeErrLocked() error {
	if l.reported {
		return nil
	}
	l.reported = true
	return l.err
}

// With starts the listener, runs fn, then stops and joins the listener no
// matter how fn returns. Errors from fn and from the listener are joined.
func (l *Listener) With(fn func() error) (err error) {
	if err := l.Start(); err != nil {
		return err
	}
	defer func() {
		l.Stop()
		err = errors.Join(err, l.Join())
	}()
	return fn()
}

// State returns the current lifecycle state.
func (l *Listener) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Running reports whether the listener is started and not yet stopped.
func (l *Listener) Running() bool {
	return l.State() == StateRunning
}

// Suppress reports whether every event is withheld from the system.
func (l *Listener) Suppress() bool {
	return l.opts.suppress
}
