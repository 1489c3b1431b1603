package listener

import (
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Danondso/keychord/internal/input"
)

// DefaultQueueSize is the number of undelivered events an Events keeps
// before it starts dropping new ones.
const DefaultQueueSize = 1024

// Events turns a listener into a pull-style stream. Events arriving while
// the queue is full are dropped.
type Events struct {
	l  *Listener
	ch chan input.Event

	started  atomic.Bool
	dropped  atomic.Uint64
	done     chan struct{}
	endOnce  sync.Once
	takeOnce sync.Once
	err      error
}

// NewEvents creates an idle event stream for the given kinds. A size of
// zero or less uses DefaultQueueSize.
func NewEvents(src Source, kinds input.Kind, size int, opts ...Option) *Events {
	if size <= 0 {
		size = DefaultQueueSize
	}
	e := &Events{
		ch:   make(chan input.Event, size),
		done: make(chan struct{}),
	}
	e.l = New(src, kinds, e.push, opts...)
	return e
}

func (e *Events) push(ev input.Event) error {
	select {
	case e.ch <- ev:
	default:
		e.dropped.Add(1)
	}
	return nil
}

// Start starts the underlying listener. If the listener fails to start the
// stream ends immediately.
func (e *Events) Start() error {
	if e.started.Load() {
		return ErrAlreadyStarted
	}
	if err := e.l.Start(); err != nil {
		e.end(nil)
		return err
	}
	e.started.Store(true)
	go func() {
		e.end(e.l.Join())
	}()
	return nil
}

func (e *Events) end(err error) {
	e.endOnce.Do(func() {
		e.err = err
		close(e.ch)
		close(e.done)
	})
}

// Get waits up to timeout for the next event. It returns false if no event
// arrived in time or the stream has ended. A timeout of zero or less only
// checks for an already queued event.
func (e *Events) Get(timeout time.Duration) (input.Event, bool) {
	if timeout <= 0 {
		select {
		case ev, ok := <-e.ch:
			return ev, ok
		default:
			return nil, false
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ev, ok := <-e.ch:
		return ev, ok
	case <-timer.C:
		return nil, false
	}
}

// Next blocks until an event arrives. It returns false once the stream has
// ended and every queued event has been consumed.
func (e *Events) Next() (input.Event, bool) {
	ev, ok := <-e.ch
	return ev, ok
}

// All yields events until the stream ends or the loop breaks.
func (e *Events) All() iter.Seq[input.Event] {
	return func(yield func(input.Event) bool) {
		for ev := range e.ch {
			if !yield(ev) {
				return
			}
		}
	}
}

// C exposes the queue for use in select statements.
func (e *Events) C() <-chan input.Event {
	return e.ch
}

// Close stops the listener and waits for the stream to end. It returns the
// error that stopped the listener, if any, once.
func (e *Events) Close() error {
	e.l.Stop()
	if !e.started.Load() {
		e.end(nil)
	}
	<-e.done
	var err error
	e.takeOnce.Do(func() { err = e.err })
	return err
}

// With starts the stream, runs fn and always closes the stream afterwards.
func (e *Events) With(fn func(*Events) error) (err error) {
	if err := e.Start(); err != nil {
		return err
	}
	defer func() {
		if cerr := e.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(e)
}

// Dropped reports how many events were discarded because the queue was full.
func (e *Events) Dropped() uint64 {
	return e.dropped.Load()
}

// Listener returns the underlying listener.
func (e *Events) Listener() *Listener {
	return e.l
}
