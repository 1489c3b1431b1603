package action

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
)

// Runner runs actions in the background so hotkey callbacks return
// immediately. An action that is still running is not started again.
type Runner struct {
	logger   *log.Logger
	onResult func(combo string, err error)

	mu   sync.Mutex
	busy map[string]bool
	wg   sync.WaitGroup
}

// NewRunner creates a Runner. onResult, if non-nil, is called from the
// action's goroutine after each run.
func NewRunner(logger *log.Logger, onResult func(combo string, err error)) *Runner {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Runner{logger: logger, onResult: onResult, busy: make(map[string]bool)}
}

// Go starts fn for combo and reports whether it was started.
func (r *Runner) Go(ctx context.Context, combo string, fn Func) bool {
	r.mu.Lock()
	if r.busy[combo] {
		r.mu.Unlock()
		r.logger.Printf("action: %s still running, skipped", combo)
		return false
	}
	r.busy[combo] = true
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		err := r.run(ctx, combo, fn)
		r.mu.Lock()
		delete(r.busy, combo)
		r.mu.Unlock()
		if err != nil {
			r.logger.Printf("action: %s failed: %v", combo, err)
		} else {
			r.logger.Printf("action: %s done", combo)
		}
		if r.onResult != nil {
			r.onResult(combo, err)
		}
	}()
	return true
}

func (r *Runner) run(ctx context.Context, combo string, fn Func) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("action %s panicked: %v", combo, p)
		}
	}()
	return fn(ctx)
}

// Wait blocks until every started action has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}
