package listener_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Danondso/keychord/internal/backend/dummy"
	"github.com/Danondso/keychord/internal/input"
	"github.com/Danondso/keychord/internal/listener"
)

func TestEventsGetTimeout(t *testing.T) {
	b := dummy.New()
	e := listener.NewEvents(newSource(t, b), input.KindKeyboard, 0)
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	start := time.Now()
	ev, ok := e.Get(20 * time.Millisecond)
	if ok || ev != nil {
		t.Errorf("Get = %v, %v; want nil, false", ev, ok)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Error("Get returned before the timeout elapsed")
	}
}

func TestEventsGetReceives(t *testing.T) {
	b := dummy.New()
	e := listener.NewEvents(newSource(t, b), input.KindKeyboard, 0)
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	_ = b.Emit(input.KeyPress{Key: input.Char('k')})
	ev, ok := e.Get(waitTimeout)
	if !ok {
		t.Fatal("expected an event")
	}
	if ev != (input.KeyPress{Key: input.Char('k')}) {
		t.Errorf("Get = %v, want press k", ev)
	}
}

func TestEventsIterationEndsOnClose(t *testing.T) {
	b := dummy.New()
	e := listener.NewEvents(newSource(t, b), input.KindKeyboard, 0)

	err := e.With(func(e *listener.Events) error {
		_ = b.Emit(input.KeyPress{Key: input.Char('a')})
		_ = b.Emit(input.KeyRelease{Key: input.Char('a')})

		var got []input.Event
		for ev := range e.All() {
			got = append(got, ev)
			if len(got) == 2 {
				break
			}
		}
		if len(got) != 2 {
			t.Errorf("got %d events, want 2", len(got))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("With = %v", err)
	}

	if _, ok := e.Next(); ok {
		t.Error("expected Next to report end after close")
	}
	if _, ok := e.Get(time.Millisecond); ok {
		t.Error("expected Get to report end after close")
	}
}

func TestEventsReportsListenerError(t *testing.T) {
	b := dummy.New()
	boom := errors.New("boom")
	e := listener.NewEvents(newSource(t, b), input.KindKeyboard, 0,
		listener.WithFilter(func(input.Event) listener.Verdict { panic(boom) }))
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	_ = b.Emit(input.KeyPress{Key: input.Char('a')})

	for range e.All() {
	}
	if err := e.Close(); err == nil {
		t.Error("expected Close to report the filter panic")
	}
	if err := e.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
}

func TestEventsDropWhenFull(t *testing.T) {
	b := dummy.New()
	e := listener.NewEvents(newSource(t, b), input.KindMouse, 2)
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		_ = b.Emit(input.Move{X: i, Y: i})
	}

	deadline := time.Now().Add(waitTimeout)
	for e.Dropped() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := e.Dropped(); got != 3 {
		t.Errorf("dropped %d events, want 3", got)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}

	var xs []int
	for ev := range e.All() {
		xs = append(xs, ev.(input.Move).X)
	}
	if len(xs) != 2 || xs[0] != 0 || xs[1] != 1 {
		t.Errorf("kept moves %v, want [0 1]", xs)
	}
}

func TestEventsStartFailureEndsStream(t *testing.T) {
	denied := errors.New("denied")
	b := dummy.New(dummy.WithStartError(denied))
	e := listener.NewEvents(newSource(t, b), input.KindKeyboard, 0)
	if err := e.Start(); !errors.Is(err, denied) {
		t.Fatalf("Start = %v, want %v", err, denied)
	}
	if _, ok := e.Next(); ok {
		t.Error("expected stream to have ended")
	}
	if err := e.Close(); err != nil {
		t.Errorf("Close = %v, want nil", err)
	}
}

func TestEventsCloseWithoutStart(t *testing.T) {
	b := dummy.New()
	e := listener.NewEvents(newSource(t, b), input.KindKeyboard, 0)
	if err := e.Close(); err != nil {
		t.Errorf("Close = %v, want nil", err)
	}
}
