//go:build darwin || windows || (linux && xorg)

package gohook

import (
	"errors"
	"testing"
	"time"

	hook "github.com/robotn/gohook"

	"github.com/Danondso/keychord/internal/backend"
	"github.com/Danondso/keychord/internal/input"
)

func TestTranslateMouse(t *testing.T) {
	tests := []struct {
		name string
		ev   hook.Event
		want string
	}{
		{"move", hook.Event{Kind: hook.MouseMove, X: 10, Y: 20}, "move (10, 20)"},
		{"drag", hook.Event{Kind: hook.MouseDrag, X: 1, Y: 2}, "move (1, 2)"},
		{"left press", hook.Event{Kind: hook.MouseHold, Button: 1, X: 5, Y: 6}, "press left (5, 6)"},
		{"right release", hook.Event{Kind: hook.MouseDown, Button: 2, X: 5, Y: 6}, "release right (5, 6)"},
		{"middle press", hook.Event{Kind: hook.MouseHold, Button: 3}, "press middle (0, 0)"},
		{"wheel down", hook.Event{Kind: hook.MouseWheel, Rotation: 1, Direction: 3}, "scroll +0,-1 (0, 0)"},
		{"wheel right", hook.Event{Kind: hook.MouseWheel, Rotation: 2, Direction: wheelHorizontal}, "scroll +2,+0 (0, 0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translate(tt.ev)
			if !ok {
				t.Fatalf("translate(%+v) dropped the event", tt.ev)
			}
			if got.String() != tt.want {
				t.Errorf("translate = %q, want %q", got.String(), tt.want)
			}
		})
	}
}

func TestTranslateIgnoresTypedAndClicked(t *testing.T) {
	for _, kind := range []uint8{hook.KeyDown, hook.MouseUp, hook.HookEnabled} {
		if ev, ok := translate(hook.Event{Kind: kind}); ok {
			t.Errorf("translate(kind %d) = %v, want dropped", kind, ev)
		}
	}
}

func TestTranslateUnknownRawcode(t *testing.T) {
	ev, ok := translate(hook.Event{Kind: hook.KeyHold, Rawcode: 0xfffe})
	if !ok {
		t.Fatal("key press dropped")
	}
	p, isPress := ev.(input.KeyPress)
	if !isPress {
		t.Fatalf("translate = %T, want KeyPress", ev)
	}
	if p.Key != input.VK(0xfffe) {
		t.Errorf("key = %v, want <65534>", p.Key)
	}
}

func TestEmitterUnsupported(t *testing.T) {
	b := &Backend{}
	if _, err := b.Emitter(); !errors.Is(err, backend.ErrUnsupported) {
		t.Errorf("Emitter = %v, want ErrUnsupported", err)
	}
}

func TestDeliverKeepsReleases(t *testing.T) {
	sub := &subscriber{ch: make(chan hook.Event, 1), quit: make(chan struct{})}
	stop := make(chan struct{})
	sub.ch <- hook.Event{Kind: hook.KeyHold, Rawcode: 1}

	if deliver(sub, hook.Event{Kind: hook.KeyHold, Rawcode: 2}, stop) {
		t.Error("press delivered to a full subscriber, want dropped")
	}

	done := make(chan struct{})
	go func() {
		deliver(sub, hook.Event{Kind: hook.KeyUp, Rawcode: 1}, stop)
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("release returned while the subscriber was full")
	case <-time.After(50 * time.Millisecond):
	}

	<-sub.ch
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("release not delivered once there was room")
	}
	if ev := <-sub.ch; ev.Kind != hook.KeyUp {
		t.Errorf("delivered kind %d, want KeyUp", ev.Kind)
	}
}

func TestDeliverReleaseGivesUpOnQuit(t *testing.T) {
	sub := &subscriber{ch: make(chan hook.Event, 1), quit: make(chan struct{})}
	sub.ch <- hook.Event{Kind: hook.MouseHold}
	close(sub.quit)

	done := make(chan struct{})
	go func() {
		deliver(sub, hook.Event{Kind: hook.MouseDown}, make(chan struct{}))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("release blocked on a subscriber that quit")
	}
}
