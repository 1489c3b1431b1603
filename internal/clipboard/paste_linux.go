//go:build linux

package clipboard

import (
	"context"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/Danondso/keychord/internal/input"
)

const pasteModifier = input.Ctrl

// isWayland returns true if the session is running under Wayland.
func isWayland() bool {
	return os.Getenv("WAYLAND_DISPLAY") != ""
}

var ydotooldOnce sync.Once

// ensureYdotoold starts ydotoold in the background if it's not already running.
func ensureYdotoold() {
	ydotooldOnce.Do(func() {
		if err := exec.Command("pgrep", "-x", "ydotoold").Run(); err == nil {
			return // already running
		}
		if _, err := exec.LookPath("ydotoold"); err != nil {
			return // not installed
		}
		cmd := exec.Command("ydotoold")
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
		if err := cmd.Start(); err != nil {
			return
		}
		// Give it a moment to initialize
		time.Sleep(200 * time.Millisecond)
	})
}

// pasteExternal presses Ctrl+V with ydotool on Wayland, which works via
// /dev/uinput on all compositors, and with xdotool on X11.
func pasteExternal(ctx context.Context, run func(context.Context, string, ...string) error) error {
	if isWayland() {
		ensureYdotoold()
		return run(ctx, "ydotool", "key", "--delay", "0", "ctrl+v")
	}
	return run(ctx, "xdotool", "key", "ctrl+v")
}

func typeExternal(ctx context.Context, run func(context.Context, string, ...string) error, text string) error {
	if isWayland() {
		ensureYdotoold()
		return run(ctx, "ydotool", "type", "--", text)
	}
	return run(ctx, "xdotool", "type", "--", text)
}

func installHint(tool string) string {
	switch tool {
	case "xdotool":
		return " (install with: apt install xdotool)"
	case "ydotool":
		return " (install with: apt install ydotool)"
	}
	return ""
}
