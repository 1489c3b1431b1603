//go:build linux

package uinput

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	evdev "github.com/holoplot/go-evdev"
)

// FindKeyboard opens a specific device path, or auto-detects a keyboard
// by scanning /dev/input/event* for devices that support letter keys
// (KEY_A through KEY_Z), distinguishing real keyboards from power buttons
// and other devices that only have EV_KEY capability.
func FindKeyboard(devicePath string) (*evdev.InputDevice, error) {
	return findDevice(devicePath, "keyboard", isKeyboard)
}

// FindMouse opens a specific device path, or auto-detects the first device
// reporting relative motion and a left button.
func FindMouse(devicePath string) (*evdev.InputDevice, error) {
	return findDevice(devicePath, "mouse", isMouse)
}

func findDevice(devicePath, what string, match func(*evdev.InputDevice) bool) (*evdev.InputDevice, error) {
	if devicePath != "" {
		dev, err := evdev.Open(devicePath)
		if err != nil {
			return nil, fmt.Errorf("open device %s: %w", devicePath, err)
		}
		return dev, nil
	}

	matches, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, fmt.Errorf("glob /dev/input/event*: %w", err)
	}

	// Sort numerically so event7 comes before event10
	sort.Slice(matches, func(i, j int) bool {
		ni, _ := strconv.Atoi(strings.TrimPrefix(matches[i], "/dev/input/event"))
		nj, _ := strconv.Atoi(strings.TrimPrefix(matches[j], "/dev/input/event"))
		return ni < nj
	})

	var firstErr error
	for _, path := range matches {
		dev, err := evdev.Open(path)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		if match(dev) {
			return dev, nil
		}
		_ = dev.Close()
	}

	if firstErr != nil {
		return nil, fmt.Errorf("no %s device found in /dev/input/event*: %w", what, firstErr)
	}
	return nil, fmt.Errorf("no %s device found in /dev/input/event*", what)
}

func hasRel(dev *evdev.InputDevice) bool {
	for _, evType := range dev.CapableTypes() {
		if evType == evdev.EV_REL {
			return true
		}
	}
	return false
}

func hasCodes(dev *evdev.InputDevice, want ...evdev.EvCode) bool {
	found := 0
	for _, code := range dev.CapableEvents(evdev.EV_KEY) {
		for _, w := range want {
			if code == w {
				found++
			}
		}
	}
	return found == len(want)
}

// isKeyboard returns true if the device supports letter keys (KEY_A..KEY_Z)
// and is not a mouse (no EV_REL capability), identifying it as a real keyboard
// rather than a power button, mouse, or other device.
func isKeyboard(dev *evdev.InputDevice) bool {
	return !hasRel(dev) && hasCodes(dev, codeKeyA, codeKeyZ)
}

// isMouse returns true for devices with relative axes and a left button.
func isMouse(dev *evdev.InputDevice) bool {
	return hasRel(dev) && hasCodes(dev, codeBtnLeft)
}

// deviceReader reads one device until it is closed.
type deviceReader struct {
	dev    *evdev.InputDevice
	mu     sync.Mutex
	closed bool
}

// run forwards raw events to out until the device is closed or fails. A
// close through Close is not an error.
func (r *deviceReader) run(out chan<- *evdev.InputEvent, quit <-chan struct{}) error {
	for {
		ev, err := r.dev.ReadOne()
		if err != nil {
			r.mu.Lock()
			closed := r.closed
			r.mu.Unlock()
			if closed {
				return nil
			}
			if os.IsNotExist(err) || strings.Contains(err.Error(), "file already closed") || strings.Contains(err.Error(), "bad file descriptor") {
				return nil
			}
			return fmt.Errorf("read event from %s: %w", r.dev.Path(), err)
		}
		select {
		case out <- ev:
		case <-quit:
			return nil
		}
	}
}

// Close releases any grab and closes the device.
func (r *deviceReader) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.closed = true
		_ = r.dev.Ungrab()
		_ = r.dev.Close()
	}
}
