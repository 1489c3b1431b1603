// Package backend keeps the registry of platform input backends and picks
// one for each listener or controller.
package backend

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/Danondso/keychord/internal/input"
	"github.com/Danondso/keychord/internal/listener"
)

// Environment variables consulted when no backend is named explicitly.
const (
	EnvBackend  = "PYNPUT_BACKEND"
	EnvKeyboard = "PYNPUT_BACKEND_KEYBOARD"
	EnvMouse    = "PYNPUT_BACKEND_MOUSE"
)

var (
	// ErrUnknownBackend is returned for names that are not registered in
	// this build.
	ErrUnknownBackend = errors.New("unknown backend")

	// ErrUnsupported is returned when a backend lacks a capability, such as
	// event synthesis.
	ErrUnsupported = errors.New("not supported by backend")
)

// Emitter injects synthetic events into the system.
type Emitter interface {
	Emit(ev input.Event) error
	// Position reports the current pointer location.
	Position() (x, y int, err error)
	Close() error
}

// Backend is one platform integration.
type Backend interface {
	Name() string
	// Source returns an event source for listeners of the given kinds.
	Source(kinds input.Kind) (listener.Source, error)
	// Emitter returns an event injector for controllers.
	Emitter() (Emitter, error)
}

// Options configure a backend when it is opened.
type Options struct {
	// KeyboardDevice and MouseDevice pin input device paths for backends
	// that read devices directly. Empty means auto-detect.
	KeyboardDevice string
	MouseDevice    string
	Logger         *log.Logger
}

// Log returns the configured logger or one that discards output.
func (o Options) Log() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard, "", 0)
}

// Factory opens a backend.
type Factory func(Options) (Backend, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// hints tell the user what usually fixes a failing backend.
var hints = map[string]string{
	"darwin": "grant Accessibility and Input Monitoring permissions in System Settings > Privacy & Security",
	"win32":  "make sure the process runs in an interactive desktop session",
	"uinput": "make sure you can read /dev/input/event* and write /dev/uinput (add your user to the input group)",
	"xorg":   "make sure an X server is running and DISPLAY is set correctly",
	"hotkey": "grant Accessibility permissions in System Settings > Privacy & Security",
}

// Register makes a backend available under name. Registering a name twice
// replaces the earlier factory.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = f
}

// Names returns the registered backend names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Hint returns advice for fixing a backend that failed to start, or "".
func Hint(name string) string {
	return hints[name]
}

// Open opens the named backend.
func Open(name string, opts Options) (Backend, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownBackend, name, strings.Join(Names(), ", "))
	}
	b, err := f(opts)
	if err != nil {
		if hint := Hint(name); hint != "" {
			return nil, fmt.Errorf("open backend %s: %w (%s)", name, err, hint)
		}
		return nil, fmt.Errorf("open backend %s: %w", name, err)
	}
	opts.Log().Printf("backend: opened %s", name)
	return b, nil
}

// PlatformDefault returns the backend used when nothing else is configured.
func PlatformDefault() string {
	switch runtime.GOOS {
	case "darwin":
		return "darwin"
	case "windows":
		return "win32"
	}
	return "uinput"
}

// Select picks the backend name for kind. An explicit name wins, then the
// kind-specific environment variable, then PYNPUT_BACKEND, then the
// platform default.
func Select(explicit string, kind input.Kind, getenv func(string) string) string {
	if explicit != "" {
		return explicit
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	switch kind {
	case input.KindKeyboard:
		if v := getenv(EnvKeyboard); v != "" {
			return v
		}
	case input.KindMouse:
		if v := getenv(EnvMouse); v != "" {
			return v
		}
	}
	if v := getenv(EnvBackend); v != "" {
		return v
	}
	return PlatformDefault()
}

// Resolve selects and opens the backend for kind using the process
// environment.
func Resolve(explicit string, kind input.Kind, opts Options) (Backend, error) {
	return Open(Select(explicit, kind, os.Getenv), opts)
}
