package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/Danondso/keychord/internal/hotkey"
	"github.com/Danondso/keychord/internal/input"
)

// Action names accepted in [[hotkey]] entries.
const (
	ActionExec      = "exec"
	ActionClipboard = "clipboard"
	ActionPaste     = "paste"
	ActionType      = "type"
	ActionChime     = "chime"
	ActionNotify    = "notify"
	ActionLog       = "log"
)

// Actions lists every valid action name.
var Actions = []string{ActionExec, ActionClipboard, ActionPaste, ActionType, ActionChime, ActionNotify, ActionLog}

// defaultActionTimeout bounds exec actions that do not set timeout_sec.
const defaultActionTimeout = 10 * time.Second

// watchDebounce coalesces the burst of events editors produce on save.
const watchDebounce = 100 * time.Millisecond

// BackendConfig picks and tunes the input backends.
type BackendConfig struct {
	Keyboard       string `toml:"keyboard" yaml:"keyboard"`
	Mouse          string `toml:"mouse" yaml:"mouse"`
	KeyboardDevice string `toml:"keyboard_device" yaml:"keyboard_device"`
	MouseDevice    string `toml:"mouse_device" yaml:"mouse_device"`
	Suppress       bool   `toml:"suppress" yaml:"suppress"`
}

// AudioConfig holds activation chime settings.
type AudioConfig struct {
	ChimeEnabled bool   `toml:"chime_enabled" yaml:"chime_enabled"`
	ChimePath    string `toml:"chime_path" yaml:"chime_path"`
}

// MonitorConfig holds settings for the monitor TUI.
type MonitorConfig struct {
	MaxEvents int  `toml:"max_events" yaml:"max_events"`
	Mouse     bool `toml:"mouse" yaml:"mouse"`
}

// HotkeyConfig binds one key combination to an action.
type HotkeyConfig struct {
	Combo      string   `toml:"combo" yaml:"combo"`
	Action     string   `toml:"action" yaml:"action"`
	Command    []string `toml:"command,omitempty" yaml:"command,omitempty"`
	Text       string   `toml:"text,omitempty" yaml:"text,omitempty"`
	TimeoutSec int      `toml:"timeout_sec,omitempty" yaml:"timeout_sec,omitempty"`
}

// Timeout returns how long an exec action may run.
func (h HotkeyConfig) Timeout() time.Duration {
	if h.TimeoutSec > 0 {
		return time.Duration(h.TimeoutSec) * time.Second
	}
	return defaultActionTimeout
}

// CustomTheme defines a user color palette for the monitor.
type CustomTheme struct {
	Name       string `toml:"name" yaml:"name"`
	Primary    string `toml:"primary" yaml:"primary"`
	Secondary  string `toml:"secondary" yaml:"secondary"`
	Accent     string `toml:"accent" yaml:"accent"`
	Error      string `toml:"error" yaml:"error"`
	Success    string `toml:"success" yaml:"success"`
	Warning    string `toml:"warning" yaml:"warning"`
	Background string `toml:"background" yaml:"background"`
	Text       string `toml:"text" yaml:"text"`
	Dimmed     string `toml:"dimmed" yaml:"dimmed"`
	Separator  string `toml:"separator" yaml:"separator"`
}

// Config is the top-level configuration.
type Config struct {
	Theme        string         `toml:"theme" yaml:"theme"`
	Backend      BackendConfig  `toml:"backend" yaml:"backend"`
	Audio        AudioConfig    `toml:"audio" yaml:"audio"`
	Monitor      MonitorConfig  `toml:"monitor" yaml:"monitor"`
	Hotkeys      []HotkeyConfig `toml:"hotkey" yaml:"hotkey"`
	CustomThemes []CustomTheme  `toml:"custom_theme,omitempty" yaml:"custom_theme,omitempty"`
}

// Default returns a Config populated with all default values. It binds no
// hotkeys.
func Default() *Config {
	return &Config{
		Theme: "synthwave",
		Audio: AudioConfig{
			ChimeEnabled: true,
		},
		Monitor: MonitorConfig{
			MaxEvents: 200,
		},
	}
}

// Example returns the defaults plus a few sample bindings, as written by
// "keychord init".
func Example() *Config {
	cfg := Default()
	cfg.Hotkeys = []HotkeyConfig{
		{Combo: "<ctrl>+<alt>+h", Action: ActionNotify, Text: "keychord is listening"},
		{Combo: "<ctrl>+<alt>+t", Action: ActionExec, Command: []string{"date"}, TimeoutSec: 5},
		{Combo: "<ctrl>+<alt>+d", Action: ActionType, Text: "hello from keychord"},
	}
	return cfg
}

// Validate reports every problem with cfg at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Monitor.MaxEvents <= 0 {
		errs = append(errs, fmt.Errorf("monitor.max_events must be positive, got %d", c.Monitor.MaxEvents))
	}

	seen := make(map[string]int, len(c.Hotkeys))
	for i, h := range c.Hotkeys {
		keys, err := hotkey.Parse(h.Combo)
		if err != nil {
			errs = append(errs, fmt.Errorf("hotkey %d: %w", i+1, err))
		} else {
			canon := hotkey.Format(sortedKeys(keys))
			if first, dup := seen[canon]; dup {
				errs = append(errs, fmt.Errorf("hotkey %d: %q duplicates hotkey %d", i+1, h.Combo, first))
			} else {
				seen[canon] = i + 1
			}
		}

		switch h.Action {
		case ActionExec:
			if len(h.Command) == 0 {
				errs = append(errs, fmt.Errorf("hotkey %d: exec needs a command", i+1))
			}
		case ActionClipboard, ActionType:
			if h.Text == "" {
				errs = append(errs, fmt.Errorf("hotkey %d: %s needs text", i+1, h.Action))
			}
		case ActionPaste, ActionChime, ActionNotify, ActionLog:
		default:
			errs = append(errs, fmt.Errorf("hotkey %d: unknown action %q (valid: %s)", i+1, h.Action, strings.Join(Actions, ", ")))
		}
		if h.TimeoutSec < 0 {
			errs = append(errs, fmt.Errorf("hotkey %d: timeout_sec must not be negative", i+1))
		}
	}
	return errors.Join(errs...)
}

// Bindings returns the combinations of all hotkeys in file order.
func (c *Config) Bindings() []string {
	out := make([]string, len(c.Hotkeys))
	for i, h := range c.Hotkeys {
		out[i] = h.Combo
	}
	return out
}

func sortedKeys(keys []input.Key) []input.Key {
	out := slices.Clone(keys)
	slices.SortFunc(out, func(a, b input.Key) int { return strings.Compare(a.String(), b.String()) })
	return out
}

// DefaultPath returns the default config file path (~/.config/keychord/config.toml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "keychord", "config.toml")
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func encode(path string, cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	if isYAML(path) {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the config to the given path, as YAML for .yaml and .yml
// files and TOML otherwise, creating parent directories if needed. The
// write is atomic: data is written to a temporary file and renamed into
// place so a crash mid-write cannot corrupt the existing config.
func Save(path string, cfg *Config) error {
	data, err := encode(path, cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".keychord-config-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// Load reads the config from path, as YAML for .yaml and .yml files and
// TOML otherwise. If the file does not exist, it returns the default config
// without error. Load does not validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode YAML %s: %w", path, err)
		}
		return cfg, nil
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("decode TOML %s: %w", path, err)
	}
	return cfg, nil
}

// Watch reloads the config whenever the file at path is written or
// replaced, and passes the validated result to onChange. Load and
// validation failures are passed as err with a nil config. Watch blocks
// until ctx is cancelled.
func Watch(ctx context.Context, path string, onChange func(*Config, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}

	reload := func() {
		cfg, err := Load(path)
		if err == nil {
			err = cfg.Validate()
		}
		if err != nil {
			onChange(nil, fmt.Errorf("reload config: %w", err))
			return
		}
		onChange(cfg, nil)
	}

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, reload)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onChange(nil, fmt.Errorf("watch config: %w", err))
		}
	}
}
