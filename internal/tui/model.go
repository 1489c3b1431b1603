package tui

import (
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Danondso/keychord/internal/config"
	"github.com/Danondso/keychord/internal/hotkey"
	"github.com/Danondso/keychord/internal/input"
)

// State represents the listener state shown in the monitor.
type State int

const (
	StateListening State = iota
	StateStopped
)

// Messages sent through the Bubble Tea update loop.

// InputMsg carries one event from the listener.
type InputMsg struct {
	Event input.Event
	Time  time.Time
}

// DroppedMsg reports how many events the listener queue has dropped so far.
type DroppedMsg struct {
	Total uint64
}

// StoppedMsg reports that the listener ended, with its error if any.
type StoppedMsg struct {
	Err error
}

type flashTimeoutMsg struct {
	combo string
}

// DebugEntry is a structured debug log entry.
type DebugEntry struct {
	Time     string // e.g. "11:27:53"
	Category string // e.g. "hotkey", "listener", "backend"
	Message  string // the log message
}

// DebugLogMsg carries a structured debug log entry into the TUI.
type DebugLogMsg struct {
	Entry DebugEntry
}

// EventEntry is one line of the event log.
type EventEntry struct {
	Time  string
	Mouse bool
	Text  string
}

// Binding is a configured hotkey and how often it fired.
type Binding struct {
	Combo  string
	Action string
	Count  int
	Last   time.Time
	Flash  bool

	hk *hotkey.HotKey
}

const maxDebugLines = 50

const flashDuration = 600 * time.Millisecond

// Model is the Bubble Tea model for the keychord monitor.
type Model struct {
	State        State
	LastError    string
	Config       *config.Config
	Backend      string
	Logger       *log.Logger
	DebugMode    bool
	DebugEntries []DebugEntry
	Events       []EventEntry
	Bindings     []*Binding
	Held         []input.Key
	Total        int
	Dropped      uint64
	ThemeName    string
}

// NewModel creates a monitor model for the bindings in cfg. The bindings
// are tracked by the monitor itself from the events it is sent; no actions
// run.
func NewModel(cfg *config.Config, backendName string, logger *log.Logger, debug bool) (Model, error) {
	m := Model{
		State:     StateListening,
		Config:    cfg,
		Backend:   backendName,
		Logger:    logger,
		DebugMode: debug,
		ThemeName: cfg.Theme,
	}
	for _, h := range cfg.Hotkeys {
		keys, err := hotkey.Parse(h.Combo)
		if err != nil {
			return Model{}, err
		}
		b := &Binding{Combo: h.Combo, Action: h.Action}
		b.hk = hotkey.New(keys, func() {
			b.Count++
			b.Last = time.Now()
		})
		m.Bindings = append(m.Bindings, b)
	}
	applyTheme(LoadTheme(cfg.Theme))
	return m, nil
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and transitions state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "t":
			next := NextTheme(m.ThemeName)
			m.ThemeName = next.Name
			applyTheme(next)
		case "c":
			m.Events = nil
			m.Total = 0
		}

	case InputMsg:
		return m.handleInput(msg)

	case DroppedMsg:
		m.Dropped = msg.Total

	case StoppedMsg:
		m.State = StateStopped
		m.Held = nil
		if msg.Err != nil {
			m.LastError = msg.Err.Error()
		}

	case flashTimeoutMsg:
		for _, b := range m.Bindings {
			if b.Combo == msg.combo {
				b.Flash = false
			}
		}

	case DebugLogMsg:
		m.DebugEntries = append(m.DebugEntries, msg.Entry)
		if len(m.DebugEntries) > maxDebugLines {
			m.DebugEntries = m.DebugEntries[len(m.DebugEntries)-maxDebugLines:]
		}
	}

	return m, nil
}

func (m Model) handleInput(msg InputMsg) (tea.Model, tea.Cmd) {
	at := msg.Time
	if at.IsZero() {
		at = time.Now()
	}
	m.Total++
	m.Events = append(m.Events, EventEntry{
		Time:  at.Format("15:04:05.000"),
		Mouse: msg.Event.Kind() == input.KindMouse,
		Text:  msg.Event.String(),
	})
	if limit := m.Config.Monitor.MaxEvents; limit > 0 && len(m.Events) > limit {
		m.Events = m.Events[len(m.Events)-limit:]
	}

	before := m.counts()
	switch ev := msg.Event.(type) {
	case input.KeyPress:
		k := input.Canonical(ev.Key)
		m.Held = addKey(m.Held, k)
		for _, b := range m.Bindings {
			b.hk.Press(k)
		}
	case input.KeyRelease:
		k := input.Canonical(ev.Key)
		m.Held = removeKey(m.Held, k)
		for _, b := range m.Bindings {
			b.hk.Release(k)
		}
	}

	var cmds []tea.Cmd
	for i, b := range m.Bindings {
		if b.Count != before[i] {
			b.Flash = true
			m.Logger.Printf("hotkey: %s activated (%d)", b.Combo, b.Count)
			cmds = append(cmds, flashTimeout(b.Combo))
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) counts() []int {
	out := make([]int, len(m.Bindings))
	for i, b := range m.Bindings {
		out[i] = b.Count
	}
	return out
}

func addKey(held []input.Key, k input.Key) []input.Key {
	for _, h := range held {
		if h == k {
			return held
		}
	}
	return append(append([]input.Key(nil), held...), k)
}

func removeKey(held []input.Key, k input.Key) []input.Key {
	out := make([]input.Key, 0, len(held))
	for _, h := range held {
		if h != k {
			out = append(out, h)
		}
	}
	return out
}

func flashTimeout(combo string) tea.Cmd {
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashTimeoutMsg{combo: combo}
	})
}
