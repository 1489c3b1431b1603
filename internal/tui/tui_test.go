package tui

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Danondso/keychord/internal/config"
	"github.com/Danondso/keychord/internal/input"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.Default()
	cfg.Monitor.MaxEvents = 5
	cfg.Hotkeys = []config.HotkeyConfig{
		{Combo: "<ctrl>+a", Action: config.ActionLog},
		{Combo: "<shift>+<f5>", Action: config.ActionNotify},
	}
	m, err := NewModel(cfg, "dummy", log.New(io.Discard, "", 0), false)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func send(m Model, msgs ...any) Model {
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(k input.Key) InputMsg   { return InputMsg{Event: input.KeyPress{Key: k}} }
func release(k input.Key) InputMsg { return InputMsg{Event: input.KeyRelease{Key: k}} }

func TestInitialState(t *testing.T) {
	m := newTestModel(t)
	if m.State != StateListening {
		t.Errorf("expected StateListening, got %d", m.State)
	}
	if len(m.Bindings) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(m.Bindings))
	}
	if m.Bindings[0].Combo != "<ctrl>+a" || m.Bindings[0].Count != 0 {
		t.Errorf("unexpected first binding %+v", m.Bindings[0])
	}
}

func TestNewModelRejectsBadCombo(t *testing.T) {
	cfg := config.Default()
	cfg.Hotkeys = []config.HotkeyConfig{{Combo: "<ctrl>+", Action: config.ActionLog}}
	if _, err := NewModel(cfg, "dummy", log.New(io.Discard, "", 0), false); err == nil {
		t.Error("expected parse error")
	}
}

func TestHotkeyActivationFromRawEvents(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(press(input.Named(input.CtrlL)))
	m = updated.(Model)
	updated, cmd := m.Update(press(input.Char('A')))
	m = updated.(Model)

	if m.Bindings[0].Count != 1 {
		t.Fatalf("expected <ctrl>+a to fire once, got %d", m.Bindings[0].Count)
	}
	if !m.Bindings[0].Flash {
		t.Error("expected fired binding to flash")
	}
	if cmd == nil {
		t.Error("expected flash timeout command")
	}
	if m.Bindings[1].Count != 0 {
		t.Errorf("expected <shift>+<f5> untouched, got %d", m.Bindings[1].Count)
	}

	// holding keeps it from firing again; release and press re-arms
	m = send(m, press(input.Char('a')), release(input.Char('a')), press(input.Char('a')))
	if m.Bindings[0].Count != 2 {
		t.Errorf("expected second activation after re-press, got %d", m.Bindings[0].Count)
	}

	m = send(m, flashTimeoutMsg{combo: "<ctrl>+a"})
	if m.Bindings[0].Flash {
		t.Error("expected flash cleared")
	}
}

func TestHeldKeysAreCanonical(t *testing.T) {
	m := newTestModel(t)
	m = send(m, press(input.Named(input.ShiftR)), press(input.Char('Q')))
	if len(m.Held) != 2 || m.Held[0] != input.Named(input.Shift) || m.Held[1] != input.Char('q') {
		t.Errorf("held = %v, want [<shift> q]", m.Held)
	}
	m = send(m, release(input.Named(input.ShiftL)))
	if len(m.Held) != 1 {
		t.Errorf("held after shift release = %v, want [q]", m.Held)
	}
}

func TestEventsTruncateToMax(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 8; i++ {
		m = send(m, InputMsg{Event: input.Move{X: i, Y: i}})
	}
	if len(m.Events) != 5 {
		t.Fatalf("expected 5 events kept, got %d", len(m.Events))
	}
	if m.Total != 8 {
		t.Errorf("expected total 8, got %d", m.Total)
	}
	if m.Events[0].Text != "move (3, 3)" || !m.Events[0].Mouse {
		t.Errorf("oldest kept event = %+v", m.Events[0])
	}
}

func TestClearKey(t *testing.T) {
	m := newTestModel(t)
	m = send(m, press(input.Char('x')))
	m = send(m, keyMsg("c"))
	if len(m.Events) != 0 || m.Total != 0 {
		t.Errorf("expected events cleared, got %d/%d", len(m.Events), m.Total)
	}
}

func TestThemeKeyCycles(t *testing.T) {
	m := newTestModel(t)
	m = send(m, keyMsg("t"))
	if m.ThemeName != "Everforest" {
		t.Errorf("expected Everforest after synthwave, got %s", m.ThemeName)
	}
	applyTheme(LoadTheme("synthwave"))
}

func TestStoppedMsg(t *testing.T) {
	m := newTestModel(t)
	m = send(m, press(input.Char('x')), StoppedMsg{Err: errors.New("device gone")})
	if m.State != StateStopped {
		t.Errorf("expected StateStopped, got %d", m.State)
	}
	if len(m.Held) != 0 {
		t.Errorf("expected held keys cleared, got %v", m.Held)
	}
	if !strings.Contains(m.View(), "device gone") {
		t.Error("expected view to show the listener error")
	}
}

func TestDroppedMsg(t *testing.T) {
	m := send(newTestModel(t), DroppedMsg{Total: 7})
	if !strings.Contains(m.View(), "Dropped: 7") {
		t.Error("expected view to show dropped count")
	}
}

func TestViewContainsTitle(t *testing.T) {
	view := newTestModel(t).View()
	if !strings.Contains(view, "KEYCHORD") {
		t.Error("expected view to contain 'KEYCHORD'")
	}
	if !strings.Contains(view, "Listening") {
		t.Error("expected view to contain 'Listening'")
	}
	if !strings.Contains(view, "<shift>+<f5>") {
		t.Error("expected view to list configured hotkeys")
	}
}

func TestViewShowsEvents(t *testing.T) {
	m := send(newTestModel(t), press(input.Named(input.Esc)))
	if !strings.Contains(m.View(), "press <esc>") {
		t.Error("expected view to show the event")
	}
}

func TestDebugLogMsgAddsEntry(t *testing.T) {
	entry := DebugEntry{Time: "11:00:00", Category: "hotkey", Message: "hello"}
	m := send(newTestModel(t), DebugLogMsg{Entry: entry})
	if len(m.DebugEntries) != 1 {
		t.Fatalf("expected 1 debug entry, got %d", len(m.DebugEntries))
	}
	if m.DebugEntries[0].Message != "hello" {
		t.Errorf("expected 'hello', got %q", m.DebugEntries[0].Message)
	}
}

func TestDebugLogTruncatesToMax(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < maxDebugLines+10; i++ {
		entry := DebugEntry{Time: "11:00:00", Category: "debug", Message: fmt.Sprintf("line %d", i)}
		m = send(m, DebugLogMsg{Entry: entry})
	}
	if len(m.DebugEntries) != maxDebugLines {
		t.Errorf("expected %d debug entries, got %d", maxDebugLines, len(m.DebugEntries))
	}
	if m.DebugEntries[0].Message != "line 10" {
		t.Errorf("expected oldest message to be 'line 10', got %q", m.DebugEntries[0].Message)
	}
}

func TestViewShowsDebugPanel(t *testing.T) {
	entry := DebugEntry{Time: "11:00:00", Category: "hotkey", Message: "test message"}
	view := send(newTestModel(t), DebugLogMsg{Entry: entry}).View()
	if !strings.Contains(view, "Debug") {
		t.Error("expected view to contain 'Debug' panel title")
	}
	if !strings.Contains(view, "test message") {
		t.Error("expected view to contain debug message")
	}
}

func TestViewHidesDebugPanelWhenEmpty(t *testing.T) {
	if strings.Contains(newTestModel(t).View(), "Debug") {
		t.Error("expected view to NOT contain 'Debug' panel when no debug lines")
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line         string
		wantTime     string
		wantCategory string
	}{
		{"[DEBUG] 11:27:53.777842 hotkey: <ctrl>+a activated (1)", "11:27:53.777842", "hotkey"},
		{"[DEBUG] 11:27:53.777842 listener hotkeys: started", "11:27:53.777842", "listener"},
		{"[DEBUG] 11:27:53 backend: opened uinput", "11:27:53", "backend"},
		{"[DEBUG] 11:27:53 action: <ctrl>+a done", "11:27:53", "action"},
		{"[DEBUG] 11:27:53 config: reloaded", "11:27:53", "config"},
		{"something else", "", "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			entry := parseLine(tt.line)
			if entry.Time != tt.wantTime {
				t.Errorf("time = %q, want %q", entry.Time, tt.wantTime)
			}
			if entry.Category != tt.wantCategory {
				t.Errorf("category = %q, want %q", entry.Category, tt.wantCategory)
			}
		})
	}
}

func TestRegisterCustomThemes(t *testing.T) {
	RegisterCustomThemes([]config.CustomTheme{
		{Name: "Ocean", Primary: "#0077B6"},
		{Name: "gruvbox", Primary: "#000000"},
		{Name: ""},
	})
	if got := LoadTheme("ocean"); got.Name != "Ocean" {
		t.Errorf("expected custom theme Ocean, got %s", got.Name)
	}
	if got := LoadTheme("gruvbox"); got.Primary != "#FB4934" {
		t.Errorf("expected built-in gruvbox kept, got primary %s", got.Primary)
	}
}
