package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// LogWriter feeds log.Logger output into the monitor's debug panel.
type LogWriter struct {
	program *tea.Program
}

func NewLogWriter(p *tea.Program) *LogWriter {
	return &LogWriter{program: p}
}

// Write sends one DebugLogMsg per call. Sending happens on its own
// goroutine since the logger may be used from inside a Bubble Tea command.
func (w *LogWriter) Write(b []byte) (int, error) {
	entry := parseLine(strings.TrimRight(string(b), "\n"))
	go w.program.Send(DebugLogMsg{Entry: entry})
	return len(b), nil
}

// parseLine splits a "[DEBUG] 15:04:05.000000 category: message" line.
// Lines that do not look like that keep their text as the message.
func parseLine(line string) DebugEntry {
	msg := strings.TrimPrefix(line, "[DEBUG] ")
	var stamp string
	if first, rest, ok := strings.Cut(msg, " "); ok && isClock(first) {
		stamp, msg = first, rest
	}
	return DebugEntry{Time: stamp, Category: inferCategory(msg), Message: msg}
}

// isClock reports whether s starts like a log.Ltime stamp.
func isClock(s string) bool {
	return len(s) >= 8 && s[2] == ':' && s[5] == ':'
}

// categories maps the first word of a debug line to its panel category.
var categories = []struct {
	prefix   string
	category string
}{
	{"hotkey", "hotkey"},
	{"listener", "listener"},
	{"keyboard", "listener"},
	{"mouse", "listener"},
	{"backend", "backend"},
	{"action", "action"},
	{"chime", "action"},
	{"config", "config"},
	{"monitor", "monitor"},
}

func inferCategory(msg string) string {
	lower := strings.ToLower(msg)
	for _, c := range categories {
		if strings.HasPrefix(lower, c.prefix) {
			return c.category
		}
	}
	return "debug"
}
