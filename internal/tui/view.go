package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Panel geometry. lipgloss Width includes padding but not the border.
const (
	panelWidth         = 80
	panelWidthForStyle = panelWidth - 2
	panelContentWidth  = panelWidth - 6

	eventPanelMaxLines = 10
	debugPanelMaxLines = 5
)

// column is one cell of a table row.
type column struct {
	style lipgloss.Style
	width int
	text  string
}

// row renders cells separated by a vertical bar, truncating each to its
// width.
func row(cols ...column) string {
	sep := debugSepStyle.Render(" │ ")
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c.style.Width(c.width).Render(truncate(c.text, c.width))
	}
	return strings.Join(parts, sep)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

// lastN returns at most n trailing elements of s.
func lastN[T any](s []T, n int) []T {
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}

// View renders the TUI.
func (m Model) View() string {
	var b strings.Builder

	const name = "  KEYCHORD  "
	bars := panelContentWidth - len(name)
	b.WriteString(titleStyle.Render(strings.Repeat("▓", bars/2) + name + strings.Repeat("▓", bars-bars/2)))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Status:  "))
	b.WriteString(m.renderBadge())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Held:    "))
	b.WriteString(m.renderHeld())
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Hotkeys:"))
	b.WriteString("\n")
	b.WriteString(m.renderBindings())
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Recent events:"))
	b.WriteString("\n")
	b.WriteString(m.renderEvents())
	b.WriteString("\n\n")

	b.WriteString(helpStyle.Render("t theme  c clear  q quit"))

	if m.DebugMode || len(m.DebugEntries) > 0 {
		b.WriteString("\n\n")
		b.WriteString(m.renderDebugPanel())
	}

	return borderStyle.Width(panelWidthForStyle).Render(b.String())
}

func (m Model) renderStatusBar() string {
	return helpStyle.Render(fmt.Sprintf("Backend: %s  Events: %d  Dropped: %d  Theme: %s",
		m.Backend, m.Total, m.Dropped, m.ThemeName))
}

func (m Model) renderBadge() string {
	if m.State == StateStopped {
		if m.LastError == "" {
			return stoppedBadge.Render("● Stopped")
		}
		return stoppedBadge.Render("● Stopped: " + truncate(m.LastError, 53))
	}
	return listeningBadge.Render("● Listening")
}

func (m Model) renderHeld() string {
	if len(m.Held) == 0 {
		return bodyStyle.Render("(none)")
	}
	parts := make([]string, len(m.Held))
	for i, k := range m.Held {
		parts[i] = k.String()
	}
	return heldStyle.Render(strings.Join(parts, " "))
}

// Table column widths. Debug rows must fit within panelContentWidth.
const (
	colComboWidth    = 30
	colActionWidth   = 12
	colCountWidth    = 8
	colTimeWidth     = 15
	colCategoryWidth = 10
	colMsgWidth      = panelContentWidth - colTimeWidth - colCategoryWidth - 2*len(" | ")
)

func (m Model) renderBindings() string {
	if len(m.Bindings) == 0 {
		return bodyStyle.Render("(no hotkeys configured)")
	}
	rows := make([]string, len(m.Bindings))
	for i, b := range m.Bindings {
		count := fmt.Sprintf("%d", b.Count)
		if b.Flash {
			count += " ●"
		}
		rows[i] = row(
			column{comboStyle, colComboWidth, b.Combo},
			column{bodyStyle, colActionWidth, b.Action},
			column{countStyle, colCountWidth, count},
		)
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderEvents() string {
	if len(m.Events) == 0 {
		return bodyStyle.Render("(waiting for input)")
	}
	entries := lastN(m.Events, eventPanelMaxLines)
	rows := make([]string, len(entries))
	for i, e := range entries {
		style := keyEventStyle
		if e.Mouse {
			style = mouseEventStyle
		}
		rows[i] = debugTimeStyle.Render(e.Time+"  ") + style.Render(e.Text)
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderDebugPanel() string {
	rule := debugRuleStyle.Render(strings.Repeat("─", panelContentWidth))
	lines := []string{
		debugTitleStyle.Render("Debug"),
		rule,
		row(
			column{debugHeaderStyle, colTimeWidth, "TIME"},
			column{debugHeaderStyle, colCategoryWidth, "TYPE"},
			column{debugHeaderStyle, colMsgWidth, "MESSAGE"},
		),
		rule,
	}
	for _, e := range lastN(m.DebugEntries, debugPanelMaxLines) {
		lines = append(lines, row(
			column{debugTimeStyle, colTimeWidth, e.Time},
			column{debugCategoryStyle, colCategoryWidth, e.Category},
			column{debugMsgStyle, colMsgWidth, e.Message},
		))
	}
	return strings.Join(lines, "\n")
}
