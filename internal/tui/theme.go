package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Danondso/keychord/internal/config"
)

// Theme is a monitor color palette. Field names match [config.CustomTheme].
type Theme struct {
	Name       string
	Primary    lipgloss.Color // title, activation counts
	Secondary  lipgloss.Color // labels, combos, border
	Accent     lipgloss.Color // key events
	Error      lipgloss.Color // stopped badge
	Success    lipgloss.Color // listening badge, held keys
	Warning    lipgloss.Color // mouse events, debug categories
	Background lipgloss.Color
	Text       lipgloss.Color
	Dimmed     lipgloss.Color // help, timestamps, debug text
	Separator  lipgloss.Color
}

// palette builds a Theme from hex colors in Theme field order.
func palette(name string, c [10]string) Theme {
	return Theme{
		Name:       name,
		Primary:    lipgloss.Color(c[0]),
		Secondary:  lipgloss.Color(c[1]),
		Accent:     lipgloss.Color(c[2]),
		Error:      lipgloss.Color(c[3]),
		Success:    lipgloss.Color(c[4]),
		Warning:    lipgloss.Color(c[5]),
		Background: lipgloss.Color(c[6]),
		Text:       lipgloss.Color(c[7]),
		Dimmed:     lipgloss.Color(c[8]),
		Separator:  lipgloss.Color(c[9]),
	}
}

// Built-in themes in cycle order. The first one is the fallback.
var builtins = []Theme{
	palette("Synthwave", [10]string{"#FF6AC1", "#00E5FF", "#B388FF", "#FF8A80", "#64FFDA", "#FFAB40", "#1A1A2E", "#E0E0E0", "#666666", "#444444"}),
	palette("Everforest", [10]string{"#A7C080", "#7FBBB3", "#D699B6", "#E67E80", "#83C092", "#DBBC7F", "#2D353B", "#D3C6AA", "#859289", "#4F585E"}),
	palette("Gruvbox", [10]string{"#FB4934", "#83A598", "#D3869B", "#FB4934", "#B8BB26", "#FABD2F", "#282828", "#EBDBB2", "#928374", "#504945"}),
	palette("Monochrome", [10]string{"#FFFFFF", "#CCCCCC", "#AAAAAA", "#FF0000", "#FFFFFF", "#CCCCCC", "#000000", "#FFFFFF", "#888888", "#444444"}),
}

var (
	themes     = map[string]Theme{}
	themeOrder []string
)

func init() {
	for _, t := range builtins {
		key := strings.ToLower(t.Name)
		themes[key] = t
		themeOrder = append(themeOrder, key)
	}
	applyTheme(builtins[0])
}

// ThemeNames returns the theme keys in cycle order.
func ThemeNames() []string {
	return append([]string(nil), themeOrder...)
}

// LoadTheme looks a theme up by name, ignoring case. Unknown names get the
// first built-in theme.
func LoadTheme(name string) Theme {
	if t, ok := themes[strings.ToLower(name)]; ok {
		return t
	}
	return builtins[0]
}

// NextTheme returns the theme after current in cycle order.
func NextTheme(current string) Theme {
	current = strings.ToLower(current)
	for i, key := range themeOrder {
		if key == current {
			return themes[themeOrder[(i+1)%len(themeOrder)]]
		}
	}
	return themes[themeOrder[0]]
}

// RegisterCustomThemes adds config palettes to the cycle. Entries without a
// name or whose name is already taken are skipped.
func RegisterCustomThemes(custom []config.CustomTheme) {
	for _, ct := range custom {
		key := strings.ToLower(ct.Name)
		if _, taken := themes[key]; key == "" || taken {
			continue
		}
		themes[key] = palette(ct.Name, [10]string{
			ct.Primary, ct.Secondary, ct.Accent, ct.Error, ct.Success,
			ct.Warning, ct.Background, ct.Text, ct.Dimmed, ct.Separator,
		})
		themeOrder = append(themeOrder, key)
	}
}

// Styles, set by applyTheme.
var (
	titleStyle         lipgloss.Style
	borderStyle        lipgloss.Style
	labelStyle         lipgloss.Style
	keyEventStyle      lipgloss.Style
	mouseEventStyle    lipgloss.Style
	comboStyle         lipgloss.Style
	helpStyle          lipgloss.Style
	listeningBadge     lipgloss.Style
	stoppedBadge       lipgloss.Style
	countStyle         lipgloss.Style
	heldStyle          lipgloss.Style
	bodyStyle          lipgloss.Style
	debugTitleStyle    lipgloss.Style
	debugRuleStyle     lipgloss.Style
	debugHeaderStyle   lipgloss.Style
	debugTimeStyle     lipgloss.Style
	debugCategoryStyle lipgloss.Style
	debugMsgStyle      lipgloss.Style
	debugSepStyle      lipgloss.Style
)

// applyTheme rebuilds every style from t.
func applyTheme(t Theme) {
	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c).Background(t.Background)
	}

	titleStyle = fg(t.Primary).Bold(true).MarginBottom(1)
	borderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Secondary).
		Background(t.Background).
		Padding(1, 2)
	labelStyle = fg(t.Secondary).Bold(true)
	comboStyle = fg(t.Secondary)
	keyEventStyle = fg(t.Accent)
	mouseEventStyle = fg(t.Warning)
	helpStyle = fg(t.Dimmed)
	bodyStyle = fg(t.Text)

	listeningBadge = fg(t.Success).Bold(true)
	stoppedBadge = fg(t.Error).Bold(true)
	countStyle = fg(t.Primary).Bold(true)
	heldStyle = fg(t.Success).Bold(true)

	debugTitleStyle = fg(t.Dimmed).Bold(true)
	debugHeaderStyle = fg(t.Dimmed).Bold(true)
	debugRuleStyle = fg(t.Dimmed)
	debugTimeStyle = fg(t.Dimmed)
	debugMsgStyle = fg(t.Dimmed)
	debugCategoryStyle = fg(t.Warning)
	debugSepStyle = fg(t.Separator)
}
