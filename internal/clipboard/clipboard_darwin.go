//go:build darwin

package clipboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/Danondso/keychord/internal/input"
)

const pasteModifier = input.Cmd

const accessibilityHint = " (grant Accessibility permissions in System Settings > Privacy & Security)"

// pasteExternal simulates Cmd+V via osascript.
func pasteExternal(ctx context.Context, run func(context.Context, string, ...string) error) error {
	script := `tell application "System Events" to keystroke "v" using command down`
	if err := run(ctx, "osascript", "-e", script); err != nil {
		return fmt.Errorf("osascript Cmd+V: %w%s", err, accessibilityHint)
	}
	return nil
}

// typeExternal types text directly using osascript keystroke.
func typeExternal(ctx context.Context, run func(context.Context, string, ...string) error, text string) error {
	script := fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, escapeAppleScript(text))
	if err := run(ctx, "osascript", "-e", script); err != nil {
		return fmt.Errorf("osascript keystroke: %w%s", err, accessibilityHint)
	}
	return nil
}

// escapeAppleScript escapes a string for use inside AppleScript double quotes.
// Handles backslashes, double quotes, and control characters that could break
// out of the string literal or execute unintended AppleScript.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	s = strings.ReplaceAll(s, "\b", "")
	return s
}

func installHint(string) string { return "" }
