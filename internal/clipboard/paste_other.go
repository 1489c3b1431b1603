//go:build !linux && !darwin

package clipboard

import (
	"context"
	"errors"

	"github.com/Danondso/keychord/internal/input"
)

const pasteModifier = input.Ctrl

var errNoTool = errors.New("no paste tool on this platform; use a backend that can send key events")

func pasteExternal(context.Context, func(context.Context, string, ...string) error) error {
	return errNoTool
}

func typeExternal(context.Context, func(context.Context, string, ...string) error, string) error {
	return errNoTool
}

func installHint(string) string { return "" }
