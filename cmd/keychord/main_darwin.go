//go:build darwin

package main

import "golang.design/x/mainthread"

// The macOS hotkey and event tap APIs must be driven from the main thread.
func main() {
	mainthread.Init(run)
}
