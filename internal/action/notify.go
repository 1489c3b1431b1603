package action

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	notifyDest   = "org.freedesktop.Notifications"
	notifyPath   = "/org/freedesktop/Notifications"
	notifyMethod = "org.freedesktop.Notifications.Notify"
	notifyExpire = int32(4000)
)

// DBusNotifier sends freedesktop desktop notifications over the session bus.
// The bus is connected on first use.
type DBusNotifier struct {
	once sync.Once
	conn *dbus.Conn
	err  error
}

// Notify implements Notifier.
func (n *DBusNotifier) Notify(ctx context.Context, summary, body string) error {
	n.once.Do(func() {
		n.conn, n.err = dbus.SessionBus()
	})
	if n.err != nil {
		return fmt.Errorf("connect session bus: %w", n.err)
	}

	obj := n.conn.Object(notifyDest, dbus.ObjectPath(notifyPath))
	call := obj.CallWithContext(ctx, notifyMethod, 0,
		"keychord",                // app name
		uint32(0),                 // replaces id
		"input-keyboard",          // icon
		summary,                   // summary
		body,                      // body
		[]string{},                // actions
		map[string]dbus.Variant{}, // hints
		notifyExpire,              // timeout in ms
	)
	if call.Err != nil {
		return fmt.Errorf("notify: %w", call.Err)
	}
	return nil
}
