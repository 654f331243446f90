//go:build linux

package platform

import (
	"context"
	"time"

	"github.com/godbus/dbus/v5"
)

const notifyTimeout = 3 * time.Second

// Notify sends a notification over the org.freedesktop.Notifications bus
// interface.
func Notify(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	hints := map[string]dbus.Variant{}
	if opts.IconPath != "" {
		hints["image-path"] = dbus.MakeVariant(opts.IconPath)
	}
	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.CallWithContext(ctx, "org.freedesktop.Notifications.Notify", 0,
		AppName, uint32(0), opts.IconPath, title, body, []string{}, hints, int32(5000))
	return call.Err
}
