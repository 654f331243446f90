//go:build windows

package platform

import "github.com/go-toast/toast"

// Notify shows a toast in the Windows action center.
func Notify(title, body string, opts Options) error {
	n := toast.Notification{
		AppID:   AppName,
		Title:   title,
		Message: body,
		Icon:    opts.IconPath,
	}
	return n.Push()
}
