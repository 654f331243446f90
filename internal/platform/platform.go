// Package platform sends desktop notifications through the host's
// notification service.
package platform

// AppName identifies the application to notification daemons.
const AppName = "grabmark"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image the notification should
	// show if the platform supports it.
	IconPath string
}
