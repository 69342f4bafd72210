// Package platform sends desktop notifications through the host's
// notification centre.
package platform

// AppName identifies the application to the notification centre.
const AppName = "WoundMark"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Timeout is how long the notification stays up, in milliseconds. Zero
	// uses the platform default.
	Timeout int32
}
