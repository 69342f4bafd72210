//go:build darwin

package platform

import "os/exec"

// Notify posts to Notification Center through osascript. The icon is left
// to the calling application's bundle; osascript cannot attach one.
func Notify(title, body string, opts Options) error {
	return exec.Command("osascript", "-e", appleScript(title, body)).Run()
}
