//go:build windows

package platform

import (
	"os/exec"
	"strings"
)

// psQuote renders s as a single-quoted PowerShell literal.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// toastScript builds the PowerShell that shows a two-line toast, with the
// saved snapshot as its image when one is given.
func toastScript(title, body, image string) string {
	kind := "ToastText02"
	if image != "" {
		kind = "ToastImageAndText02"
	}
	lines := []string{
		`[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType=Windows Runtime] > $null`,
		`$t = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::` + kind + `)`,
		`$x = $t.GetElementsByTagName("text")`,
		`$x.Item(0).AppendChild($t.CreateTextNode(` + psQuote(title) + `)) > $null`,
		`$x.Item(1).AppendChild($t.CreateTextNode(` + psQuote(body) + `)) > $null`,
	}
	if image != "" {
		lines = append(lines, `$t.GetElementsByTagName("image").Item(0).SetAttribute("src", `+psQuote(image)+`)`)
	}
	lines = append(lines,
		`$n = [Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier(`+psQuote(AppName)+`)`,
		`$n.Show([Windows.UI.Notifications.ToastNotification]::new($t))`,
	)
	return strings.Join(lines, "; ")
}

// Notify shows a toast in the Windows notification center.
func Notify(title, body string, opts Options) error {
	script := toastScript(title, body, strings.TrimSpace(opts.IconPath))
	return exec.Command("powershell.exe", "-NoProfile", "-Command", script).Run()
}
