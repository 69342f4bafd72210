package platform

import "strings"

// appleQuote renders s as an AppleScript string literal. Only backslash and
// double quote need escaping; newlines are folded since a notification shows
// a single line.
func appleQuote(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	return `"` + s + `"`
}

// appleScript is the osascript program for a notification carrying the
// application name as its subtitle.
func appleScript(title, body string) string {
	return "display notification " + appleQuote(body) +
		" with title " + appleQuote(title) +
		" subtitle " + appleQuote(AppName)
}
