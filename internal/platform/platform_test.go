package platform

import "testing"

func TestAppleScriptQuoting(t *testing.T) {
	got := appleScript(`Day "1"`, "saved C:\\wounds\nleg.json")
	want := `display notification "saved C:\\wounds leg.json" with title "Day \"1\"" subtitle "WoundMark"`
	if got != want {
		t.Fatalf("script = %s\nwant     %s", got, want)
	}
}
