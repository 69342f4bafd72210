package main

import (
	"embed"
	"flag"
	"fmt"
	"log"
	"strings"
	"sync"
	"text/template"
)

// helpFS holds one help template per command, named by HelpData.Template.
//
//go:embed templates/*.txt
var helpFS embed.FS

var helpTemplates = sync.OnceValue(func() *template.Template {
	return template.Must(template.New("help").
		Funcs(template.FuncMap{"flags": flagsOf}).
		ParseFS(helpFS, "templates/*.txt"))
})

type flagInfo struct {
	Name     string
	DefValue string
	Usage    string
}

func flagsOf(fs *flag.FlagSet) []flagInfo {
	var out []flagInfo
	if fs != nil {
		fs.VisitAll(func(f *flag.Flag) {
			out = append(out, flagInfo{f.Name, f.DefValue, f.Usage})
		})
	}
	return out
}

// HelpData is implemented by every command that can print its usage.
type HelpData interface {
	Program() string
	Template() string
	FlagSet() *flag.FlagSet
}

// UsageError reports a command line that cannot run. Its message is the
// reason, when there is one, followed by the command's help.
type UsageError struct {
	of     HelpData
	reason string
}

func usageError(of HelpData, format string, args ...any) *UsageError {
	return &UsageError{of: of, reason: fmt.Sprintf(format, args...)}
}

func (e *UsageError) Error() string {
	var b strings.Builder
	if e.reason != "" {
		b.WriteString(e.reason + "\n\n")
	}
	if err := helpTemplates().ExecuteTemplate(&b, e.of.Template(), e.of); err != nil {
		log.Printf("help %s: %v", e.of.Template(), err)
		if e.reason != "" {
			return e.reason
		}
		return err.Error()
	}
	return b.String()
}

// usageFunc prints the help of h to its flag set's output, for -h.
func usageFunc(h HelpData) func() {
	return func() {
		fmt.Fprint(h.FlagSet().Output(), (&UsageError{of: h}).Error())
	}
}
