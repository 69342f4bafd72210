//go:build (linux || freebsd || openbsd || netbsd || dragonfly || darwin || windows) && cgo

package clipboard

import (
	"fmt"

	"golang.design/x/clipboard"
)

type nativeClipboard struct{}

func open() (backend, error) {
	if err := clipboard.Init(); err != nil {
		return nil, fmt.Errorf("clipboard init: %w", err)
	}
	return nativeClipboard{}, nil
}

func (nativeClipboard) target(f format) clipboard.Format {
	if f == formatPNG {
		return clipboard.FmtImage
	}
	return clipboard.FmtText
}

func (c nativeClipboard) write(f format, data []byte) error {
	clipboard.Write(c.target(f), data)
	return nil
}

func (c nativeClipboard) read(f format) ([]byte, error) {
	return clipboard.Read(c.target(f)), nil
}
