//go:build !(linux || freebsd || openbsd || netbsd || dragonfly) && !((darwin || windows) && cgo)

package clipboard

import "errors"

func open() (backend, error) {
	return nil, errors.New("clipboard is not supported on this platform")
}
