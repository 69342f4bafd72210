//go:build !linux && !darwin && !windows

package platform

import (
	"errors"
	"runtime"
)

// Notify reports that this platform has no notification centre. Callers
// stop sending after the first ErrUnsupported.
func Notify(title, body string, opts Options) error {
	return errors.Join(errors.ErrUnsupported, errors.New("notifications on "+runtime.GOOS))
}
