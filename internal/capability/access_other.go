//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package capability

import "errors"

const accessReadWrite = 0

var errAccessUnsupported = errors.New("access check not supported on this platform")

func checkAccess(string, uint32) error {
	return errAccessUnsupported
}
