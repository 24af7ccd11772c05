//go:build !linux && !darwin && !freebsd

package platform

import "runtime"

// uname reports only the OS name where uname(2) is unavailable.
func uname() (string, string, error) {
	return runtime.GOOS, "", nil
}
