//go:build !linux && !darwin && !freebsd

package volume

// UnixStatFS is unavailable on this platform.
type UnixStatFS struct{}

// Stat always returns ErrUnsupported.
func (UnixStatFS) Stat(string) (Usage, error) {
	return Usage{}, ErrUnsupported
}
