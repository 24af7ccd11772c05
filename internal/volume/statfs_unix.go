//go:build linux || darwin || freebsd

package volume

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// UnixStatFS reads block metadata with statfs(2).
type UnixStatFS struct{}

// Stat returns the block size and the available and total block counts of
// the filesystem holding path. Bavail is used, not Bfree, so root-reserved
// blocks are not reported as available.
func (UnixStatFS) Stat(path string) (Usage, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Usage{}, fmt.Errorf("statfs %s: %w", path, err)
	}
	return Usage{
		BlockSize:       uint64(st.Bsize), //nolint:gosec // kernel never reports a negative block size
		AvailableBlocks: uint64(st.Bavail),
		TotalBlocks:     uint64(st.Blocks),
	}, nil
}
