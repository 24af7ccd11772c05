//go:build linux || darwin || freebsd || netbsd || openbsd

package capability

import "golang.org/x/sys/unix"

const accessReadWrite = unix.R_OK | unix.W_OK

func checkAccess(path string, mode uint32) error {
	return unix.Access(path, mode)
}
