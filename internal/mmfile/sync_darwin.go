//go:build darwin

package mmfile

import "golang.org/x/sys/unix"

// msync on macOS must be given the original mmap address.
const msyncWhole = true

// fdatasync uses F_FULLFSYNC when full is set so data leaves the drive cache.
// macOS has no fdatasync, so fsync is used otherwise.
func fdatasync(fd int, full bool) error {
	if full {
		_, err := unix.FcntlInt(uintptr(fd), unix.F_FULLFSYNC, 0)
		return err
	}
	return unix.Fsync(fd)
}
