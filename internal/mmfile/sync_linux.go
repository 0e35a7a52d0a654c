//go:build linux

package mmfile

import "golang.org/x/sys/unix"

const msyncWhole = false

// fdatasync ignores full; fdatasync() already reaches the device on Linux.
func fdatasync(fd int, _ bool) error {
	return unix.Fdatasync(fd)
}
