//go:build unix && !linux && !darwin

package mmfile

import "golang.org/x/sys/unix"

const msyncWhole = false

func fdatasync(fd int, _ bool) error {
	return unix.Fsync(fd)
}
