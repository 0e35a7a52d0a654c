//go:build linux

package mem

import "golang.org/x/sys/unix"

// remap resizes an anonymous mapping, letting the kernel move it.
func remap(old []byte, size int) ([]byte, error) {
	return unix.Mremap(old, size, unix.MREMAP_MAYMOVE)
}
