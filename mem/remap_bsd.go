//go:build unix && !linux

package mem

import "golang.org/x/sys/unix"

// remap resizes an anonymous mapping by mapping a new region, copying the
// common prefix and unmapping the old one.
func remap(old []byte, size int) ([]byte, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	copy(data, old)
	if err := unix.Munmap(old); err != nil {
		_ = unix.Munmap(data)
		return nil, err
	}
	return data, nil
}
