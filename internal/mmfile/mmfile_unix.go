//go:build unix

package mmfile

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Map maps the first size bytes of f read-write and shared.
// The file must already be at least size bytes long.
func Map(f *os.File, size int) (*Mapping, error) {
	if size < 0 {
		return nil, fmt.Errorf("mmfile: negative mapping size %d", size)
	}
	if size == 0 {
		return &Mapping{f: f}, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return &Mapping{f: f, data: data}, nil
}

// Unmap releases the mapping. Dirty pages stay in the page cache and reach
// the file even without a prior flush.
func (m *Mapping) Unmap() error {
	if m == nil || m.f == nil {
		return nil
	}
	data := m.data
	m.data = nil
	m.f = nil
	if data == nil {
		return nil
	}
	err := unix.Munmap(data)
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		return nil
	}
	return err
}

// FlushRange msyncs the bytes [off, off+n) of the mapping.
func (m *Mapping) FlushRange(off, n int) error {
	start, end, err := m.clampRange(off, n)
	if err != nil || start == end {
		return err
	}
	if msyncWhole {
		// msync needs the address returned by mmap here; the kernel only
		// writes back dirty pages anyway.
		return unix.Msync(m.data, unix.MS_SYNC)
	}
	page := os.Getpagesize()
	start = (start / page) * page
	return unix.Msync(m.data[start:end], unix.MS_SYNC)
}

// SyncFile flushes file data to stable storage. full requests the strongest
// guarantee the platform offers.
func (m *Mapping) SyncFile(full bool) error {
	if m == nil || m.f == nil {
		return ErrUnmapped
	}
	return fdatasync(int(m.f.Fd()), full)
}
