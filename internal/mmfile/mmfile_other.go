//go:build !unix

package mmfile

import (
	"fmt"
	"io"
	"os"
)

// Map reads the first size bytes of f into memory when mmap is not available.
// Writes become visible in the file on Flush, FlushRange or Unmap.
func Map(f *os.File, size int) (*Mapping, error) {
	if size < 0 {
		return nil, fmt.Errorf("mmfile: negative mapping size %d", size)
	}
	data := make([]byte, size)
	if size > 0 {
		if _, err := io.ReadFull(io.NewSectionReader(f, 0, int64(size)), data); err != nil {
			return nil, err
		}
	}
	return &Mapping{f: f, data: data}, nil
}

// Unmap writes the buffer back and releases it.
func (m *Mapping) Unmap() error {
	if m == nil || m.f == nil {
		return nil
	}
	err := m.Flush()
	m.data = nil
	m.f = nil
	return err
}

// FlushRange writes the bytes [off, off+n) back to the file.
func (m *Mapping) FlushRange(off, n int) error {
	start, end, err := m.clampRange(off, n)
	if err != nil || start == end {
		return err
	}
	_, err = m.f.WriteAt(m.data[start:end], int64(start))
	return err
}

// SyncFile flushes file data to stable storage.
func (m *Mapping) SyncFile(_ bool) error {
	if m == nil || m.f == nil {
		return ErrUnmapped
	}
	return m.f.Sync()
}
