// Package mmfile provides platform-specific read-write mappings of files.
//
// On unix the file is mapped with MAP_SHARED so writes through Bytes reach the
// page cache directly. Elsewhere the mapped range is read into a buffer and
// written back on Flush, FlushRange and Unmap.
package mmfile

import (
	"errors"
	"fmt"
	"os"
)

// ErrUnmapped is returned by operations on a mapping that was already unmapped.
var ErrUnmapped = errors.New("mmfile: mapping is unmapped")

// Mapping is a read-write view of the first Len() bytes of a file.
//
// NOT thread-safe. The mapping must be unmapped before the file is resized.
type Mapping struct {
	f    *os.File
	data []byte
}

// Bytes returns the mapped bytes. The slice is invalid after Unmap.
func (m *Mapping) Bytes() []byte {
	if m == nil {
		return nil
	}
	return m.data
}

// Len returns the number of mapped bytes.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.data)
}

// Flush writes the whole mapping back to the file.
func (m *Mapping) Flush() error {
	return m.FlushRange(0, m.Len())
}

// clampRange bounds [off, off+n) to the mapping.
func (m *Mapping) clampRange(off, n int) (int, int, error) {
	if m == nil || m.f == nil {
		return 0, 0, ErrUnmapped
	}
	if off < 0 || n < 0 {
		return 0, 0, fmt.Errorf("mmfile: invalid range off=%d len=%d", off, n)
	}
	if off >= len(m.data) {
		return 0, 0, nil
	}
	end := off + n
	if end > len(m.data) || end < off {
		end = len(m.data)
	}
	return off, end, nil
}
