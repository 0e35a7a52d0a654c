package mem

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/linksplatform/mem/internal/logger"
	"github.com/linksplatform/mem/internal/mmfile"
	"github.com/linksplatform/mem/mem/dirty"
)

// FileMapped is a RawMem stored in a memory-mapped file. The file length
// follows the capacity: growing extends the file (new bytes read as zero) and
// shrinking truncates it. The file holds a packed array of T with no header.
//
// A live mapping cannot be resized, so every capacity change unmaps first,
// resizes the file and maps it again. Slices returned earlier are invalid
// after any Grow, Shrink or Close.
//
// T must be pointer-free.
type FileMapped[T any] struct {
	place   place[T]
	file    *os.File
	mapping *mmfile.Mapping // nil while unmapped
	dirty   *dirty.Tracker
}

// NewFileMapped takes ownership of f, which must be open for reading and
// writing. The file is extended to at least DefaultPageSize bytes; nothing is
// mapped until the first Grow.
func NewFileMapped[T any](f *os.File) (*FileMapped[T], error) {
	MustBePlain[T]("FileMapped")

	st, err := f.Stat()
	if err != nil {
		return nil, systemError("stat", err)
	}
	if st.Size() < DefaultPageSize {
		if err := f.Truncate(DefaultPageSize); err != nil {
			return nil, systemError("truncate", err)
		}
	}
	return &FileMapped[T]{file: f, dirty: dirty.NewTracker()}, nil
}

// FileMappedFromPath opens path read-write, creating it if absent.
func FileMappedFromPath[T any](path string) (*FileMapped[T], error) {
	MustBePlain[T]("FileMapped")

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, systemError("open", err)
	}
	m, err := NewFileMapped[T](f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return m, nil
}

// File returns the backing file.
func (m *FileMapped[T]) File() *os.File { return m.file }

// Mapped reports whether a mapping is currently live.
func (m *FileMapped[T]) Mapped() bool { return m.mapping != nil }

func (m *FileMapped[T]) Allocated() []T { return m.place.allocated() }

func (m *FileMapped[T]) AllocatedMut() []T { return m.place.allocated() }

func (m *FileMapped[T]) SizeHint() (int, bool) { return 0, false }

// Grow extends the file when it is shorter than the new capacity, remaps it
// and initializes the new elements in place.
func (m *FileMapped[T]) Grow(addition int, fill func(*Uninit[T])) ([]T, error) {
	if m.file == nil {
		return nil, systemError("grow", os.ErrClosed)
	}
	newCap, layout, err := m.place.target(addition)
	if err != nil {
		return nil, err
	}

	if newCap > m.place.reserved() {
		if err := m.remapTo(int(layout.Size), newCap, false); err != nil {
			return nil, err
		}
	}

	oldCap := m.place.n
	tail := m.place.publish(m.place.slots, newCap, fill)
	m.MarkDirty(oldCap, addition)
	return tail, nil
}

// Shrink destroys the last count elements while still mapped, then truncates
// the file and maps the smaller length.
func (m *FileMapped[T]) Shrink(count int) error {
	if m.file == nil {
		return systemError("shrink", os.ErrClosed)
	}
	newCap, err := m.place.shrinkTarget(count)
	if err != nil || count == 0 {
		return err
	}

	m.place.narrow(newCap)

	layout, err := ArrayLayout[T](newCap)
	if err != nil {
		return err
	}
	return m.remapTo(int(layout.Size), newCap, true)
}

// MarkDirty records that the elements [i, i+n) were modified so the next
// Flush writes them back.
func (m *FileMapped[T]) MarkDirty(i, n int) {
	size := SizeOf[T]()
	m.dirty.Add(i*size, n*size)
}

// Flush writes back the dirty elements and syncs the file as mode requires.
func (m *FileMapped[T]) Flush(ctx context.Context, mode dirty.FlushMode) error {
	if m.file == nil {
		return systemError("flush", os.ErrClosed)
	}
	if m.mapping == nil {
		m.dirty.Reset()
		if mode == dirty.FlushDataOnly {
			return nil
		}
		return systemError("sync", m.file.Sync())
	}
	if err := m.dirty.Flush(ctx, m.mapping, mode); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return systemError("flush", err)
	}
	return nil
}

// Close destroys all elements, unmaps the file and syncs it. A failed sync
// is logged, not returned: the data already reached the page cache.
func (m *FileMapped[T]) Close() error {
	if m.file == nil {
		return nil
	}

	m.place.narrow(0)
	m.place.slots = nil
	unmapErr := m.unmap()

	if err := m.file.Sync(); err != nil {
		logger.L.Warn("sync on close", "file", m.file.Name(), "error", err)
	}
	closeErr := m.file.Close()
	m.file = nil

	return errors.Join(systemError("munmap", unmapErr), systemError("close", closeErr))
}

func (m *FileMapped[T]) String() string {
	name := "<closed>"
	if m.file != nil {
		name = m.file.Name()
	}
	return fmt.Sprintf("FileMapped{file: %s, len: %d, mapped: %d bytes}", name, m.place.n, m.mapping.Len())
}

// remapTo moves the ledger to a mapping of size bytes holding reserved
// elements: Mapped → Unmapped → resize → Mapped. On failure the previous
// mapping is restored and the error returned.
func (m *FileMapped[T]) remapTo(size, reserved int, shrinking bool) error {
	oldSize, oldReserved := m.mapping.Len(), m.place.reserved()

	if err := m.unmap(); err != nil {
		return systemError("munmap", err)
	}

	if err := m.resize(size, shrinking); err != nil {
		m.restore(oldSize, oldReserved)
		return err
	}

	data, err := m.mapBytes(size)
	if err != nil {
		m.restore(oldSize, oldReserved)
		return systemError("mmap", err)
	}

	m.place.slots = sliceOf[T](data, reserved)
	logger.L.Debug("remapped file", "file", m.file.Name(), "bytes", size, "elements", reserved)
	return nil
}

// resize sets the file length to size bytes. Growing never truncates a
// file that is already long enough.
func (m *FileMapped[T]) resize(size int, shrinking bool) error {
	st, err := m.file.Stat()
	if err != nil {
		return systemError("stat", err)
	}
	if !shrinking && st.Size() >= int64(size) {
		return nil
	}
	if err := m.file.Truncate(int64(size)); err != nil {
		return systemError("truncate", err)
	}
	return nil
}

// restore maps the previous size again after a failed resize. If that fails
// too the block is reset to empty; the elements are still in the file.
func (m *FileMapped[T]) restore(size, reserved int) {
	if st, err := m.file.Stat(); err == nil && st.Size() < int64(size) {
		_ = m.file.Truncate(int64(size))
	}
	data, err := m.mapBytes(size)
	if err != nil {
		logger.L.Warn("recovery remap failed", "file", m.file.Name(), "bytes", size, "error", err)
		m.place = place[T]{}
		return
	}
	m.place.slots = sliceOf[T](data, reserved)
}

func (m *FileMapped[T]) mapBytes(size int) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	mapping, err := mmfile.Map(m.file, size)
	if err != nil {
		return nil, err
	}
	m.mapping = mapping
	return mapping.Bytes(), nil
}

func (m *FileMapped[T]) unmap() error {
	if m.mapping == nil {
		return nil
	}
	if err := m.mapping.Unmap(); err != nil {
		return err
	}
	m.mapping = nil
	return nil
}
