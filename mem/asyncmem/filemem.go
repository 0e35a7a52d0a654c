package asyncmem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"

	"github.com/linksplatform/mem/internal/buf"
	"github.com/linksplatform/mem/internal/logger"
	"github.com/linksplatform/mem/mem"
)

// tempSeq makes temp paths unique within the process.
var tempSeq atomic.Uint64

// FileMem is a growable array of plain values mirrored to a file on demand.
//
// Every mutation marks the block dirty; Sync and Flush write the whole buffer
// back and clear the flag. NOT thread-safe.
type FileMem[T any] struct {
	buf       []T
	path      string // empty: never persisted
	temp      bool
	dirty     bool
	persisted bool
}

// New returns an empty block with no backing file.
func New[T any]() *FileMem[T] {
	mem.MustBePlain[T]("asyncmem.FileMem")
	return &FileMem[T]{}
}

// Create creates path, truncating it if it exists, and returns an empty block
// that persists to it.
func Create[T any](ctx context.Context, path string) (*FileMem[T], error) {
	mem.MustBePlain[T]("asyncmem.FileMem")
	if err := createFile(ctx, path); err != nil {
		return nil, err
	}
	return &FileMem[T]{path: path, persisted: true}, nil
}

// Open loads the whole file at path. Its bytes are reinterpreted as a packed
// array of T in native byte order; a trailing partial element is ignored.
func Open[T any](ctx context.Context, path string) (*FileMem[T], error) {
	mem.MustBePlain[T]("asyncmem.FileMem")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, mem.WrapSystem("open", err)
	}
	defer f.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		return nil, mem.WrapSystem("stat", err)
	}

	count, trailing := buf.Elements(st.Size(), mem.SizeOf[T]())
	data := make([]T, count)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(f, mem.BytesOf(data)); err != nil {
		return nil, mem.WrapSystem("read", err)
	}

	logger.L.Debug("loaded async memory", "path", path, "elements", count, "trailing_bytes", trailing)
	return &FileMem[T]{buf: data, path: path, persisted: true}, nil
}

// Temp creates an empty block backed by a fresh file in the system temp
// directory. The file is removed on Close.
func Temp[T any](ctx context.Context) (*FileMem[T], error) {
	mem.MustBePlain[T]("asyncmem.FileMem")
	name := fmt.Sprintf("mem_async_%d_%d.tmp", os.Getpid(), tempSeq.Add(1))
	path := filepath.Join(os.TempDir(), name)
	if err := createFile(ctx, path); err != nil {
		return nil, err
	}
	return &FileMem[T]{path: path, temp: true, persisted: true}, nil
}

func createFile(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return mem.WrapSystem("create", err)
	}
	return mem.WrapSystem("close", f.Close())
}

// Len returns the number of elements.
func (m *FileMem[T]) Len() int { return len(m.buf) }

// IsEmpty reports whether the block holds no elements.
func (m *FileMem[T]) IsEmpty() bool { return len(m.buf) == 0 }

// Slice returns the elements. It must be treated as read-only; use SliceMut
// or Set to modify them.
func (m *FileMem[T]) Slice() []T { return m.buf }

// SliceMut returns the elements for modification and marks the block dirty.
func (m *FileMem[T]) SliceMut() []T {
	m.touch()
	return m.buf
}

// Get returns the element at i, or false if there is none.
func (m *FileMem[T]) Get(i int) (T, bool) {
	if i < 0 || i >= len(m.buf) {
		var zero T
		return zero, false
	}
	return m.buf[i], true
}

// Set stores v at i. It returns false, changing nothing, if there is no
// element at i.
func (m *FileMem[T]) Set(i int, v T) bool {
	if i < 0 || i >= len(m.buf) {
		return false
	}
	m.buf[i] = v
	m.touch()
	return true
}

// Path returns the file the block persists to.
func (m *FileMem[T]) Path() (string, bool) { return m.path, m.path != "" }

// IsDirty reports whether the buffer has changes not yet written by Sync or
// Flush.
func (m *FileMem[T]) IsDirty() bool { return m.dirty }

// Persisted reports whether the file held the buffer's content as of the
// last load, Sync or Flush with no mutation since. It is a diagnostic: the
// file may have been changed by someone else.
func (m *FileMem[T]) Persisted() bool { return m.persisted }

// Grow appends addition zero values.
func (m *FileMem[T]) Grow(ctx context.Context, addition int) ([]T, error) {
	return m.grow(ctx, addition, mem.Zeroed[T]())
}

// GrowFilled appends addition copies of value.
func (m *FileMem[T]) GrowFilled(ctx context.Context, addition int, value T) ([]T, error) {
	return m.grow(ctx, addition, mem.Filled(value))
}

// GrowWith appends addition values returned by factory.
func (m *FileMem[T]) GrowWith(ctx context.Context, addition int, factory func() T) ([]T, error) {
	return m.grow(ctx, addition, mem.With(factory))
}

// GrowZeroed appends addition zero values.
func (m *FileMem[T]) GrowZeroed(ctx context.Context, addition int) ([]T, error) {
	return m.grow(ctx, addition, mem.Zeroed[T]())
}

// GrowFromSlice appends a copy of src.
func (m *FileMem[T]) GrowFromSlice(ctx context.Context, src []T) ([]T, error) {
	return m.grow(ctx, len(src), mem.FromSlice(src))
}

func (m *FileMem[T]) grow(ctx context.Context, addition int, fill func(*mem.Uninit[T])) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if addition < 0 {
		return nil, mem.ErrCapacityOverflow
	}
	oldLen := len(m.buf)
	newLen, ok := buf.AddOverflowSafe(oldLen, addition)
	if !ok {
		return nil, mem.ErrCapacityOverflow
	}
	layout, err := mem.ArrayLayout[T](newLen)
	if err != nil {
		return nil, err
	}

	grown, err := growBuffer(m.buf, addition)
	if err != nil {
		return nil, &mem.AllocError{Layout: layout, Err: err}
	}

	tail := grown[oldLen:newLen:newLen]
	mem.Initialize(tail, fill)
	m.buf = grown[:newLen]
	m.touch()
	return tail, nil
}

// growBuffer reserves room for n more elements, turning a failed allocation
// into an error.
func growBuffer[T any](s []T, n int) (grown []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("asyncmem: grow buffer: %v", r)
		}
	}()
	return slices.Grow(s, n), nil
}

// Shrink destroys the last count elements.
func (m *FileMem[T]) Shrink(ctx context.Context, count int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if count < 0 || count > len(m.buf) {
		return mem.ErrCapacityOverflow
	}
	mem.Drop(m.buf[len(m.buf)-count:])
	m.buf = m.buf[:len(m.buf)-count]
	m.touch()
	return nil
}

// Sync overwrites the file with the buffer and waits for the data to reach
// stable storage. A block without a file only clears its dirty flag.
func (m *FileMem[T]) Sync(ctx context.Context) error {
	return m.write(ctx, true)
}

// Flush overwrites the file with the buffer without waiting for stable
// storage.
func (m *FileMem[T]) Flush(ctx context.Context) error {
	return m.write(ctx, false)
}

func (m *FileMem[T]) write(ctx context.Context, durable bool) error {
	if m.path == "" {
		m.dirty = false
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.OpenFile(m.path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return mem.WrapSystem("open", err)
	}
	defer f.Close()

	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := f.Write(mem.BytesOf(m.buf)); err != nil {
		return mem.WrapSystem("write", err)
	}

	if durable {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.Sync(); err != nil {
			return mem.WrapSystem("sync", err)
		}
	}
	if err := f.Close(); err != nil {
		return mem.WrapSystem("close", err)
	}

	m.dirty = false
	m.persisted = true
	logger.L.Debug("wrote async memory", "path", m.path, "elements", len(m.buf), "durable", durable)
	return nil
}

// Close destroys the elements, releases the buffer and removes a temp file. It never writes: a
// block closed with unsynced changes loses them.
func (m *FileMem[T]) Close() error {
	if m.dirty && m.path != "" {
		logger.L.Warn("closing async memory with unsynced changes", "path", m.path, "elements", len(m.buf))
	}

	mem.Drop(m.buf)

	var err error
	if m.temp {
		if rmErr := os.Remove(m.path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			err = mem.WrapSystem("remove", rmErr)
		}
	}
	*m = FileMem[T]{}
	return err
}

func (m *FileMem[T]) String() string {
	return fmt.Sprintf("FileMem{len: %d, path: %q, dirty: %t}", len(m.buf), m.path, m.dirty)
}

func (m *FileMem[T]) touch() {
	m.dirty = true
	m.persisted = false
}
