package asyncmem

import (
	"context"
	"encoding/binary"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/linksplatform/mem/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_FileMem_CreateAndGrow(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "test.bin")

	m, err := Create[uint64](ctx, path)
	require.NoError(t, err)
	defer m.Close()

	require.True(t, m.IsEmpty())
	require.False(t, m.IsDirty())

	_, err = m.GrowFilled(ctx, 10, 42)
	require.NoError(t, err)
	require.Equal(t, 10, m.Len())
	v, ok := m.Get(0)
	require.True(t, ok)
	require.Equal(t, uint64(42), v)
	require.True(t, m.IsDirty())

	require.NoError(t, m.Sync(ctx))
	require.False(t, m.IsDirty())
	require.True(t, m.Persisted())

	st, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, int64(80), st.Size())
}

func Test_FileMem_Persistence(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "persist.bin")

	m, err := Create[uint64](ctx, path)
	require.NoError(t, err)
	_, err = m.GrowFilled(ctx, 5, 123)
	require.NoError(t, err)
	require.True(t, m.Set(2, 456))
	require.NoError(t, m.Flush(ctx))
	require.NoError(t, m.Close())

	m, err = Open[uint64](ctx, path)
	require.NoError(t, err)
	defer m.Close()

	require.Equal(t, []uint64{123, 123, 456, 123, 123}, m.Slice())
	require.False(t, m.IsDirty())
}

func Test_FileMem_ReadsFileMappedFormat(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "shared.bin")

	fm, err := mem.FileMappedFromPath[uint32](path)
	require.NoError(t, err)
	_, err = mem.GrowFromSlice[uint32](fm, []uint32{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, fm.Close())

	// FileMapped keeps at least a page; the tail reads as zeros.
	m, err := Open[uint32](ctx, path)
	require.NoError(t, err)
	defer m.Close()
	require.Equal(t, mem.DefaultPageSize/4, m.Len())
	require.Equal(t, []uint32{1, 2, 3, 0}, m.Slice()[:4])
}

func Test_FileMem_Open_IgnoresTrailingBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd.bin")
	raw := binary.NativeEndian.AppendUint32(nil, 0xDEADBEEF)
	raw = append(raw, 1, 2, 3)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	m, err := Open[uint32](t.Context(), path)
	require.NoError(t, err)
	defer m.Close()
	require.Equal(t, []uint32{0xDEADBEEF}, m.Slice())
}

func Test_FileMem_Open_Missing(t *testing.T) {
	_, err := Open[uint64](t.Context(), filepath.Join(t.TempDir(), "missing.bin"))
	require.ErrorIs(t, err, fs.ErrNotExist)

	var sysErr *mem.SystemError
	require.ErrorAs(t, err, &sysErr)
	require.Equal(t, "open", sysErr.Op)
}

func Test_FileMem_Temp(t *testing.T) {
	ctx := t.Context()
	m, err := Temp[uint32](ctx)
	require.NoError(t, err)

	path, ok := m.Path()
	require.True(t, ok)
	require.Equal(t, filepath.Clean(os.TempDir()), filepath.Dir(path))
	require.FileExists(t, path)

	other, err := Temp[uint32](ctx)
	require.NoError(t, err)
	otherPath, _ := other.Path()
	require.NotEqual(t, path, otherPath)
	require.NoError(t, other.Close())

	_, err = m.GrowFilled(ctx, 100, 0)
	require.NoError(t, err)
	require.Equal(t, 100, m.Len())
	require.NoError(t, m.Sync(ctx))

	require.NoError(t, m.Close())
	require.NoFileExists(t, path)
}

func Test_FileMem_Shrink(t *testing.T) {
	ctx := t.Context()
	m := New[uint64]()

	_, err := m.GrowFilled(ctx, 20, 1)
	require.NoError(t, err)
	require.NoError(t, m.Shrink(ctx, 5))
	require.Equal(t, 15, m.Len())

	require.ErrorIs(t, m.Shrink(ctx, 16), mem.ErrCapacityOverflow)
	require.ErrorIs(t, m.Shrink(ctx, -1), mem.ErrCapacityOverflow)
	require.Equal(t, 15, m.Len())
}

// handle is a plain element that counts its drops in handleDrops.
type handle uint32

var handleDrops int

func (handle) Drop() { handleDrops++ }

func Test_FileMem_Drop_OnShrinkAndClose(t *testing.T) {
	ctx := t.Context()
	handleDrops = 0
	m := New[handle]()

	calls := 0
	require.Panics(t, func() {
		_, _ = m.GrowWith(ctx, 3, func() handle {
			calls++
			if calls > 1 {
				panic("factory failed")
			}
			return 1
		})
	})
	require.Equal(t, 1, handleDrops, "initialized prefix is dropped on rollback")
	require.Zero(t, m.Len())
	handleDrops = 0

	_, err := m.GrowFilled(ctx, 5, 7)
	require.NoError(t, err)
	require.NoError(t, m.Shrink(ctx, 2))
	require.Equal(t, 2, handleDrops)

	require.NoError(t, m.Close())
	require.Equal(t, 5, handleDrops)
}

func Test_FileMem_Open_ReadOnlyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ro.bin")
	require.NoError(t, os.WriteFile(path, binary.NativeEndian.AppendUint64(nil, 11), 0o444))

	m, err := Open[uint64](t.Context(), path)
	require.NoError(t, err)
	defer m.Close()
	require.Equal(t, []uint64{11}, m.Slice())
}

func Test_FileMem_GrowVariants(t *testing.T) {
	ctx := t.Context()
	m := New[int64]()

	_, err := m.Grow(ctx, 2)
	require.NoError(t, err)
	_, err = m.GrowZeroed(ctx, 1)
	require.NoError(t, err)

	next := int64(0)
	_, err = m.GrowWith(ctx, 2, func() int64 {
		next += 5
		return next
	})
	require.NoError(t, err)

	tail, err := m.GrowFromSlice(ctx, []int64{-1, -2})
	require.NoError(t, err)
	require.Equal(t, []int64{-1, -2}, tail)

	require.Equal(t, []int64{0, 0, 0, 5, 10, -1, -2}, m.Slice())
}

func Test_FileMem_Grow_Overflow(t *testing.T) {
	ctx := t.Context()
	m := New[uint64]()

	_, err := m.GrowFilled(ctx, math.MaxInt, 0)
	require.ErrorIs(t, err, mem.ErrCapacityOverflow)
	_, err = m.Grow(ctx, -1)
	require.ErrorIs(t, err, mem.ErrCapacityOverflow)
	require.True(t, m.IsEmpty())
	require.False(t, m.IsDirty())
}

func Test_FileMem_Grow_PanicRollsBack(t *testing.T) {
	ctx := t.Context()
	m := New[uint64]()
	_, err := m.GrowFilled(ctx, 3, 1)
	require.NoError(t, err)

	require.Panics(t, func() {
		_, _ = m.GrowWith(ctx, 10, func() uint64 { panic("factory failed") })
	})
	require.Equal(t, []uint64{1, 1, 1}, m.Slice())
}

func Test_FileMem_SetGet_OutOfRange(t *testing.T) {
	m := New[uint16]()
	_, err := m.GrowFilled(t.Context(), 2, 9)
	require.NoError(t, err)
	require.NoError(t, m.Flush(t.Context()))

	assert.False(t, m.Set(2, 1))
	assert.False(t, m.Set(-1, 1))
	assert.False(t, m.IsDirty(), "a rejected Set changes nothing")

	_, ok := m.Get(2)
	assert.False(t, ok)
	_, ok = m.Get(-1)
	assert.False(t, ok)
}

func Test_FileMem_DirtyTracking(t *testing.T) {
	ctx := t.Context()
	m, err := Create[uint64](ctx, filepath.Join(t.TempDir(), "dirty.bin"))
	require.NoError(t, err)
	defer m.Close()

	mutations := []struct {
		name string
		fn   func()
	}{
		{"grow", func() { _, _ = m.Grow(ctx, 4) }},
		{"set", func() { m.Set(0, 1) }},
		{"slice mut", func() { m.SliceMut()[1] = 2 }},
		{"shrink", func() { _ = m.Shrink(ctx, 1) }},
	}
	for _, mu := range mutations {
		mu.fn()
		require.True(t, m.IsDirty(), mu.name)
		require.False(t, m.Persisted(), mu.name)
		require.NoError(t, m.Sync(ctx), mu.name)
		require.False(t, m.IsDirty(), mu.name)
	}
	require.Equal(t, []uint64{1, 2, 0}, m.Slice())
}

func Test_FileMem_CloseDoesNotWrite(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "unsynced.bin")

	m, err := Create[uint64](ctx, path)
	require.NoError(t, err)
	_, err = m.GrowFilled(ctx, 8, 1)
	require.NoError(t, err)
	require.NoError(t, m.Close())

	st, err := os.Stat(path)
	require.NoError(t, err)
	require.Zero(t, st.Size())
}

func Test_FileMem_NoPath(t *testing.T) {
	m := New[uint64]()
	_, ok := m.Path()
	require.False(t, ok)

	_, err := m.Grow(t.Context(), 1)
	require.NoError(t, err)
	require.NoError(t, m.Sync(t.Context()))
	require.False(t, m.IsDirty())
	require.False(t, m.Persisted())
}

func Test_FileMem_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	path := filepath.Join(t.TempDir(), "cancel.bin")

	_, err := Create[uint64](ctx, path)
	require.ErrorIs(t, err, context.Canceled)
	require.NoFileExists(t, path)

	m, err := Create[uint64](t.Context(), path)
	require.NoError(t, err)
	defer m.Close()
	_, err = m.Grow(t.Context(), 2)
	require.NoError(t, err)

	require.ErrorIs(t, m.Sync(ctx), context.Canceled)
	require.True(t, m.IsDirty())
	_, err = m.Grow(ctx, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func Test_FileMem_RequiresPlainType(t *testing.T) {
	require.Panics(t, func() { New[[]byte]() })
	require.Panics(t, func() { _, _ = Temp[*int](t.Context()) })
}
