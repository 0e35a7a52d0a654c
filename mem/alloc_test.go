package mem

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

var errRefused = errors.New("allocator refused")

// limitAllocator serves blocks from the Go heap up to max elements and
// counts deallocations.
type limitAllocator struct {
	GoAllocator[uint64]
	max         int
	deallocated int
}

func (a *limitAllocator) Allocate(n int) ([]uint64, error) {
	if n > a.max {
		return nil, errRefused
	}
	return a.GoAllocator.Allocate(n)
}

func (a *limitAllocator) Grow(block []uint64, n int) ([]uint64, error) {
	if n > a.max {
		return nil, errRefused
	}
	return a.GoAllocator.Grow(block, n)
}

func (a *limitAllocator) Shrink(block []uint64, n int) ([]uint64, error) {
	if n == 1 {
		return nil, errRefused
	}
	return a.GoAllocator.Shrink(block, n)
}

func (a *limitAllocator) Deallocate([]uint64) { a.deallocated++ }

func Test_Alloc_AllocateRefused(t *testing.T) {
	m := NewAlloc[uint64](&limitAllocator{max: 8})

	_, err := GrowZeroed[uint64](m, 9)
	require.ErrorIs(t, err, errRefused)

	var allocErr *AllocError
	require.ErrorAs(t, err, &allocErr)
	require.Equal(t, Layout{Size: 72, Align: 8}, allocErr.Layout)
	require.Empty(t, m.Allocated())
}

func Test_Alloc_GrowRefused_KeepsElements(t *testing.T) {
	m := NewAlloc[uint64](&limitAllocator{max: 8})

	_, err := GrowFilled[uint64](m, 6, 3)
	require.NoError(t, err)

	_, err = GrowFilled[uint64](m, 3, 4)
	var allocErr *AllocError
	require.ErrorAs(t, err, &allocErr)
	require.Equal(t, uintptr(72), allocErr.Layout.Size)
	require.Equal(t, []uint64{3, 3, 3, 3, 3, 3}, m.Allocated())
}

func Test_Alloc_ShrinkRefused_ReducesCapacity(t *testing.T) {
	m := NewAlloc[uint64](&limitAllocator{max: 8})
	_, err := GrowFilled[uint64](m, 4, 1)
	require.NoError(t, err)

	err = m.Shrink(3)
	var allocErr *AllocError
	require.ErrorAs(t, err, &allocErr)
	require.Len(t, m.Allocated(), 1)

	// The larger block is still reserved and reused.
	_, err = GrowFilled[uint64](m, 3, 2)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2, 2, 2}, m.Allocated())
}

func Test_Alloc_DeallocatesOnEmpty(t *testing.T) {
	a := &limitAllocator{max: 8}
	m := NewAlloc[uint64](a)

	_, err := GrowZeroed[uint64](m, 4)
	require.NoError(t, err)
	require.NoError(t, m.Shrink(4))
	require.Equal(t, 1, a.deallocated)

	require.NoError(t, m.Close())
	require.Equal(t, 1, a.deallocated, "nothing left to deallocate")

	m = NewAlloc[uint64](a)
	_, err = GrowZeroed[uint64](m, 2)
	require.NoError(t, err)
	require.NoError(t, m.Close())
	require.Equal(t, 2, a.deallocated)
}

func Test_GoAllocator_GrowInPlace(t *testing.T) {
	var a GoAllocator[uint64]
	block := make([]uint64, 2, 8)
	block[0], block[1] = 1, 2

	grown, err := a.Grow(block, 6)
	require.NoError(t, err)
	require.Len(t, grown, 6)
	require.Same(t, &block[0], &grown[0])

	moved, err := a.Grow(grown, 16)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2}, moved[:2])
	require.NotSame(t, &block[0], &moved[0])
}

func Test_GoAllocator_Shrink(t *testing.T) {
	var a GoAllocator[uint64]
	block := make([]uint64, 16)

	kept, err := a.Shrink(block, 10)
	require.NoError(t, err)
	require.Same(t, &block[0], &kept[0])

	tight, err := a.Shrink(block, 4)
	require.NoError(t, err)
	require.Len(t, tight, 4)
	require.Equal(t, 4, cap(tight))
}

func Test_GoAllocator_AllocateTooLarge(t *testing.T) {
	var a GoAllocator[uint64]
	_, err := a.Allocate(math.MaxInt / 16)
	require.Error(t, err)
}

func Test_System_PlainAndPointerTypes(t *testing.T) {
	plain := NewSystem[uint32]()
	_, err := GrowFilled[uint32](plain, 5000, 0xAB)
	require.NoError(t, err)
	require.NoError(t, plain.Shrink(4999))
	require.Equal(t, []uint32{0xAB}, plain.Allocated())
	require.NoError(t, plain.Close())

	_, isGo := NewOSAllocator[*int]().(GoAllocator[*int])
	require.True(t, isGo)

	withPointers := NewSystem[*int]()
	v := 7
	_, err = GrowFilled[*int](withPointers, 3, &v)
	require.NoError(t, err)
	require.Equal(t, 7, *withPointers.Allocated()[2])
	require.NoError(t, withPointers.Close())
}

func Test_Global_String(t *testing.T) {
	m := NewGlobal[byte]()
	_, err := GrowZeroed[byte](m, 3)
	require.NoError(t, err)
	require.Equal(t, "Global(Alloc{len: 3, reserved: 3})", m.String())
}
