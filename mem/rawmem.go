package mem

import "github.com/linksplatform/mem/internal/buf"

// RawMem is a single contiguous block of T that can grow and shrink.
//
// Every element in Allocated() is initialized: growth exposes new slots to an
// initializer and only publishes the new capacity once it returns. If the
// initializer panics, the slots it initialized are destroyed, the capacity is
// left unchanged and the panic continues.
//
// Implementations are not safe for concurrent use.
type RawMem[T any] interface {
	// Allocated returns the initialized elements. The slice is invalidated
	// by the next Grow, Shrink or Close and must be treated as read-only.
	Allocated() []T

	// AllocatedMut returns the initialized elements for modification, with
	// the same lifetime as Allocated.
	AllocatedMut() []T

	// Grow adds addition elements initialized by fill and returns them.
	// It fails with ErrCapacityOverflow when the new capacity or its byte
	// size cannot be represented.
	Grow(addition int, fill func(*Uninit[T])) ([]T, error)

	// Shrink destroys the last count elements and releases their storage.
	// It fails with ErrCapacityOverflow when count exceeds the capacity.
	Shrink(count int) error

	// SizeHint returns how many more elements the block can take. bounded
	// is false when the backend is limited only by the system.
	SizeHint() (n int, bounded bool)

	// Close destroys all elements and releases the backing store.
	Close() error
}

// GrowFilled grows m by addition copies of value.
func GrowFilled[T any](m RawMem[T], addition int, value T) ([]T, error) {
	return m.Grow(addition, Filled(value))
}

// GrowWith grows m by addition values returned by factory.
func GrowWith[T any](m RawMem[T], addition int, factory func() T) ([]T, error) {
	return m.Grow(addition, With(factory))
}

// GrowZeroed grows m by addition zero values.
func GrowZeroed[T any](m RawMem[T], addition int) ([]T, error) {
	return m.Grow(addition, Zeroed[T]())
}

// GrowFromSlice grows m by len(src) elements copied from src.
func GrowFromSlice[T any](m RawMem[T], src []T) ([]T, error) {
	return m.Grow(len(src), FromSlice(src))
}

// GrowAssumed grows m without initializing the new slots, exposing whatever
// the backing store already holds. This is how a file of plain values is
// read back through FileMapped.
func GrowAssumed[T any](m RawMem[T], addition int) ([]T, error) {
	return m.Grow(addition, Assumed[T]())
}

// GrowWithin appends a copy of m's own elements [from, to).
func GrowWithin[T any](m RawMem[T], from, to int) ([]T, error) {
	allocated := m.Allocated()
	if from < 0 || to < from || to > len(allocated) {
		return nil, ErrCapacityOverflow
	}
	// The source must outlive a backing store that moves during the grow.
	src := append([]T(nil), allocated[from:to]...)
	return m.Grow(len(src), FromSlice(src))
}

// Reserve grows m to hold at least capacity elements, filling new slots with
// zero values. It respects SizeHint and never overshoots a bounded backend.
func Reserve[T any](m RawMem[T], capacity int) ([]T, error) {
	have := len(m.Allocated())
	if capacity <= have {
		return m.Allocated(), nil
	}
	need, ok := buf.AddOverflowSafe(capacity, -have)
	if !ok {
		return nil, ErrCapacityOverflow
	}
	if n, bounded := m.SizeHint(); bounded {
		need = min(need, n)
	}
	if _, err := m.Grow(need, Zeroed[T]()); err != nil {
		return nil, err
	}
	return m.Allocated(), nil
}
