package mem

import "fmt"

// ErasedMem is the dynamically dispatched view of a RawMem.
//
// It carries no arbitrary initializer: growth goes through a fixed set of
// strategies (fill with a value, fill from a factory, zero-fill) so that
// callers holding only an ErasedMem never see uninitialized slots.
type ErasedMem[T any] interface {
	Allocated() []T
	AllocatedMut() []T
	SizeHint() (n int, bounded bool)
	Shrink(count int) error
	Close() error

	GrowFilled(addition int, value T) ([]T, error)
	GrowWith(addition int, factory func() T) ([]T, error)
	GrowZeroed(addition int) ([]T, error)
}

// Erase returns the ErasedMem view of m.
func Erase[T any](m RawMem[T]) ErasedMem[T] {
	return erased[T]{m: m}
}

type erased[T any] struct {
	m RawMem[T]
}

func (e erased[T]) Allocated() []T { return e.m.Allocated() }
func (e erased[T]) AllocatedMut() []T { return e.m.AllocatedMut() }
func (e erased[T]) SizeHint() (int, bool) { return e.m.SizeHint() }
func (e erased[T]) Shrink(count int) error { return e.m.Shrink(count) }
func (e erased[T]) Close() error { return e.m.Close() }
func (e erased[T]) GrowZeroed(addition int) ([]T, error) { return GrowZeroed(e.m, addition) }

func (e erased[T]) GrowFilled(addition int, value T) ([]T, error) {
	return GrowFilled(e.m, addition, value)
}

func (e erased[T]) GrowWith(addition int, factory func() T) ([]T, error) {
	return GrowWith(e.m, addition, factory)
}

func (e erased[T]) String() string {
	return fmt.Sprintf("Erased(%v)", e.m)
}
