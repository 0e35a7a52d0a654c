package mem

import "fmt"

// Global is a RawMem on the Go heap.
type Global[T any] struct {
	inner *Alloc[T]
}

// NewGlobal returns an empty heap block.
func NewGlobal[T any]() *Global[T] {
	return &Global[T]{inner: NewAlloc[T](GoAllocator[T]{})}
}

func (g *Global[T]) Allocated() []T { return g.inner.Allocated() }
func (g *Global[T]) AllocatedMut() []T { return g.inner.AllocatedMut() }
func (g *Global[T]) SizeHint() (int, bool) { return g.inner.SizeHint() }
func (g *Global[T]) Shrink(count int) error { return g.inner.Shrink(count) }
func (g *Global[T]) Close() error { return g.inner.Close() }

func (g *Global[T]) Grow(addition int, fill func(*Uninit[T])) ([]T, error) {
	return g.inner.Grow(addition, fill)
}

func (g *Global[T]) String() string { return fmt.Sprintf("Global(%v)", g.inner) }

// System is a RawMem whose storage comes from the operating system allocator,
// outside the garbage-collected heap when T is pointer-free.
type System[T any] struct {
	inner *Alloc[T]
}

// NewSystem returns an empty OS-backed block.
func NewSystem[T any]() *System[T] {
	return &System[T]{inner: NewAlloc(NewOSAllocator[T]())}
}

func (s *System[T]) Allocated() []T { return s.inner.Allocated() }
func (s *System[T]) AllocatedMut() []T { return s.inner.AllocatedMut() }
func (s *System[T]) SizeHint() (int, bool) { return s.inner.SizeHint() }
func (s *System[T]) Shrink(count int) error { return s.inner.Shrink(count) }
func (s *System[T]) Close() error { return s.inner.Close() }

func (s *System[T]) Grow(addition int, fill func(*Uninit[T])) ([]T, error) {
	return s.inner.Grow(addition, fill)
}

func (s *System[T]) String() string { return fmt.Sprintf("System(%v)", s.inner) }
