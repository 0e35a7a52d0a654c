package mem

import "fmt"

// Allocator hands out typed blocks for Alloc. Requests are element counts;
// Alloc validates the byte layout of every request before it gets here.
//
// Grow and Shrink may move the block: the returned slice is authoritative and
// the one passed in must not be used afterwards. The contents of the common
// prefix are preserved. Slots past the old length are unspecified.
type Allocator[T any] interface {
	Allocate(n int) ([]T, error)
	Grow(block []T, n int) ([]T, error)
	Shrink(block []T, n int) ([]T, error)
	Deallocate(block []T)
}

// Alloc is a RawMem backed by an Allocator.
type Alloc[T any] struct {
	place place[T]
	alloc Allocator[T]
}

// NewAlloc returns an empty block that allocates through a.
func NewAlloc[T any](a Allocator[T]) *Alloc[T] {
	return &Alloc[T]{alloc: a}
}

// Allocator returns the allocator the block was created with.
func (m *Alloc[T]) Allocator() Allocator[T] { return m.alloc }

func (m *Alloc[T]) Allocated() []T { return m.place.allocated() }

func (m *Alloc[T]) AllocatedMut() []T { return m.place.allocated() }

func (m *Alloc[T]) SizeHint() (int, bool) { return 0, false }

// Grow resizes the block through the allocator, reusing slots already
// reserved by an earlier grow whose initializer panicked.
func (m *Alloc[T]) Grow(addition int, fill func(*Uninit[T])) ([]T, error) {
	newCap, layout, err := m.place.target(addition)
	if err != nil {
		return nil, err
	}

	slots := m.place.slots
	if newCap > m.place.reserved() {
		if m.place.reserved() == 0 {
			slots, err = m.alloc.Allocate(newCap)
		} else {
			slots, err = m.alloc.Grow(m.place.slots, newCap)
		}
		if err != nil {
			return nil, &AllocError{Layout: layout, Err: err}
		}
	}

	return m.place.publish(slots, newCap, fill), nil
}

// Shrink destroys the last count elements and then shrinks the allocation.
// If the allocator refuses, the elements are already gone: the capacity is
// reduced and the larger block stays reserved.
func (m *Alloc[T]) Shrink(count int) error {
	newCap, err := m.place.shrinkTarget(count)
	if err != nil || count == 0 {
		return err
	}

	m.place.narrow(newCap)

	if newCap == 0 {
		m.alloc.Deallocate(m.place.slots)
		m.place.slots = nil
		return nil
	}

	slots, err := m.alloc.Shrink(m.place.slots, newCap)
	if err != nil {
		layout, _ := ArrayLayout[T](newCap)
		return &AllocError{Layout: layout, Err: err}
	}
	m.place.slots = slots
	return nil
}

// Close destroys every element before deallocating the block.
func (m *Alloc[T]) Close() error {
	m.place.narrow(0)
	if m.place.reserved() > 0 {
		m.alloc.Deallocate(m.place.slots)
	}
	m.place.slots = nil
	return nil
}

func (m *Alloc[T]) String() string {
	return fmt.Sprintf("Alloc%v", &m.place)
}
