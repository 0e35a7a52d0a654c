package mem

import "fmt"

// PreAlloc is a RawMem over a caller-provided buffer. It never allocates:
// capacity is bounded by len(buf) and a larger request fails with
// *OverAllocError. Shrinking moves the cursor back without clearing the
// buffer of plain types.
type PreAlloc[T any] struct {
	place place[T]
}

// NewPreAlloc uses buf as the backing store. The block borrows buf until
// Close; the caller must not touch it in the meantime.
func NewPreAlloc[T any](buf []T) *PreAlloc[T] {
	return &PreAlloc[T]{place: place[T]{slots: buf}}
}

func (m *PreAlloc[T]) Allocated() []T { return m.place.allocated() }

func (m *PreAlloc[T]) AllocatedMut() []T { return m.place.allocated() }

// SizeHint returns the exact number of unused slots.
func (m *PreAlloc[T]) SizeHint() (int, bool) {
	return m.place.reserved() - m.place.n, true
}

func (m *PreAlloc[T]) Grow(addition int, fill func(*Uninit[T])) ([]T, error) {
	newCap, _, err := m.place.target(addition)
	if err != nil {
		return nil, err
	}
	if available := m.place.reserved(); newCap > available {
		return nil, &OverAllocError{Available: available, ToAlloc: newCap}
	}
	return m.place.publish(m.place.slots, newCap, fill), nil
}

func (m *PreAlloc[T]) Shrink(count int) error {
	newCap, err := m.place.shrinkTarget(count)
	if err != nil {
		return err
	}
	m.place.narrow(newCap)
	return nil
}

// Close destroys the elements and gives the buffer back to the caller.
func (m *PreAlloc[T]) Close() error {
	m.place.narrow(0)
	m.place.slots = nil
	return nil
}

func (m *PreAlloc[T]) String() string {
	return fmt.Sprintf("PreAlloc%v", &m.place)
}
