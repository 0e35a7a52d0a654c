package mem

import "fmt"

// GoAllocator allocates blocks on the garbage-collected Go heap.
// It accepts any element type.
type GoAllocator[T any] struct{}

func (GoAllocator[T]) Allocate(n int) (block []T, err error) {
	defer recoverAlloc(&err)
	return make([]T, n), nil
}

// Grow extends block in place when its capacity allows, otherwise it moves
// the contents to a new block.
func (GoAllocator[T]) Grow(block []T, n int) (grown []T, err error) {
	if n <= cap(block) {
		return block[:n], nil
	}
	defer recoverAlloc(&err)
	grown = make([]T, n)
	copy(grown, block)
	return grown, nil
}

// Shrink keeps the block when it would still be at least half used and
// moves the prefix to a tighter block otherwise.
func (GoAllocator[T]) Shrink(block []T, n int) ([]T, error) {
	if n*2 > cap(block) {
		return block[:n], nil
	}
	shrunk := make([]T, n)
	copy(shrunk, block)
	return shrunk, nil
}

// Deallocate is a no-op; the collector reclaims unreferenced blocks.
func (GoAllocator[T]) Deallocate([]T) {}

// recoverAlloc turns a failed make (length out of range) into an error.
func recoverAlloc(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("go heap: %v", r)
	}
}
