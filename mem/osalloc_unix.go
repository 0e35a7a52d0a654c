//go:build unix

package mem

import (
	"github.com/linksplatform/mem/internal/buf"
	"github.com/linksplatform/mem/internal/logger"
	"golang.org/x/sys/unix"
)

// NewOSAllocator returns an allocator that takes memory straight from the
// operating system with anonymous private mappings, outside the Go heap.
//
// The collector does not scan such memory, so element types that contain
// pointers (and zero-sized types) are served by GoAllocator instead.
func NewOSAllocator[T any]() Allocator[T] {
	if !IsPlain[T]() || SizeOf[T]() == 0 {
		return GoAllocator[T]{}
	}
	return osAllocator[T]{}
}

type osAllocator[T any] struct{}

func (osAllocator[T]) Allocate(n int) ([]T, error) {
	size, err := buf.ArrayBytes(n, SizeOf[T]())
	if err != nil {
		return nil, err
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	return sliceOf[T](data, n), nil
}

func (a osAllocator[T]) Grow(block []T, n int) ([]T, error) {
	return a.resize(block, n)
}

func (a osAllocator[T]) Shrink(block []T, n int) ([]T, error) {
	return a.resize(block, n)
}

func (osAllocator[T]) resize(block []T, n int) ([]T, error) {
	size, err := buf.ArrayBytes(n, SizeOf[T]())
	if err != nil {
		return nil, err
	}
	data, err := remap(BytesOf(block[:cap(block)]), size)
	if err != nil {
		return nil, err
	}
	return sliceOf[T](data, n), nil
}

func (osAllocator[T]) Deallocate(block []T) {
	if cap(block) == 0 {
		return
	}
	if err := unix.Munmap(BytesOf(block[:cap(block)])); err != nil {
		logger.L.Warn("munmap anonymous block", "bytes", cap(block)*SizeOf[T](), "error", err)
	}
}
