//go:build !unix

package mem

// NewOSAllocator falls back to the Go heap where anonymous mappings are not
// available.
func NewOSAllocator[T any]() Allocator[T] {
	return GoAllocator[T]{}
}
