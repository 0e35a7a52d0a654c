package mem

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/linksplatform/mem/internal/buf"
)

// DefaultPageSize is the RAM page size assumed when sizing file-backed
// stores. It is likely to be a multiple of the real page size on most systems.
const DefaultPageSize = 8 * 1024

// Layout is the size and alignment of a memory region.
type Layout struct {
	Size  uintptr
	Align uintptr
}

func (l Layout) String() string {
	return fmt.Sprintf("Layout{size: %d, align: %d}", l.Size, l.Align)
}

// ArrayLayout returns the layout of n contiguous elements of type T.
// It fails with ErrCapacityOverflow when n is negative or the byte size
// does not fit in an int.
func ArrayLayout[T any](n int) (Layout, error) {
	var zero T
	size, ok := buf.MulOverflowSafe(n, int(unsafe.Sizeof(zero)))
	if !ok {
		return Layout{}, ErrCapacityOverflow
	}
	return Layout{Size: uintptr(size), Align: unsafe.Alignof(zero)}, nil
}

// SizeOf returns the size of T in bytes.
func SizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// IsPlain reports whether T contains no Go pointers, so that its values can
// live outside the garbage-collected heap and round-trip through raw bytes.
func IsPlain[T any]() bool {
	return !hasPointers(reflect.TypeFor[T]())
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// MustBePlain panics when T cannot be stored in raw, unmanaged memory.
// backend names the caller in the panic message.
func MustBePlain[T any](backend string) {
	if !IsPlain[T]() {
		panic(fmt.Sprintf("mem: %s requires a pointer-free element type, got %v", backend, reflect.TypeFor[T]()))
	}
}

// BytesOf reinterprets a slice of elements as its underlying bytes.
// Only meaningful for plain element types.
func BytesOf[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*SizeOf[T]())
}

// sliceOf reinterprets the first n elements' worth of b as []T.
// Zero-sized element types get a fresh slice since they occupy no bytes.
func sliceOf[T any](b []byte, n int) []T {
	if n == 0 {
		return nil
	}
	size := SizeOf[T]()
	if size == 0 {
		return make([]T, n)
	}
	if len(b) < n*size {
		panic(fmt.Sprintf("mem: %d bytes cannot hold %d elements of %d bytes", len(b), n, size))
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n)
}
