// Package buf contains overflow-safe arithmetic for element counts and byte sizes.
package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// MulOverflowSafe multiplies two non-negative ints, returning ok = false when
// either operand is negative or the product would overflow int.
func MulOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// ArrayBytes returns count*elemSize, the byte length of a packed array.
//
//	n, err := buf.ArrayBytes(capacity, int(unsafe.Sizeof(v)))
//	if err != nil {
//	    return fmt.Errorf("layout: %w", err)
//	}
func ArrayBytes(count, elemSize int) (int, error) {
	if count < 0 {
		return 0, fmt.Errorf("negative count: %d", count)
	}
	if elemSize < 0 {
		return 0, fmt.Errorf("negative element size: %d", elemSize)
	}
	n, ok := MulOverflowSafe(count, elemSize)
	if !ok {
		return 0, fmt.Errorf("overflow: count=%d * elemSize=%d", count, elemSize)
	}
	return n, nil
}

// Elements returns how many whole elements of elemSize fit into size bytes
// and how many trailing bytes are left over. A zero elemSize yields (0, size).
func Elements(size int64, elemSize int) (int, int64) {
	if elemSize <= 0 || size <= 0 {
		return 0, size
	}
	n := size / int64(elemSize)
	if n > math.MaxInt {
		n = math.MaxInt
	}
	return int(n), size - n*int64(elemSize)
}
