package mem

import (
	"errors"
	"fmt"
)

// ErrCapacityOverflow indicates that a requested capacity, or the byte size
// of its layout, exceeds what the platform can address.
var ErrCapacityOverflow = errors.New("mem: exceeding the capacity maximum")

// OverAllocError is returned by a bounded backend that cannot satisfy a grow
// request. It is not retryable without a larger backing store.
type OverAllocError struct {
	Available int // Total elements the backend can hold
	ToAlloc   int // Capacity the request would have needed
}

func (e *OverAllocError) Error() string {
	return fmt.Sprintf("mem: cannot allocate %d - available only %d", e.ToAlloc, e.Available)
}

// AllocError is returned when an allocator refuses to allocate, grow or
// shrink a block.
type AllocError struct {
	Layout Layout // Layout of the request that failed
	Err    error  // Cause reported by the allocator, may be nil
}

func (e *AllocError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mem: memory allocation of %v failed: %v", e.Layout, e.Err)
	}
	return fmt.Sprintf("mem: memory allocation of %v failed", e.Layout)
}

func (e *AllocError) Unwrap() error { return e.Err }

// SystemError wraps a file-level I/O failure without reinterpreting it.
type SystemError struct {
	Op  string
	Err error
}

func (e *SystemError) Error() string {
	return fmt.Sprintf("mem: %s: %v", e.Op, e.Err)
}

func (e *SystemError) Unwrap() error { return e.Err }

// systemError wraps err as a *SystemError, passing nil through.
func systemError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *SystemError
	if errors.As(err, &se) {
		return err
	}
	return &SystemError{Op: op, Err: err}
}

// WrapSystem wraps an I/O failure as a *SystemError for backends living
// outside this package. A nil err stays nil.
func WrapSystem(op string, err error) error {
	return systemError(op, err)
}
