package mem

import (
	"fmt"
	"reflect"
)

// Uninit is the freshly exposed tail of a block while it is being grown.
//
// An initializer must leave every slot initialized, either one at a time with
// Push or in bulk by writing to Slots and reporting the count with Assume.
// Slots handed out by Uninit may hold stale bytes from an earlier owner of the
// backing store; they carry no meaning until written.
//
// The initialized count doubles as the rollback guard: if the initializer
// panics, exactly the first Initialized() slots are destroyed.
type Uninit[T any] struct {
	slots []T
	init  int
}

// Len returns the number of slots to initialize.
func (u *Uninit[T]) Len() int { return len(u.slots) }

// Initialized returns how many leading slots are initialized so far.
func (u *Uninit[T]) Initialized() int { return u.init }

// Push initializes the next slot with v.
func (u *Uninit[T]) Push(v T) {
	if u.init >= len(u.slots) {
		panic(fmt.Sprintf("mem: Uninit.Push beyond %d slots", len(u.slots)))
	}
	u.slots[u.init] = v
	u.init++
}

// Slots returns the slots that are not initialized yet.
func (u *Uninit[T]) Slots() []T { return u.slots[u.init:] }

// Assume marks the next n slots as initialized after a bulk write to Slots.
func (u *Uninit[T]) Assume(n int) {
	if n < 0 || n > len(u.slots)-u.init {
		panic(fmt.Sprintf("mem: Uninit.Assume(%d) with %d slots left", n, len(u.slots)-u.init))
	}
	u.init += n
}

// Initialize runs fill over slots. If fill panics, the slots it reported as
// initialized are destroyed and the panic continues unchanged.
func Initialize[T any](slots []T, fill func(*Uninit[T])) {
	u := &Uninit[T]{slots: slots}
	done := false
	defer func() {
		if !done {
			Drop(u.slots[:u.init])
			// Half-written slots past the guard may still hold references.
			if hasPointers(reflect.TypeFor[T]()) {
				clear(u.slots[u.init:])
			}
		}
	}()
	fill(u)
	done = true
}

// Filled initializes every slot with value. Types implementing Cloner get a
// clone per slot, except the last one, which takes value itself.
func Filled[T any](value T) func(*Uninit[T]) {
	return func(u *Uninit[T]) {
		n := len(u.Slots())
		if n == 0 {
			return
		}
		clone := cloner[T]()
		if clone == nil {
			slots := u.Slots()
			for i := range slots {
				slots[i] = value
			}
			u.Assume(n)
			return
		}
		for range n - 1 {
			u.Push(clone(&value))
		}
		u.Push(value)
	}
}

// With initializes every slot with a value returned by factory, in order.
func With[T any](factory func() T) func(*Uninit[T]) {
	return func(u *Uninit[T]) {
		for range len(u.Slots()) {
			u.Push(factory())
		}
	}
}

// Zeroed initializes every slot with the zero value of T.
func Zeroed[T any]() func(*Uninit[T]) {
	return func(u *Uninit[T]) {
		slots := u.Slots()
		clear(slots)
		u.Assume(len(slots))
	}
}

// FromSlice initializes the slots from src, cloning Cloner types.
// src must be exactly as long as the region being initialized.
func FromSlice[T any](src []T) func(*Uninit[T]) {
	return func(u *Uninit[T]) {
		if len(src) != len(u.Slots()) {
			panic(fmt.Sprintf("mem: FromSlice with %d elements for %d slots", len(src), len(u.Slots())))
		}
		clone := cloner[T]()
		if clone == nil {
			u.Assume(copy(u.Slots(), src))
			return
		}
		for i := range src {
			u.Push(clone(&src[i]))
		}
	}
}

// Assumed treats the slots as already initialized. It is only sound when
// the backing store already holds valid elements, such as a reopened file of
// plain values.
func Assumed[T any]() func(*Uninit[T]) {
	return func(u *Uninit[T]) {
		u.Assume(len(u.Slots()))
	}
}
