package mem

import "reflect"

// Dropper is implemented by element types that own resources which must be
// released when the element is destroyed: by Shrink, by Close, or by the
// rollback of a panicking initializer. Drop is called exactly once per
// destroyed element, with a value or pointer receiver.
type Dropper interface {
	Drop()
}

// Cloner is implemented by element types whose copies must not share state.
// Fill strategies call Clone instead of a plain assignment when T implements it.
type Cloner[T any] interface {
	Clone() T
}

// Drop destroys every element of s: Drop is called on elements implementing
// Dropper, then slots holding Go pointers are zeroed so the garbage collector
// can reclaim what they referenced. Pointer-free slots keep their bytes.
func Drop[T any](s []T) {
	if len(s) == 0 {
		return
	}
	if implementsDropper[T]() {
		for i := range s {
			dropOne(&s[i])
		}
	}
	if hasPointers(reflect.TypeFor[T]()) {
		clear(s)
	}
}

var dropperType = reflect.TypeFor[Dropper]()

func implementsDropper[T any]() bool {
	t := reflect.TypeFor[T]()
	return t.Implements(dropperType) || reflect.PointerTo(t).Implements(dropperType)
}

func dropOne[T any](p *T) {
	if d, ok := any(p).(Dropper); ok {
		d.Drop()
		return
	}
	if d, ok := any(*p).(Dropper); ok && !isNilPointer(d) {
		d.Drop()
	}
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// cloner returns a function producing an independent copy of *p, or nil
// when T has no Clone method and plain assignment is enough.
func cloner[T any]() func(p *T) T {
	var zero T
	if _, ok := any(zero).(Cloner[T]); ok {
		return func(p *T) T { return any(*p).(Cloner[T]).Clone() }
	}
	if _, ok := any(&zero).(Cloner[T]); ok {
		return func(p *T) T { return any(p).(Cloner[T]).Clone() }
	}
	return nil
}
