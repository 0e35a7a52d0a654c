package mem

import (
	"fmt"

	"github.com/linksplatform/mem/internal/buf"
)

// place is the capacity ledger every pointer-based backend embeds.
//
// slots views the whole backing store and len(slots) is its reserved element
// count; n is the published capacity. Elements in [0, n) are always
// initialized. n only grows in publish, after the initializer returned, so a
// panicking initializer leaves n untouched while slots may already view an
// enlarged store that the next grow reuses.
type place[T any] struct {
	slots []T
	n     int
}

func (p *place[T]) allocated() []T {
	return p.slots[:p.n:p.n]
}

func (p *place[T]) reserved() int {
	return len(p.slots)
}

// target returns the capacity and layout after growing by addition.
func (p *place[T]) target(addition int) (int, Layout, error) {
	if addition < 0 {
		return 0, Layout{}, ErrCapacityOverflow
	}
	newCap, ok := buf.AddOverflowSafe(p.n, addition)
	if !ok {
		return 0, Layout{}, ErrCapacityOverflow
	}
	layout, err := ArrayLayout[T](newCap)
	if err != nil {
		return 0, Layout{}, err
	}
	return newCap, layout, nil
}

// shrinkTarget validates a shrink by count and returns the new capacity.
func (p *place[T]) shrinkTarget(count int) (int, error) {
	if count < 0 || count > p.n {
		return 0, ErrCapacityOverflow
	}
	return p.n - count, nil
}

// publish installs slots as the backing store view, initializes
// slots[n:newCap] with fill and then publishes newCap.
func (p *place[T]) publish(slots []T, newCap int, fill func(*Uninit[T])) []T {
	if len(slots) < newCap {
		panic(fmt.Sprintf("mem: backing store holds %d elements, need %d", len(slots), newCap))
	}
	p.slots = slots
	tail := slots[p.n:newCap:newCap]
	Initialize(tail, fill)
	p.n = newCap
	return tail
}

// narrow destroys the elements in [newCap, n) and publishes newCap.
func (p *place[T]) narrow(newCap int) {
	Drop(p.slots[newCap:p.n])
	p.n = newCap
}

func (p *place[T]) String() string {
	return fmt.Sprintf("{len: %d, reserved: %d}", p.n, len(p.slots))
}
