package buf

import (
	"math"
	"testing"
)

func TestAddOverflowSafe(t *testing.T) {
	if sum, ok := AddOverflowSafe(10, 5); !ok || sum != 15 {
		t.Fatalf("AddOverflowSafe(10,5)=%d,%v want 15,true", sum, ok)
	}
	if _, ok := AddOverflowSafe(math.MaxInt, 1); ok {
		t.Fatalf("expected overflow when adding to MaxInt")
	}
	if _, ok := AddOverflowSafe(math.MinInt, -1); ok {
		t.Fatalf("expected underflow when subtracting from MinInt")
	}
}

func TestMulOverflowSafe(t *testing.T) {
	if p, ok := MulOverflowSafe(1<<20, 8); !ok || p != 8<<20 {
		t.Fatalf("MulOverflowSafe(1<<20,8)=%d,%v", p, ok)
	}
	if p, ok := MulOverflowSafe(0, math.MaxInt); !ok || p != 0 {
		t.Fatalf("zero operand should never overflow")
	}
	if _, ok := MulOverflowSafe(math.MaxInt, 2); ok {
		t.Fatalf("expected overflow for MaxInt*2")
	}
	if _, ok := MulOverflowSafe(math.MaxInt/8+1, 8); ok {
		t.Fatalf("expected overflow just past the boundary")
	}
	if _, ok := MulOverflowSafe(-1, 8); ok {
		t.Fatalf("negative operands must be rejected")
	}
}

func TestArrayBytes(t *testing.T) {
	n, err := ArrayBytes(10, 4)
	if err != nil || n != 40 {
		t.Fatalf("ArrayBytes(10,4)=%d,%v", n, err)
	}
	if _, err := ArrayBytes(-1, 4); err == nil {
		t.Fatalf("expected error for negative count")
	}
	if _, err := ArrayBytes(math.MaxInt, 2); err == nil {
		t.Fatalf("expected overflow error")
	}
}

func TestElements(t *testing.T) {
	n, rest := Elements(8195, 8)
	if n != 1024 || rest != 3 {
		t.Fatalf("Elements(8195,8)=%d,%d want 1024,3", n, rest)
	}
	n, rest = Elements(16, 0)
	if n != 0 || rest != 16 {
		t.Fatalf("zero element size: got %d,%d", n, rest)
	}
}
