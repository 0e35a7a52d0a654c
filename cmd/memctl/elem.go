package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/linksplatform/mem/internal/buf"
	"github.com/linksplatform/mem/mem"
	"github.com/linksplatform/mem/mem/asyncmem"
	"github.com/linksplatform/mem/mem/dirty"
)

// number is the set of element types memctl can interpret.
type number interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// elemType runs file operations for one element type chosen at run time.
type elemType interface {
	Name() string
	Size() int
	dump(ctx context.Context, path string, offset, limit int) (dumpResult, error)
	fill(ctx context.Context, path string, count int, value, backend string) (int, error)
	shrink(ctx context.Context, path string, count int) (int, error)
}

type dumpResult struct {
	Total  int
	Offset int
	Values []string
}

type elem[T number] struct {
	name  string
	parse func(string) (T, error)
}

var elemTypes = map[string]elemType{
	"u8":  elem[uint8]{"u8", parseUint[uint8](8)},
	"u16": elem[uint16]{"u16", parseUint[uint16](16)},
	"u32": elem[uint32]{"u32", parseUint[uint32](32)},
	"u64": elem[uint64]{"u64", parseUint[uint64](64)},
	"i8":  elem[int8]{"i8", parseInt[int8](8)},
	"i16": elem[int16]{"i16", parseInt[int16](16)},
	"i32": elem[int32]{"i32", parseInt[int32](32)},
	"i64": elem[int64]{"i64", parseInt[int64](64)},
	"f32": elem[float32]{"f32", parseFloat[float32](32)},
	"f64": elem[float64]{"f64", parseFloat[float64](64)},
}

func lookupElem(name string) (elemType, error) {
	if e, ok := elemTypes[name]; ok {
		return e, nil
	}
	names := make([]string, 0, len(elemTypes))
	for n := range elemTypes {
		names = append(names, n)
	}
	slices.Sort(names)
	return nil, fmt.Errorf("unknown element type %q (want one of %s)", name, strings.Join(names, ", "))
}

func parseUint[T ~uint8 | ~uint16 | ~uint32 | ~uint64](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := strconv.ParseUint(s, 0, bits)
		return T(v), err
	}
}

func parseInt[T ~int8 | ~int16 | ~int32 | ~int64](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := strconv.ParseInt(s, 0, bits)
		return T(v), err
	}
}

func parseFloat[T ~float32 | ~float64](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := strconv.ParseFloat(s, bits)
		return T(v), err
	}
}

func (e elem[T]) Name() string { return e.name }

func (e elem[T]) Size() int { return mem.SizeOf[T]() }

// dump loads the file without mapping it and formats the values in
// [offset, offset+limit). A limit of 0 means up to the end.
func (e elem[T]) dump(ctx context.Context, path string, offset, limit int) (dumpResult, error) {
	m, err := asyncmem.Open[T](ctx, path)
	if err != nil {
		return dumpResult{}, err
	}
	defer m.Close()

	values := m.Slice()
	start := min(offset, len(values))
	end := len(values)
	if limit > 0 {
		end = min(start+limit, end)
	}

	out := make([]string, 0, end-start)
	for _, v := range values[start:end] {
		out = append(out, fmt.Sprint(v))
	}
	return dumpResult{Total: len(values), Offset: start, Values: out}, nil
}

// fill appends count copies of value to the file and returns the new
// element count.
func (e elem[T]) fill(ctx context.Context, path string, count int, value, backend string) (int, error) {
	v, err := e.parse(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", e.name, value, err)
	}
	switch backend {
	case "mmap":
		return e.fillMapped(ctx, path, count, v)
	case "async":
		return e.fillAsync(ctx, path, count, v)
	default:
		return 0, fmt.Errorf("unknown backend %q (want mmap or async)", backend)
	}
}

func (e elem[T]) fillMapped(ctx context.Context, path string, count int, v T) (int, error) {
	existing, err := existingElements(path, e.Size())
	if err != nil {
		return 0, err
	}

	m, err := mem.FileMappedFromPath[T](path)
	if err != nil {
		return 0, err
	}
	defer m.Close()

	if _, err := mem.GrowAssumed[T](m, existing); err != nil {
		return 0, err
	}
	if _, err := mem.GrowFilled[T](m, count, v); err != nil {
		return 0, err
	}
	if err := m.Flush(ctx, dirty.FlushFull); err != nil {
		return 0, err
	}
	n := len(m.Allocated())
	return n, m.Close()
}

func (e elem[T]) fillAsync(ctx context.Context, path string, count int, v T) (int, error) {
	m, err := asyncmem.Open[T](ctx, path)
	if errors.Is(err, fs.ErrNotExist) {
		m, err = asyncmem.Create[T](ctx, path)
	}
	if err != nil {
		return 0, err
	}
	defer m.Close()

	if _, err := m.GrowFilled(ctx, count, v); err != nil {
		return 0, err
	}
	if err := m.Sync(ctx); err != nil {
		return 0, err
	}
	return m.Len(), nil
}

// shrink drops the last count elements and truncates the file to the
// remaining elements.
func (e elem[T]) shrink(ctx context.Context, path string, count int) (int, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, mem.WrapSystem("stat", err)
	}
	existing, err := existingElements(path, e.Size())
	if err != nil {
		return 0, err
	}
	// Opening pads short files to a page, so reject before touching the file.
	if count < 0 || count > existing {
		return 0, fmt.Errorf("shrink %d of %d elements: %w", count, existing, mem.ErrCapacityOverflow)
	}

	m, err := mem.FileMappedFromPath[T](path)
	if err != nil {
		return 0, err
	}
	defer m.Close()

	if _, err := mem.GrowAssumed[T](m, existing); err != nil {
		return 0, err
	}
	if err := m.Shrink(count); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n := len(m.Allocated())
	return n, m.Close()
}

// existingElements returns how many whole elements the file at path holds,
// or 0 if it does not exist.
func existingElements(path string, size int) (int, error) {
	st, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, mem.WrapSystem("stat", err)
	}
	n, _ := buf.Elements(st.Size(), size)
	return n, nil
}
