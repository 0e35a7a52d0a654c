// Package mem provides growable blocks of raw memory.
//
// A block is a single contiguous array of T behind the RawMem interface. It
// grows by exposing an uninitialized tail to an initializer (see Uninit and
// the Filled, With, Zeroed, FromSlice and Assumed strategies) and shrinks by
// destroying trailing elements. Backends:
//
//   - Global: the Go heap.
//   - System: anonymous OS mappings outside the Go heap.
//   - Alloc: any Allocator.
//   - FileMapped: a memory-mapped file whose length follows the capacity.
//   - TempFile: FileMapped over an anonymous temporary file.
//   - PreAlloc: a fixed caller-provided buffer.
//
// The asyncmem subpackage holds a file-backed block loaded into memory and
// written back explicitly.
//
// Elements may implement Dropper to release resources when destroyed and
// Cloner to control how Filled and FromSlice copy them. File-backed and
// OS-mapped blocks only take pointer-free types; see IsPlain.
//
// Typical use:
//
//	m := mem.NewGlobal[uint64]()
//	defer m.Close()
//
//	if _, err := mem.GrowFilled[uint64](m, 1024, 7); err != nil {
//		return err
//	}
//	m.AllocatedMut()[0] = 42
//	if err := m.Shrink(512); err != nil {
//		return err
//	}
//
// No block is safe for concurrent use.
package mem
