// Package asyncmem provides a file-backed block of plain values that lives
// in memory and reaches its file only through explicit calls.
//
// Memory-mapped I/O cannot be cancelled or scheduled: a page fault blocks the
// faulting goroutine inside the kernel. FileMem instead keeps the elements in
// a Go slice and reads or writes the whole file in Open, Sync and Flush, each
// of which takes a context that is checked before every I/O step.
//
// Close never writes. Persisting is the caller's job:
//
//	m, err := asyncmem.Create[uint64](ctx, "data.bin")
//	if err != nil {
//		return err
//	}
//	defer m.Close()
//
//	if _, err := m.GrowFilled(ctx, 1000, 42); err != nil {
//		return err
//	}
//	m.Set(0, 7)
//	return m.Sync(ctx)
//
// The file format is the same packed native-endian array used by
// mem.FileMapped, so either can reopen what the other wrote.
package asyncmem
