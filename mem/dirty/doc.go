// Package dirty tracks modified byte ranges of a file mapping and flushes them
// efficiently.
//
// # Page-Level Granularity
//
// Ranges are rounded to OS page boundaries at flush time, so a 1-byte write
// marks the whole page dirty. Adjacent and overlapping pages are merged:
//
//	Dirty pages: [0, 1, 2, 5, 6] → Ranges: [0x0-0x3000, 0x5000-0x7000]
//
// # Flush Modes
//
// Flush msyncs the coalesced ranges and then, depending on FlushMode,
// requests a file-level sync:
//
//	FlushAuto      msync + fdatasync
//	FlushDataOnly  msync only; caller syncs later
//	FlushFull      msync + strongest sync (F_FULLFSYNC on macOS)
//
// # Thread Safety
//
// Trackers are not thread-safe. The owner of the mapping serializes access.
package dirty
