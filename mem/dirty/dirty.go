package dirty

import (
	"context"
	"os"
	"sort"
)

// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
const defaultRangeCapacity = 64

// FlushMode controls durability guarantees of Flush.
type FlushMode int

const (
	// FlushAuto msyncs dirty pages and then fdatasyncs the file.
	FlushAuto FlushMode = iota

	// FlushDataOnly only msyncs dirty pages.
	// The caller is responsible for a file sync later.
	FlushDataOnly

	// FlushFull msyncs dirty pages and requests the strongest file sync the
	// platform offers (F_FULLFSYNC on macOS).
	FlushFull
)

func (m FlushMode) String() string {
	switch m {
	case FlushAuto:
		return "auto"
	case FlushDataOnly:
		return "data-only"
	case FlushFull:
		return "full"
	default:
		return "unknown"
	}
}

// Range is a dirty byte range relative to the start of the mapping.
type Range struct {
	Off int64
	Len int64
}

// Flusher is the mapping side of a flush.
type Flusher interface {
	// FlushRange writes back the bytes [off, off+n) of the mapping.
	FlushRange(off, n int) error
	// SyncFile asks the OS to persist the file; full requests the strongest
	// guarantee available.
	SyncFile(full bool) error
}

// Tracker accumulates dirty ranges and flushes them page-aligned.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Tracker struct {
	ranges   []Range
	pageSize int64
}

// NewTracker creates a tracker aligned to the OS page size.
func NewTracker() *Tracker {
	return NewTrackerWithPageSize(int64(os.Getpagesize()))
}

// NewTrackerWithPageSize creates a tracker with an explicit page size.
func NewTrackerWithPageSize(pageSize int64) *Tracker {
	if pageSize <= 0 {
		pageSize = int64(os.Getpagesize())
	}
	return &Tracker{
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: pageSize,
	}
}

// Add records a dirty range. Empty or negative ranges are ignored.
func (t *Tracker) Add(off, length int) {
	if length <= 0 || off < 0 {
		return
	}
	t.ranges = append(t.ranges, Range{Off: int64(off), Len: int64(length)})
}

// Len returns the number of recorded (uncoalesced) ranges.
func (t *Tracker) Len() int { return len(t.ranges) }

// Reset clears all tracked ranges.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// Ranges returns a copy of the raw, uncoalesced ranges.
func (t *Tracker) Ranges() []Range {
	result := make([]Range, len(t.ranges))
	copy(result, t.ranges)
	return result
}

// Coalesced returns the page-aligned, sorted and merged ranges that Flush
// would write back.
func (t *Tracker) Coalesced() []Range {
	return t.coalesce()
}

// FlushDataOnly writes back every dirty range and clears the tracker.
//
// The context is checked between ranges. If cancelled midway, some ranges
// may have been flushed while others have not; the tracker keeps them all.
func (t *Tracker) FlushDataOnly(ctx context.Context, f Flusher) error {
	if len(t.ranges) == 0 {
		return nil
	}
	for _, r := range t.coalesce() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.FlushRange(int(r.Off), int(r.Len)); err != nil {
			return err
		}
	}
	t.ranges = t.ranges[:0]
	return nil
}

// Flush writes back every dirty range and then syncs the file as mode
// requires.
func (t *Tracker) Flush(ctx context.Context, f Flusher, mode FlushMode) error {
	if err := t.FlushDataOnly(ctx, f); err != nil {
		return err
	}
	if mode == FlushDataOnly {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.SyncFile(mode == FlushFull)
}

// coalesce page-aligns all ranges, sorts them, and merges overlapping or
// adjacent ranges.
func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start := (r.Off / t.pageSize) * t.pageSize

		end := r.Off + r.Len
		if end%t.pageSize != 0 {
			end = ((end / t.pageSize) + 1) * t.pageSize
		}

		aligned[i] = Range{Off: start, Len: end - start}
	}

	sort.Slice(aligned, func(i, j int) bool {
		return aligned[i].Off < aligned[j].Off
	})

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]
	for _, next := range aligned[1:] {
		if next.Off <= current.Off+current.Len {
			end := max(current.Off+current.Len, next.Off+next.Len)
			current.Len = end - current.Off
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}
