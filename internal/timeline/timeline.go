// Package timeline derives the live view of a repeating daily schedule:
// cumulative block offsets, the position of "now" within the cycle, the
// active and next blocks, progress, per-category totals and the upcoming
// blocks.
//
// Every function here is pure. Callers sample the wall clock and pass it in.
package timeline

import (
	"slices"
	"time"

	"dayflow/internal/schedule"
)

// DefaultUpcomingLimit is the number of upcoming blocks shown by default.
const DefaultUpcomingLimit = 3

// Block is a schedule entry annotated with its position in the cycle.
// Offsets are minutes since the start of the first entry.
type Block struct {
	schedule.Entry

	Index       int `json:"index"`
	OffsetStart int `json:"offset_start"`
	OffsetEnd   int `json:"offset_end"`
	Duration    int `json:"duration"`
}

func (b Block) clone() Block {
	b.Details = slices.Clone(b.Details)
	return b
}

// Contains reports whether rel falls inside [OffsetStart, OffsetEnd).
func (b Block) Contains(rel int) bool {
	return b.OffsetStart <= rel && rel < b.OffsetEnd
}

// StatusAt classifies b relative to the cycle offset rel.
func (b Block) StatusAt(rel int) Status {
	switch {
	case b.OffsetEnd <= rel:
		return Past
	case b.OffsetStart <= rel:
		return Active
	default:
		return Future
	}
}

// Status is the position of a block relative to now.
type Status int

const (
	Future Status = iota
	Active
	Past
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Past:
		return "past"
	default:
		return "future"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// TotalMinutes returns the cycle length: the sum of all entry durations.
func TotalMinutes(entries []schedule.Entry) int {
	total := 0
	for _, e := range entries {
		total += e.Duration()
	}
	return total
}

// DerivedBlocks computes offsets for entries in a single left-to-right pass.
// The result depends only on entries, never on the current time.
func DerivedBlocks(entries []schedule.Entry) []Block {
	blocks := make([]Block, 0, len(entries))
	offset := 0
	for i, e := range entries {
		d := e.Duration()
		blocks = append(blocks, Block{
			Entry:       e,
			Index:       i,
			OffsetStart: offset,
			OffsetEnd:   offset + d,
			Duration:    d,
		})
		offset += d
	}
	return blocks
}

// RelativeNow returns the minutes elapsed since the cycle start (the first
// entry's start time) for the wall-clock time of now, normalized into
// [0, TotalMinutes(entries)). Only now's hour and minute are used.
//
// It panics if entries is empty or the cycle has zero length.
func RelativeNow(entries []schedule.Entry, now time.Time) int {
	if len(entries) == 0 {
		panic("timeline: RelativeNow called with an empty schedule")
	}
	return relativeNow(entries[0].Start, TotalMinutes(entries), now)
}

func relativeNow(dayStart schedule.Clock, total int, now time.Time) int {
	if total <= 0 {
		panic("timeline: cycle length must be positive")
	}
	raw := schedule.ClockOf(now).Minutes() - dayStart.Minutes()
	// Go's % keeps the sign of the dividend; times before dayStart give a
	// negative raw value that must land at the end of the cycle.
	return ((raw % total) + total) % total
}

// FindActiveBlock returns the first block containing rel. If none does, the
// first block is returned. blocks must not be empty.
func FindActiveBlock(blocks []Block, rel int) Block {
	for _, b := range blocks {
		if b.Contains(rel) {
			return b
		}
	}
	return blocks[0]
}

// FindNextBlock returns the first block starting at or after active ends,
// wrapping to the first block of the next cycle. blocks must not be empty.
func FindNextBlock(blocks []Block, active Block) Block {
	for _, b := range blocks {
		if b.OffsetStart >= active.OffsetEnd {
			return b
		}
	}
	return blocks[0]
}

// Upcoming returns, in schedule order, at most limit blocks that start after
// rel. It does not wrap into the next cycle, so near the end of the cycle the
// result may be shorter than limit or empty.
func Upcoming(blocks []Block, rel, limit int) []Block {
	out := make([]Block, 0, max(limit, 0))
	if limit <= 0 {
		return out
	}
	for _, b := range blocks {
		if b.OffsetStart > rel {
			out = append(out, b)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// DayProgress returns rel/total clamped to [0, 1]. It panics if total is
// not positive.
func DayProgress(rel, total int) float64 {
	if total <= 0 {
		panic("timeline: cycle length must be positive")
	}
	p := float64(rel) / float64(total)
	return min(max(p, 0), 1)
}

// CycleStart returns the wall-clock instant at which the cycle containing now
// began, given now's relative offset.
func CycleStart(now time.Time, rel int) time.Time {
	minute := schedule.ClockOf(now).On(now)
	return minute.Add(-time.Duration(rel) * time.Minute)
}
