package timeline

import (
	"errors"
	"time"

	"dayflow/internal/schedule"
)

var (
	// ErrEmptySchedule is returned by New for a schedule without entries.
	ErrEmptySchedule = errors.New("timeline: schedule has no entries")
	// ErrZeroCycle is returned by New when all entries have zero duration.
	ErrZeroCycle = errors.New("timeline: schedule cycle has zero length")
)

// Engine memoizes the time-independent derivations of a static schedule
// (blocks, cycle length, category totals) and computes the per-tick state.
// It is immutable after New and safe for concurrent use.
type Engine struct {
	blocks   []Block
	total    int
	dayStart schedule.Clock
	totals   Totals
	limit    int
}

// Option configures an Engine.
type Option func(*Engine)

// WithUpcomingLimit sets how many upcoming blocks State reports.
func WithUpcomingLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.limit = n
		}
	}
}

// New derives the engine for entries. It fails fast on an empty schedule or
// a zero-length cycle.
func New(entries []schedule.Entry, opts ...Option) (*Engine, error) {
	if len(entries) == 0 {
		return nil, ErrEmptySchedule
	}
	total := TotalMinutes(entries)
	if total <= 0 {
		return nil, ErrZeroCycle
	}

	blocks := DerivedBlocks(entries)
	for i := range blocks {
		blocks[i] = blocks[i].clone()
	}
	e := &Engine{
		blocks:   blocks,
		total:    total,
		dayStart: entries[0].Start,
		totals:   AggregateByCategory(blocks),
		limit:    DefaultUpcomingLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Blocks returns a deep copy of the derived blocks.
func (e *Engine) Blocks() []Block {
	out := make([]Block, len(e.blocks))
	for i, b := range e.blocks {
		out[i] = b.clone()
	}
	return out
}

// TotalMinutes returns the cycle length.
func (e *Engine) TotalMinutes() int { return e.total }

// DayStart returns the time of day at which the cycle begins.
func (e *Engine) DayStart() schedule.Clock { return e.dayStart }

// UpcomingLimit returns the configured upcoming list length.
func (e *Engine) UpcomingLimit() int { return e.limit }

// Totals returns a copy of the per-category minutes.
func (e *Engine) Totals() Totals {
	out := make(Totals, len(e.totals))
	for c, m := range e.totals {
		out[c] = m
	}
	return out
}

// RelativeNow is RelativeNow over the memoized cycle.
func (e *Engine) RelativeNow(now time.Time) int {
	return relativeNow(e.dayStart, e.total, now)
}

// CycleState is everything the dashboard needs for one tick.
type CycleState struct {
	Now          time.Time
	CycleStart   time.Time
	RelativeNow  int
	TotalMinutes int
	Active       Block
	Next         Block
	Progress     float64
	Totals       Totals
	Upcoming     []Block
	Timeline     []BlockState
}

// BlockState pairs a block with its status at the sampled time.
type BlockState struct {
	Block
	Status Status `json:"status"`
}

// State computes the cycle state for now. now should already be in the
// display location.
func (e *Engine) State(now time.Time) CycleState {
	rel := e.RelativeNow(now)
	active := FindActiveBlock(e.blocks, rel)

	timeline := make([]BlockState, 0, len(e.blocks))
	for _, b := range e.blocks {
		timeline = append(timeline, BlockState{Block: b, Status: b.StatusAt(rel)})
	}

	return CycleState{
		Now:          now,
		CycleStart:   CycleStart(now, rel),
		RelativeNow:  rel,
		TotalMinutes: e.total,
		Active:       active,
		Next:         FindNextBlock(e.blocks, active),
		Progress:     DayProgress(rel, e.total),
		Totals:       e.Totals(),
		Upcoming:     Upcoming(e.blocks, rel, e.limit),
		Timeline:     timeline,
	}
}

// StartOf returns the wall-clock start of b within the cycle that began at
// cycleStart.
func StartOf(cycleStart time.Time, b Block) time.Time {
	return cycleStart.Add(time.Duration(b.OffsetStart) * time.Minute)
}
