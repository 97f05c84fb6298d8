package ics

import (
	"errors"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	appLog "dayflow/internal/log"
	"dayflow/internal/model"
	"dayflow/internal/schedule"
	"dayflow/internal/timeline"
)

const (
	defaultMaxOccurrencesPerEntry = 400
)

// ExpandConfig controls how the daily recurrence is expanded.
type ExpandConfig struct {
	// DisplayLocation is the timezone whose wall clock the schedule follows.
	// If nil, time.Local is used.
	DisplayLocation *time.Location

	// RangeStart / RangeEnd define the window; occurrences overlapping
	// [RangeStart, RangeEnd) are returned.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEntry is a safety cap for very long ranges. If zero,
	// defaultMaxOccurrencesPerEntry is used.
	MaxOccurrencesPerEntry int
}

// ExpandResult wraps the list of expanded occurrences and optionally
// information about truncation.
type ExpandResult struct {
	Occurrences []model.Occurrence
	// TruncatedUIDs records entries that hit the MaxOccurrencesPerEntry cap.
	TruncatedUIDs []string
}

// ExpandOccurrences places every schedule entry on the calendar for each day
// it occurs within the configured range, in start order. Each entry recurs
// daily at its wall-clock start time in DisplayLocation.
func ExpandOccurrences(s *schedule.Schedule, cfg ExpandConfig) (ExpandResult, error) {
	var result ExpandResult

	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return result, errors.New("expand: RangeEnd is before RangeStart")
	}
	if len(s.Entries) == 0 {
		return result, schedule.ErrNoEntries
	}
	if cfg.DisplayLocation == nil {
		cfg.DisplayLocation = time.Local
	}
	if cfg.MaxOccurrencesPerEntry <= 0 {
		cfg.MaxOccurrencesPerEntry = defaultMaxOccurrencesPerEntry
	}

	rangeStart := cfg.RangeStart.In(cfg.DisplayLocation)
	rangeEnd := cfg.RangeEnd.In(cfg.DisplayLocation)

	// Start one cycle early so entries already running at RangeStart are
	// included.
	anchor := s.Entries[0].Start.On(rangeStart).AddDate(0, 0, -1)

	out := make([]model.Occurrence, 0)
	for _, b := range timeline.DerivedBlocks(s.Entries) {
		occ, hitCap := expandBlock(b, anchor, rangeStart, rangeEnd, cfg.MaxOccurrencesPerEntry)
		out = append(out, occ...)
		if hitCap {
			uid := EntryUID(b.Index, b.Entry)
			result.TruncatedUIDs = append(result.TruncatedUIDs, uid)
			appLog.Error("expand: truncated occurrences for entry due to cap",
				errors.New("max occurrences reached"),
				"uid", uid,
				"cap", cfg.MaxOccurrencesPerEntry,
			)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})

	result.Occurrences = out
	return result, nil
}

func expandBlock(b timeline.Block, anchor, rangeStart, rangeEnd time.Time, limit int) ([]model.Occurrence, bool) {
	out := make([]model.Occurrence, 0)

	r, err := rrule.StrToRRule("FREQ=DAILY")
	if err != nil {
		appLog.Error("expand: failed to build daily rule", err)
		return out, false
	}
	r.DTStart(timeline.StartOf(anchor, b))

	var set rrule.Set
	set.RRule(r)

	dur := time.Duration(b.Duration) * time.Minute
	uid := EntryUID(b.Index, b.Entry)

	hitCap := false
	for _, start := range set.Between(rangeStart.Add(-dur), rangeEnd, true) {
		end := start.Add(dur)
		if !end.After(rangeStart) || !start.Before(rangeEnd) {
			continue
		}
		if len(out) == limit {
			hitCap = true
			break
		}
		out = append(out, model.Occurrence{
			UID:         uid,
			InstanceKey: start.Format(time.RFC3339),
			Index:       b.Index,
			Title:       b.Title,
			Category:    b.Category,
			Details:     b.Details,
			Start:       start,
			End:         end,
		})
	}
	return out, hitCap
}
