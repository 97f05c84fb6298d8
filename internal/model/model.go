package model

import (
	"time"

	"dayflow/internal/schedule"
)

// Occurrence represents a single dated instance of a schedule entry
// (after daily recurrence expansion in the display timezone).
type Occurrence struct {
	// UID is the stable identifier of the recurring entry, shared by all of
	// its occurrences and by the exported VEVENT.
	UID string `json:"uid"`

	// InstanceKey uniquely identifies a single occurrence, derived from the
	// local start time.
	InstanceKey string `json:"instance_key"`

	// Index is the entry's position in the schedule.
	Index int `json:"index"`

	Title    string            `json:"title"`
	Category schedule.Category `json:"category"`
	Details  []string          `json:"details"`

	// Start / End are in the configured display timezone.
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns End - Start.
func (o Occurrence) Duration() time.Duration {
	return o.End.Sub(o.Start)
}
