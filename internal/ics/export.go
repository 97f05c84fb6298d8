package ics

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"dayflow/internal/schedule"
	"dayflow/internal/timeline"
)

// floatingLayout is a DATE-TIME without zone: the entry happens at the same
// wall-clock time wherever the subscriber is.
const floatingLayout = "20060102T150405"

// uidNamespace seeds name-based UUIDs so an entry keeps its UID across exports.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://dayflow.local/schedule"))

// EntryUID returns the stable UID of the entry at index.
func EntryUID(index int, e schedule.Entry) string {
	name := fmt.Sprintf("%d|%s|%s|%s|%s", index, e.Start, e.End, e.Category, e.Title)
	return uuid.NewSHA1(uidNamespace, []byte(name)).String() + "@dayflow"
}

// Export renders s as an iCalendar feed with one daily-recurring VEVENT per
// entry. The first occurrence of each entry is placed in the cycle that
// starts on anchor's calendar date.
func Export(s *schedule.Schedule, anchor time.Time) (string, error) {
	if len(s.Entries) == 0 {
		return "", fmt.Errorf("ics: export: %w", schedule.ErrNoEntries)
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//dayflow//daily schedule//EN")

	cycleStart := s.Entries[0].Start.On(anchor)
	stamp := time.Now().UTC()

	for _, b := range timeline.DerivedBlocks(s.Entries) {
		start := timeline.StartOf(cycleStart, b)
		end := start.Add(time.Duration(b.Duration) * time.Minute)

		ev := cal.AddEvent(EntryUID(b.Index, b.Entry))
		ev.SetDtStampTime(stamp)
		ev.SetProperty(ical.ComponentPropertyDtStart, start.Format(floatingLayout))
		ev.SetProperty(ical.ComponentPropertyDtEnd, end.Format(floatingLayout))
		ev.SetProperty(ical.ComponentPropertySummary, b.Title)
		if len(b.Details) > 0 {
			ev.SetProperty(ical.ComponentPropertyDescription, strings.Join(b.Details, "\n"))
		}
		ev.SetProperty(ical.ComponentPropertyCategories, b.Category.String())
		ev.AddRrule("FREQ=DAILY")
	}

	return cal.Serialize(), nil
}
