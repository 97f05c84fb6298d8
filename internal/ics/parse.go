package ics

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/hashicorp/go-multierror"

	appLog "dayflow/internal/log"
	"dayflow/internal/schedule"
)

// ParsedEvent is the normalized representation of a VEVENT as produced by
// the ICS parser.
type ParsedEvent struct {
	UID string

	Summary     string
	Description string
	Categories  []string

	Start time.Time
	End   time.Time

	RawRRule string
}

// ParseICS parses a single ICS payload into a list of ParsedEvent. name is
// only used for logging.
//
//   - Start/End use the library's DTSTART/DTEND handling, falling back to a
//     plain parse of the property value.
//   - RRULE is recorded but not expanded.
func ParseICS(name string, body []byte) ([]ParsedEvent, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err, "source", name)
		return nil, err
	}

	events := make([]ParsedEvent, 0)

	for _, comp := range cal.Events() {
		ev, perr := parseVEvent(comp)
		if perr != nil {
			// Log and skip this event, but keep parsing others.
			appLog.Error("ics vevent parse failed", perr, "source", name)
			continue
		}
		events = append(events, ev)
	}

	appLog.Debug("ics parse completed", "source", name, "event_count", len(events))
	return events, nil
}

func parseVEvent(ve *ical.VEvent) (ParsedEvent, error) {
	var out ParsedEvent

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return out, errors.New("missing UID")
	}
	out.UID = uidProp.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = p.Value
	}
	for _, p := range ve.GetProperties(ical.ComponentPropertyCategories) {
		for _, c := range strings.Split(p.Value, ",") {
			if c = strings.TrimSpace(c); c != "" {
				out.Categories = append(out.Categories, c)
			}
		}
	}

	start, err := eventTime(ve, ical.ComponentPropertyDtStart, ve.GetStartAt)
	if err != nil {
		return out, fmt.Errorf("DTSTART: %w", err)
	}
	end, err := eventTime(ve, ical.ComponentPropertyDtEnd, ve.GetEndAt)
	if err != nil {
		return out, fmt.Errorf("DTEND: %w", err)
	}
	out.Start = start
	out.End = end

	if rruleProp := ve.GetProperty(ical.ComponentPropertyRrule); rruleProp != nil {
		out.RawRRule = rruleProp.Value
	}

	return out, nil
}

func eventTime(ve *ical.VEvent, prop ical.ComponentProperty, get func() (time.Time, error)) (time.Time, error) {
	if t, err := get(); err == nil {
		return t, nil
	}
	p := ve.GetProperty(prop)
	if p == nil {
		return time.Time{}, errors.New("missing property")
	}
	return parseICSTime(p.Value)
}

// ImportSchedule reads a calendar (typically one produced by Export) back
// into a schedule. Events are ordered by start time; each event's CATEGORIES
// must name a known category and DESCRIPTION lines become details. The result
// is not validated.
func ImportSchedule(body []byte) (*schedule.Schedule, error) {
	events, err := ParseICS("import", body)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("ics: import: %w", schedule.ErrNoEntries)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})

	var result *multierror.Error
	s := &schedule.Schedule{}
	for _, ev := range events {
		cat := schedule.Routine
		if len(ev.Categories) > 0 {
			c, err := schedule.ParseCategory(ev.Categories[0])
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("event %q: %w", ev.Summary, err))
				continue
			}
			cat = c
		}
		s.Entries = append(s.Entries, schedule.Entry{
			Start:    schedule.ClockOf(ev.Start),
			End:      schedule.ClockOf(ev.End),
			Title:    ev.Summary,
			Category: cat,
			Details:  splitDetails(ev.Description),
		})
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	s.FillDefaults()
	return s, nil
}

func splitDetails(desc string) []string {
	var out []string
	for _, line := range strings.Split(desc, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// parseICSTime parses a basic ICS date/date-time string into time.Time.
// Floating and date-only values are interpreted in time.Local.
func parseICSTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}

	// UTC form, e.g., 20250101T090000Z
	if strings.HasSuffix(v, "Z") {
		const layout = "20060102T150405Z"
		return time.Parse(layout, v)
	}

	// Local date-time, e.g., 20250101T090000
	if strings.Contains(v, "T") {
		return time.ParseInLocation(floatingLayout, v, time.Local)
	}

	// Date-only (all-day), e.g., 20250101
	const layoutDate = "20060102"
	return time.ParseInLocation(layoutDate, v, time.Local)
}
