// Package view turns a cycle state into the strings and numbers the
// dashboards render. Both the HTML page and the terminal UI draw from the
// same Dashboard.
package view

import (
	"math"
	"strings"

	"dayflow/internal/format"
	"dayflow/internal/schedule"
	"dayflow/internal/timeline"
)

// MinProgressWidth keeps the progress bar visible right after the cycle
// starts.
const MinProgressWidth = 4.0

// Slot describes a single block on the dashboard.
type Slot struct {
	Index    int
	Title    string
	Category string
	Label    string
	Icon     string
	Accent   string
	Range    string
	Start    string
	Duration string
	Details  []string
	// Summary is the first two details joined for compact lists.
	Summary string
}

// Tile is one category's share of the cycle.
type Tile struct {
	Category string
	Label    string
	Icon     string
	Accent   string
	Minutes  int
	Duration string
	Share    float64
	Percent  string
}

// Item is a timeline row.
type Item struct {
	Slot
	Status timeline.Status
	Past   bool
	Active bool
	// Weight is the block's share of the cycle in percent.
	Weight float64
}

// Dashboard is the full presentation model for one tick.
type Dashboard struct {
	Locale   string
	Title    string
	Subtitle string

	Date    string
	Now     string
	Heading Headings

	Progress        float64
	ProgressLabel   string
	ProgressWidth   float64
	NowMarker       float64
	RelativeMinutes int
	TotalMinutes    int

	Active    Slot
	Remaining string
	Next      Slot

	Focus    []Tile
	Upcoming []Slot
	AllDone  bool
	Timeline []Item
}

// Headings are the localized section labels.
type Headings struct {
	Plan       string
	Now        string
	InProgress string
	Next       string
	Focus      string
	Upcoming   string
	AllDone    string
	Complete   string
	Timeline   string
}

// Build assembles the dashboard for st.
func Build(s *schedule.Schedule, st timeline.CycleState, f *format.Formatter) Dashboard {
	d := Dashboard{
		Locale:   f.Locale(),
		Title:    s.Title,
		Subtitle: s.Subtitle,
		Date:     f.Date(st.Now),
		Now:      f.Time(st.Now),
		Heading: Headings{
			Plan:       f.T("Today's plan"),
			Now:        f.T("Now"),
			InProgress: f.T("In progress"),
			Next:       f.T("Next"),
			Focus:      f.T("Focus zones"),
			Upcoming:   f.T("Next few steps"),
			AllDone:    f.T("All done!"),
			Complete:   f.T("Today's plan is complete."),
			Timeline:   f.T("Daily timeline"),
		},
		Progress:        st.Progress,
		ProgressLabel:   f.T("%s done", f.Percent(st.Progress)),
		ProgressWidth:   ProgressWidth(st.Progress),
		NowMarker:       share(st.RelativeNow, st.TotalMinutes),
		RelativeMinutes: st.RelativeNow,
		TotalMinutes:    st.TotalMinutes,
		Active:          slot(s, st.Active, f),
		Remaining:       f.Duration(st.Active.OffsetEnd - st.RelativeNow),
		Next:            slot(s, st.Next, f),
	}

	for _, ct := range st.Totals.Ordered() {
		m := s.Meta(ct.Category)
		ratio := 0.0
		if st.TotalMinutes > 0 {
			ratio = float64(ct.Minutes) / float64(st.TotalMinutes)
		}
		d.Focus = append(d.Focus, Tile{
			Category: ct.Category.String(),
			Label:    m.Label,
			Icon:     m.Icon,
			Accent:   m.Accent,
			Minutes:  ct.Minutes,
			Duration: f.Duration(ct.Minutes),
			Share:    ratio,
			Percent:  f.Percent(ratio),
		})
	}

	for _, b := range st.Upcoming {
		d.Upcoming = append(d.Upcoming, slot(s, b, f))
	}
	d.AllDone = len(d.Upcoming) == 0

	for _, bs := range st.Timeline {
		d.Timeline = append(d.Timeline, Item{
			Slot:   slot(s, bs.Block, f),
			Status: bs.Status,
			Past:   bs.Status == timeline.Past,
			Active: bs.Status == timeline.Active,
			Weight: share(bs.Duration, st.TotalMinutes),
		})
	}
	return d
}

// ProgressWidth is the bar width in percent for progress p, never below
// MinProgressWidth.
func ProgressWidth(p float64) float64 {
	return math.Max(p*100, MinProgressWidth)
}

func share(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func slot(s *schedule.Schedule, b timeline.Block, f *format.Formatter) Slot {
	m := s.Meta(b.Category)
	return Slot{
		Index:    b.Index,
		Title:    b.Title,
		Category: b.Category.String(),
		Label:    m.Label,
		Icon:     m.Icon,
		Accent:   m.Accent,
		Range:    f.Range(b.Start, b.End),
		Start:    f.Clock(b.Start),
		Duration: f.Duration(b.Duration),
		Details:  b.Details,
		Summary:  summary(b.Details, 2),
	}
}

func summary(details []string, n int) string {
	if len(details) > n {
		details = details[:n]
	}
	return strings.Join(details, ", ")
}
