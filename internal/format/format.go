// Package format renders numbers, durations, clock times and dashboard text
// for a configured locale using golang.org/x/text.
package format

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"golang.org/x/text/number"

	"dayflow/internal/schedule"
)

// Formatter formats values for one locale. It is safe for concurrent use.
type Formatter struct {
	tag language.Tag
	p   *message.Printer
	// dates holds weekday/month names for locales Go's time package cannot
	// render; nil means English via time.Format.
	dates *dateNames
}

// New returns a Formatter for locale (a BCP 47 tag such as "en" or "bn-BD").
// Unparseable tags fall back to English.
func New(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	base, _ := tag.Base()

	b := catalog.NewBuilder(catalog.Fallback(language.English))
	if msgs, ok := translations[base.String()]; ok {
		for key, msg := range msgs {
			// Register under the exact tag so region variants match.
			_ = b.SetString(tag, key, msg)
		}
	}

	return &Formatter{
		tag:   tag,
		p:     message.NewPrinter(tag, message.Catalog(b)),
		dates: dateTables[base.String()],
	}
}

// Locale returns the BCP 47 tag in use.
func (f *Formatter) Locale() string {
	return f.tag.String()
}

// T translates a UI message key and formats args into it.
func (f *Formatter) T(key string, args ...any) string {
	return f.p.Sprintf(key, args...)
}

// Number formats n with locale digits and grouping.
func (f *Formatter) Number(n int) string {
	return f.p.Sprint(number.Decimal(n))
}

// Duration renders minutes as hours and minutes, dropping a zero part:
// "45 min", "2 hr", "1 hr 30 min".
func (f *Formatter) Duration(minutes int) string {
	hours := minutes / 60
	rest := minutes % 60

	switch {
	case hours == 0:
		return f.p.Sprintf("%d min", minutes)
	case rest == 0:
		return f.p.Sprintf("%d hr", hours)
	default:
		return f.p.Sprintf("%d hr %d min", hours, rest)
	}
}

// Clock renders a time of day on a 12-hour clock, e.g. "7:05 AM".
func (f *Formatter) Clock(c schedule.Clock) string {
	h := c.Hour % 12
	if h == 0 {
		h = 12
	}
	suffix := "AM"
	if c.Hour >= 12 {
		suffix = "PM"
	}
	return f.p.Sprint(number.Decimal(h)) + ":" +
		f.p.Sprint(number.Decimal(c.Minute, number.MinIntegerDigits(2))) + " " +
		f.T(suffix)
}

// Range renders "start – end".
func (f *Formatter) Range(start, end schedule.Clock) string {
	return f.Clock(start) + " – " + f.Clock(end)
}

// Time renders the time of day of t.
func (f *Formatter) Time(t time.Time) string {
	return f.Clock(schedule.ClockOf(t))
}

// Date renders weekday, day and month, e.g. "Sunday, 18 October".
func (f *Formatter) Date(t time.Time) string {
	if f.dates == nil {
		return t.Format("Monday, 2 January")
	}
	return f.dates.weekdays[t.Weekday()] + ", " + f.Number(t.Day()) + " " + f.dates.months[t.Month()-1]
}

// Percent renders ratio (0..1) as a whole percentage.
func (f *Formatter) Percent(ratio float64) string {
	return f.p.Sprintf("%d%%", int(math.Round(ratio*100)))
}
