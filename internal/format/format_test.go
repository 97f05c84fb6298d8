package format

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dayflow/internal/schedule"
)

func TestDurationEnglish(t *testing.T) {
	f := New("en")
	assert.Equal(t, "45 min", f.Duration(45))
	assert.Equal(t, "2 hr", f.Duration(120))
	assert.Equal(t, "1 hr 30 min", f.Duration(90))
	assert.Equal(t, "0 min", f.Duration(0))
}

func TestClockEnglish(t *testing.T) {
	f := New("en-US")
	assert.Equal(t, "7:05 AM", f.Clock(schedule.MustClock("07:05")))
	assert.Equal(t, "12:00 PM", f.Clock(schedule.MustClock("12:00")))
	assert.Equal(t, "12:30 AM", f.Clock(schedule.MustClock("00:30")))
	assert.Equal(t, "11:30 PM", f.Clock(schedule.MustClock("23:30")))
	assert.Equal(t, "11:30 PM – 7:00 AM", f.Range(schedule.MustClock("23:30"), schedule.MustClock("07:00")))
}

func TestDateAndPercentEnglish(t *testing.T) {
	f := New("en")
	d := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "Sunday, 18 October", f.Date(d))
	assert.Equal(t, "9:00 AM", f.Time(d))
	assert.Equal(t, "35%", f.Percent(0.349))
	assert.Equal(t, "All done!", f.T("All done!"))
	assert.Equal(t, "35% done", f.T("%s done", f.Percent(0.35)))
}

func TestBengaliStrings(t *testing.T) {
	f := New("bn-BD")
	assert.Equal(t, "bn-BD", f.Locale())
	assert.Equal(t, "সব কাজ শেষ!", f.T("All done!"))
	assert.True(t, strings.Contains(f.Duration(90), "ঘন্টা"), f.Duration(90))
	assert.True(t, strings.Contains(f.Duration(90), "মিনিট"), f.Duration(90))
	assert.True(t, strings.HasPrefix(f.Date(time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)), "রবিবার, "))
}

func TestUnknownLocaleFallsBack(t *testing.T) {
	f := New("not a locale!")
	assert.Equal(t, "en", f.Locale())
	assert.Equal(t, "1 hr", f.Duration(60))
}
