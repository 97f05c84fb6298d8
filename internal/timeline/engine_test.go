package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayflow/internal/schedule"
)

func TestNewFailsFast(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmptySchedule)

	_, err = New([]schedule.Entry{{Start: schedule.MustClock("09:00"), End: schedule.MustClock("09:00")}})
	assert.ErrorIs(t, err, ErrZeroCycle)
}

func TestEngineState(t *testing.T) {
	e, err := New(threeBlock())
	require.NoError(t, err)
	assert.Equal(t, 360, e.TotalMinutes())
	assert.Equal(t, schedule.MustClock("07:00"), e.DayStart())

	st := e.State(at(8, 0))
	assert.Equal(t, 60, st.RelativeNow)
	assert.Equal(t, 360, st.TotalMinutes)
	assert.Equal(t, "Build", st.Active.Title)
	assert.Equal(t, "Lunch", st.Next.Title)
	assert.InDelta(t, 60.0/360.0, st.Progress, 1e-9)
	assert.Equal(t, at(7, 0), st.CycleStart)
	require.Len(t, st.Upcoming, 1)
	assert.Equal(t, "Lunch", st.Upcoming[0].Title)

	require.Len(t, st.Timeline, 3)
	assert.Equal(t, Past, st.Timeline[0].Status)
	assert.Equal(t, Active, st.Timeline[1].Status)
	assert.Equal(t, Future, st.Timeline[2].Status)
	assert.Equal(t, 360, st.Totals.Sum())
}

func TestEngineStateBeforeCycleStart(t *testing.T) {
	e, err := New(threeBlock())
	require.NoError(t, err)

	st := e.State(at(6, 30))
	assert.Equal(t, 330, st.RelativeNow)
	assert.Equal(t, "Lunch", st.Active.Title)
	assert.Equal(t, "Wake", st.Next.Title)
	assert.Empty(t, st.Upcoming)
}

func TestEngineDefaultScheduleAtNight(t *testing.T) {
	e, err := New(schedule.Default().Entries, WithUpcomingLimit(2))
	require.NoError(t, err)
	assert.Equal(t, 2, e.UpcomingLimit())

	st := e.State(at(3, 0))
	assert.Equal(t, "Sleep", st.Active.Title)
	assert.Equal(t, "Wake up & reset", st.Next.Title)
	assert.Empty(t, st.Upcoming)
	assert.Equal(t, time.Date(2026, 10, 17, 7, 0, 0, 0, time.UTC), st.CycleStart)

	st = e.State(at(10, 20))
	assert.Equal(t, "Short break", st.Active.Title)
	assert.Len(t, st.Upcoming, 2)
	assert.Equal(t, "Script & record", st.Upcoming[0].Title)
	assert.Equal(t, at(10, 30), StartOf(st.CycleStart, st.Upcoming[0]))
}

func TestEngineCopiesAreIndependent(t *testing.T) {
	e, err := New(threeBlock())
	require.NoError(t, err)

	blocks := e.Blocks()
	blocks[0].Title = "changed"
	assert.Equal(t, "Wake", e.Blocks()[0].Title)

	totals := e.Totals()
	totals[schedule.Rest] = 0
	assert.Equal(t, 60, e.Totals()[schedule.Rest])
}

func TestEngineDetailsAreNotShared(t *testing.T) {
	entries := threeBlock()
	entries[0].Details = []string{"Water", "Stretch"}
	e, err := New(entries)
	require.NoError(t, err)

	entries[0].Details[0] = "from caller"
	assert.Equal(t, "Water", e.Blocks()[0].Details[0])

	blocks := e.Blocks()
	blocks[0].Details[0] = "from reader"
	blocks[0].Details = append(blocks[0].Details, "extra")
	assert.Equal(t, []string{"Water", "Stretch"}, e.Blocks()[0].Details)
}
