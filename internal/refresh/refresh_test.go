package refresh

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayflow/internal/schedule"
	"dayflow/internal/timeline"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func newEngine(t *testing.T) *timeline.Engine {
	t.Helper()
	e, err := timeline.New(schedule.Default().Entries)
	require.NoError(t, err)
	return e
}

func TestTickUsesClockAndLocation(t *testing.T) {
	loc := time.FixedZone("BDT", 6*3600)
	clk := &fakeClock{t: time.Date(2026, 10, 18, 1, 30, 0, 0, time.UTC)} // 07:30 local

	r := New(newEngine(t), WithClock(clk.Now), WithLocation(loc))
	st := r.State()
	assert.Equal(t, 30, st.RelativeNow)
	assert.Equal(t, "Wake up & reset", st.Active.Title)
	assert.Equal(t, loc, st.Now.Location())
	assert.Equal(t, 0, r.Ticks())

	clk.Set(time.Date(2026, 10, 18, 4, 20, 0, 0, time.UTC)) // 10:20 local
	st = r.Tick()
	assert.Equal(t, "Short break", st.Active.Title)
	assert.Equal(t, st, r.State())
	assert.Equal(t, 1, r.Ticks())
}

func TestHooksRunInOrder(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)}
	r := New(newEngine(t), WithClock(clk.Now), WithLocation(time.UTC))

	var calls []string
	r.OnTick(func(st timeline.CycleState) { calls = append(calls, "a:"+st.Active.Title) })
	r.OnTick(func(timeline.CycleState) { calls = append(calls, "b") })

	r.Tick()
	assert.Equal(t, []string{"a:Deep work: research", "b"}, calls)
}

func TestStartTicksImmediatelyAndStops(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)}
	r := New(newEngine(t), WithClock(clk.Now), WithLocation(time.UTC))

	ticked := make(chan struct{}, 1)
	r.OnTick(func(timeline.CycleState) {
		select {
		case ticked <- struct{}{}:
		default:
		}
	})

	require.NoError(t, r.Start("@every 1h"))
	select {
	case <-ticked:
	case <-time.After(time.Second):
		t.Fatal("Start did not tick")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, r.Stop(ctx))
	assert.Equal(t, 1, r.Ticks())
}

func TestStartRejectsBadSpec(t *testing.T) {
	r := New(newEngine(t))
	assert.Error(t, r.Start("every so often"))
	assert.Error(t, r.Schedule("nope", func() {}))
	assert.NoError(t, r.Schedule("*/15 * * * *", func() {}))
}

func TestInterval(t *testing.T) {
	assert.Equal(t, 30*time.Second, Interval(DefaultSpec))
	assert.Equal(t, 15*time.Minute, Interval("*/15 * * * *"))
	assert.Equal(t, time.Hour, Interval("@hourly"))
	assert.Equal(t, 30*time.Second, Interval("garbage"))
}
