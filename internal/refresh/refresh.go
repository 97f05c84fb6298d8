// Package refresh owns the dashboard's notion of "now". A cron-driven tick
// samples the clock, derives the cycle state and publishes it to readers and
// hooks.
package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	appLog "dayflow/internal/log"
	"dayflow/internal/timeline"
)

// DefaultSpec re-derives the dashboard every 30 seconds.
const DefaultSpec = "@every 30s"

// Hook runs after every tick with the fresh state.
type Hook func(timeline.CycleState)

// Refresher recomputes the cycle state on a schedule. The tick is the only
// writer of the state; State may be called from any goroutine.
type Refresher struct {
	engine *timeline.Engine
	loc    *time.Location
	now    func() time.Time
	cron   *cron.Cron

	mu    sync.RWMutex
	state timeline.CycleState
	ticks int
	hooks []Hook
}

// Option configures a Refresher.
type Option func(*Refresher)

// WithClock replaces time.Now as the wall-clock source.
func WithClock(now func() time.Time) Option {
	return func(r *Refresher) { r.now = now }
}

// WithLocation sets the display timezone the clock is converted into.
func WithLocation(loc *time.Location) Option {
	return func(r *Refresher) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// New returns a stopped Refresher. Its state is computed once immediately so
// State is meaningful before Start.
func New(engine *timeline.Engine, opts ...Option) *Refresher {
	r := &Refresher{
		engine: engine,
		loc:    time.Local,
		now:    time.Now,
		cron:   cron.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.mu.Lock()
	r.state = r.engine.State(r.now().In(r.loc))
	r.mu.Unlock()
	return r
}

// OnTick registers a hook. Hooks run on the tick goroutine, in order.
func (r *Refresher) OnTick(h Hook) {
	r.mu.Lock()
	r.hooks = append(r.hooks, h)
	r.mu.Unlock()
}

// Tick samples the clock, stores the new state and runs the hooks.
func (r *Refresher) Tick() timeline.CycleState {
	st := r.engine.State(r.now().In(r.loc))

	r.mu.Lock()
	r.state = st
	r.ticks++
	hooks := make([]Hook, len(r.hooks))
	copy(hooks, r.hooks)
	r.mu.Unlock()

	appLog.Debug("tick",
		"relative_now", st.RelativeNow,
		"active", st.Active.Title,
		"progress", fmt.Sprintf("%.3f", st.Progress),
	)

	for _, h := range hooks {
		h(st)
	}
	return st
}

// State returns the state of the latest tick.
func (r *Refresher) State() timeline.CycleState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Ticks returns how many ticks have run.
func (r *Refresher) Ticks() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ticks
}

// Schedule adds another job to the refresher's cron, e.g. a periodic
// dashboard capture.
func (r *Refresher) Schedule(spec string, job func()) error {
	if _, err := r.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("refresh: schedule %q: %w", spec, err)
	}
	return nil
}

// Start runs one tick immediately and then on every occurrence of spec.
func (r *Refresher) Start(spec string) error {
	if spec == "" {
		spec = DefaultSpec
	}
	if _, err := r.cron.AddFunc(spec, func() { r.Tick() }); err != nil {
		return fmt.Errorf("refresh: tick spec %q: %w", spec, err)
	}
	r.Tick()
	r.cron.Start()
	appLog.Info("refresh started", "spec", spec)
	return nil
}

// Interval is the gap between two consecutive firings of spec, used to pace
// clients that poll at the tick rate. Specs that cannot be parsed fall back to
// 30 seconds.
func Interval(spec string) time.Duration {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return 30 * time.Second
	}
	first := sched.Next(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	return sched.Next(first).Sub(first)
}

// Stop cancels the timer and waits for running jobs to finish or ctx to
// expire.
func (r *Refresher) Stop(ctx context.Context) error {
	done := r.cron.Stop()
	select {
	case <-done.Done():
		appLog.Info("refresh stopped", "ticks", r.Ticks())
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
