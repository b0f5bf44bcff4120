package rt

import (
	"fmt"
	"time"

	"github.com/ygrebnov/rt/metrics"
)

// Option configures a Runtime constructed by New.
type Option func(*config)

// WithMetrics installs the Provider the Runtime reports instruments to:
// rt_tasks_spawned_total, rt_tasks_completed_total, rt_tasks_dropped_total,
// rt_timers_armed_total, rt_timers_fired_total, rt_timers_zombie_total, and
// the rt_poll_loop_duration_seconds histogram. Passing a nil provider panics,
// the same way the teacher's functional options reject invalid arguments
// eagerly rather than at use time.
func WithMetrics(p metrics.Provider) Option {
	return func(c *config) {
		if p == nil {
			panic(fmt.Errorf("%w: WithMetrics requires a non-nil provider", ErrInvalidOption))
		}
		c.metrics = p
	}
}

// WithClock overrides the clock the timer wheel reads. Intended for tests
// that need deterministic control over elapsed time; production callers
// should leave this at its time.Now default.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now == nil {
			panic(fmt.Errorf("%w: WithClock requires a non-nil function", ErrInvalidOption))
		}
		c.clock = now
	}
}
