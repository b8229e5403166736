// Package engine runs the face: a drift-free frame clock, the drivers that
// decide what the mouth shows (random speech or the debug mood cycler), and
// the loop that sequences eyes, driver, and rendering each tick.
package engine

import (
	"context"
	"time"
)

// TickFunc is invoked once per frame. dt is the fixed tick duration in
// seconds; animators integrate over it.
type TickFunc func(now time.Time, dt float64)

// Clock fires a TickFunc at a fixed cadence. Each wake time is computed from
// the previous scheduled time, not from "now", so variable work duration
// cannot accumulate drift. If a tick overruns its period the next tick fires
// immediately and the schedule re-bases — one skipped interval, no backlog.
type Clock struct {
	period time.Duration
	now    func() time.Time
	sleep  func(time.Duration)
}

// NewClock returns a clock ticking at the given frames per second.
func NewClock(fps int) *Clock {
	if fps <= 0 {
		fps = 30
	}
	return &Clock{
		period: time.Second / time.Duration(fps),
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// Period returns the tick period.
func (c *Clock) Period() time.Duration { return c.period }

// Now reads the clock's time source. Callers scheduling against Run's ticks
// must use this, not time.Now, so deadlines share one source.
func (c *Clock) Now() time.Time { return c.now() }

// Run ticks until the context is canceled. The only suspension point is the
// wait between ticks; fn always runs to completion before the next wait.
func (c *Clock) Run(ctx context.Context, fn TickFunc) error {
	dt := c.period.Seconds()
	next := c.now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fn(c.now(), dt)

		next = next.Add(c.period)
		if d := next.Sub(c.now()); d > 0 {
			c.sleep(d)
		} else {
			// Overran the period: fire immediately, drop the lost interval.
			next = c.now()
		}
	}
}
