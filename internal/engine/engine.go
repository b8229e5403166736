package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/normanking/cortexface/internal/display"
	"github.com/normanking/cortexface/internal/eyes"
)

// Engine sequences one frame: eye update, then driver tick. Rendering for a
// tick completes fully before the next wait begins; the whole core runs on
// a single goroutine and owns the frame buffer exclusively.
type Engine struct {
	clock  *Clock
	canvas display.Canvas
	eyes   *eyes.Animator
	driver Driver
	log    zerolog.Logger

	// tickObserver, when set, receives the work duration of each tick.
	tickObserver func(time.Duration)
}

// New assembles the engine around a canvas, eye rig, and driver.
func New(clock *Clock, canvas display.Canvas, rig *eyes.Animator, driver Driver, logger zerolog.Logger) *Engine {
	return &Engine{
		clock:  clock,
		canvas: canvas,
		eyes:   rig,
		driver: driver,
		log:    logger.With().Str("component", "engine").Logger(),
	}
}

// SetTickObserver registers a per-tick work duration callback (metrics).
func (e *Engine) SetTickObserver(fn func(time.Duration)) {
	e.tickObserver = fn
}

// Run draws the startup frame and ticks until the context is canceled.
func (e *Engine) Run(ctx context.Context) error {
	e.log.Info().
		Str("driver", e.driver.Name()).
		Dur("period", e.clock.Period()).
		Msg("starting frame loop")

	e.canvas.Fill(display.Black)
	e.eyes.Draw(e.canvas)
	e.driver.Start(e.clock.Now())

	err := e.clock.Run(ctx, e.tick)
	e.log.Info().Msg("frame loop stopped")
	return err
}

// tick is one frame: eyes always update first, then the driver evaluates
// its deadlines and redraws the mouth if needed.
func (e *Engine) tick(now time.Time, dt float64) {
	start := time.Now()

	e.eyes.Update(dt)
	e.eyes.Draw(e.canvas)
	e.driver.Tick(now)

	if e.tickObserver != nil {
		e.tickObserver(time.Since(start))
	}
}
