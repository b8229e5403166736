package engine

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/normanking/cortexface/internal/bus"
	"github.com/normanking/cortexface/internal/face"
)

// cycleHold is how long the cycler shows each mood.
const cycleHold = 5 * time.Second

// cycleOrder is the fixed sweep used for hardware validation.
var cycleOrder = [...]face.MouthMood{face.Neutral, face.Smile, face.Frown, face.Puzzled, face.Oooh}

// Cycler is the bring-up driver: it walks every mood in a fixed order with a
// fixed hold, wrapping forever, always labeling. Fully deterministic, no
// shared state with the speech driver.
type Cycler struct {
	stage *Stage
	bus   *bus.EventBus
	log   zerolog.Logger

	idx        int
	nextSwitch time.Time
}

// NewCycler creates the debug cycler.
func NewCycler(stage *Stage, eventBus *bus.EventBus, logger zerolog.Logger) *Cycler {
	return &Cycler{
		stage: stage,
		bus:   eventBus,
		log:   logger.With().Str("component", "cycler").Logger(),
	}
}

// Name identifies the driver.
func (c *Cycler) Name() string { return "cycler" }

// Start shows the first mood and schedules the first switch.
func (c *Cycler) Start(now time.Time) {
	c.idx = 0
	c.show(now)
}

// Tick advances to the next mood when the hold expires.
func (c *Cycler) Tick(now time.Time) {
	if now.Before(c.nextSwitch) {
		return
	}
	c.idx = (c.idx + 1) % len(cycleOrder)
	c.show(now)
}

// Status reports the current mood for telemetry.
func (c *Cycler) Status() Status {
	return Status{
		Driver: c.Name(),
		State:  Silent.String(),
		Mood:   cycleOrder[c.idx].String(),
	}
}

func (c *Cycler) show(now time.Time) {
	m := cycleOrder[c.idx]
	c.stage.ShowMood(m)
	c.stage.ShowLabel(m.String())
	c.nextSwitch = now.Add(cycleHold)

	c.log.Debug().Str("mood", m.String()).Msg("cycling mood")
	if c.bus != nil {
		c.bus.Publish(bus.Event{Type: bus.EventTypeCycleAdvanced, Data: map[string]any{"mood": m.String()}})
	}
}
