package engine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/normanking/cortexface/internal/bus"
	"github.com/normanking/cortexface/internal/face"
)

// SpeechState is the two-state talk/silence machine.
type SpeechState uint8

const (
	Silent SpeechState = iota
	Talking
)

// String returns the state name.
func (s SpeechState) String() string {
	if s == Talking {
		return "Talking"
	}
	return "Silent"
}

// dwellChoices are the only allowed state durations, in seconds.
var dwellChoices = [...]int{5, 10, 15, 20}

// Talking cadence: fast enough to read as speech.
const (
	talkSwapBase   = 160 * time.Millisecond
	talkSwapJitter = 40 * time.Millisecond
)

// silentMoods are the moods eligible while silent. Neutral is reserved for
// startup and the debug cycler.
var silentMoods = [...]face.MouthMood{face.Smile, face.Frown, face.Puzzled, face.Oooh}

// SpeechDriver is the production driver: random dwells of Silent (holding a
// random mood) and Talking (flapping through the talk bank). All randomness
// comes from the injected source, so a fixed seed makes a run deterministic.
type SpeechDriver struct {
	stage *Stage
	rng   *rand.Rand
	bus   *bus.EventBus
	log   zerolog.Logger

	mu         sync.RWMutex
	state      SpeechState
	mood       face.MouthMood
	talkIdx    int
	stateUntil time.Time
	nextSwap   time.Time
}

// NewSpeechDriver creates the production driver. The bus may be nil when no
// telemetry is attached.
func NewSpeechDriver(stage *Stage, rng *rand.Rand, eventBus *bus.EventBus, logger zerolog.Logger) *SpeechDriver {
	return &SpeechDriver{
		stage: stage,
		rng:   rng,
		bus:   eventBus,
		log:   logger.With().Str("component", "speech").Logger(),
	}
}

// Name identifies the driver.
func (d *SpeechDriver) Name() string { return "speech" }

// Start enters Silent with a fresh mood and dwell.
func (d *SpeechDriver) Start(now time.Time) {
	d.mu.Lock()
	d.enterSilent(now)
	d.mu.Unlock()
}

// Tick advances the state machine. Called once per frame from the engine
// loop; transitions only fire on deadline expiry.
func (d *SpeechDriver) Tick(now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !now.Before(d.stateUntil) {
		if d.state == Silent {
			d.enterTalking(now)
		} else {
			d.enterSilent(now)
		}
		return
	}

	// While talking, swap mouth frames at cadence. Silent holds its mood
	// with no redraw for the whole dwell.
	if d.state == Talking && !now.Before(d.nextSwap) {
		next := d.talkIdx
		for next == d.talkIdx {
			next = d.rng.Intn(face.NumTalkFrames)
		}
		d.talkIdx = next
		d.stage.ShowTalkFrame(d.talkIdx)
		d.nextSwap = now.Add(d.pickSwapDelay())
		d.publish(bus.EventTypeTalkFrame, map[string]any{"index": d.talkIdx})
	}
}

// Status reports the current state for telemetry.
func (d *SpeechDriver) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Status{
		Driver:    d.Name(),
		State:     d.state.String(),
		Mood:      d.mood.String(),
		TalkIndex: d.talkIdx,
	}
}

// enterSilent picks and holds a mood for the dwell. Caller holds d.mu.
func (d *SpeechDriver) enterSilent(now time.Time) {
	d.state = Silent
	dwell := d.pickDwell()
	d.stateUntil = now.Add(dwell)
	d.mood = silentMoods[d.rng.Intn(len(silentMoods))]

	d.stage.ShowMood(d.mood)
	d.stage.ShowLabel(d.mood.String())

	d.log.Debug().Str("mood", d.mood.String()).Dur("dwell", dwell).Msg("entering silent")
	d.publish(bus.EventTypeSpeechChanged, map[string]any{"state": Silent.String(), "dwellSec": int(dwell.Seconds())})
	d.publish(bus.EventTypeMoodChanged, map[string]any{"mood": d.mood.String()})
}

// enterTalking starts the flap animation at a random bank index. Caller
// holds d.mu.
func (d *SpeechDriver) enterTalking(now time.Time) {
	d.state = Talking
	dwell := d.pickDwell()
	d.stateUntil = now.Add(dwell)
	d.talkIdx = d.rng.Intn(face.NumTalkFrames)
	d.nextSwap = now.Add(d.pickSwapDelay())

	d.stage.ClearLabel()
	d.stage.ShowTalkFrame(d.talkIdx)

	d.log.Debug().Int("startIdx", d.talkIdx).Dur("dwell", dwell).Msg("entering talking")
	d.publish(bus.EventTypeSpeechChanged, map[string]any{"state": Talking.String(), "dwellSec": int(dwell.Seconds())})
	d.publish(bus.EventTypeTalkFrame, map[string]any{"index": d.talkIdx})
}

// pickDwell draws uniformly from the allowed duration set.
func (d *SpeechDriver) pickDwell() time.Duration {
	return time.Duration(dwellChoices[d.rng.Intn(len(dwellChoices))]) * time.Second
}

// pickSwapDelay is the talk cadence with fresh jitter: base ± jitter.
func (d *SpeechDriver) pickSwapDelay() time.Duration {
	jitterMs := int(talkSwapJitter / time.Millisecond)
	off := d.rng.Intn(2*jitterMs+1) - jitterMs
	return talkSwapBase + time.Duration(off)*time.Millisecond
}

func (d *SpeechDriver) publish(t bus.EventType, data map[string]any) {
	if d.bus == nil {
		return
	}
	d.bus.Publish(bus.Event{Type: t, Data: data})
}
