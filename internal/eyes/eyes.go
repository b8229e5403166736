// Package eyes animates the eye rig: two whites with wandering pupils,
// periodic blinks, and lids. The rest of the face only consumes the rig's
// vertical center delta; everything else stays internal to this package.
package eyes

import (
	"math"
	"math/rand"
	"sync"

	"github.com/normanking/cortexface/internal/display"
)

// FPSDefault is the frame cadence the whole face runs at.
const FPSDefault = 30

// Layout fixes the rig geometry. Values are tuned for a 320x240 panel and
// scale from the display size in DefaultLayout.
type Layout struct {
	CxLeft  int // left eye center x
	CxRight int // right eye center x
	Cy      int // eye vertical center
	RWhite  int // white (sclera) radius
	RPupil  int // pupil radius
}

// DefaultLayout derives the rig geometry from the display size.
func DefaultLayout(w, h int) Layout {
	r := h / 6
	return Layout{
		CxLeft:  w/2 - w/5,
		CxRight: w/2 + w/5,
		Cy:      h / 3,
		RWhite:  r,
		RPupil:  r / 3,
	}
}

// Blink and saccade cadence. Intervals are randomized per event.
const (
	blinkMinSec   = 2.5
	blinkMaxSec   = 5.5
	blinkDurSec   = 0.24
	saccadeMinSec = 1.5
	saccadeMaxSec = 4.0
	gazeEaseRate  = 8.0
)

// Animator owns the mutable eye state and advances it once per tick.
type Animator struct {
	layout Layout
	baseCy int
	rng    *rand.Rand

	gazeX, gazeY     float64
	targetX, targetY float64
	untilSaccade     float64

	untilBlink float64
	blinkLeft  float64 // remaining blink time, 0 when open
	external   bool    // gaze currently driven by the gesture feed

	// Pending external gaze input. The gesture receiver writes here from its
	// own goroutine; Update drains it at tick start, so every other field is
	// touched by the tick goroutine only.
	extMu      sync.Mutex
	extSet     bool
	extReset   bool
	extX, extY float64
}

// New returns an animator in the open-eyed, centered-gaze starting state.
func New(layout Layout, rng *rand.Rand) *Animator {
	a := &Animator{
		layout: layout,
		baseCy: layout.Cy,
		rng:    rng,
	}
	a.untilBlink = a.interval(blinkMinSec, blinkMaxSec)
	a.untilSaccade = a.interval(saccadeMinSec, saccadeMaxSec)
	return a
}

// Update advances blink, gaze, and lid state by dt seconds.
func (a *Animator) Update(dt float64) {
	a.applyExternal()

	// Blink bookkeeping.
	if a.blinkLeft > 0 {
		a.blinkLeft -= dt
		if a.blinkLeft < 0 {
			a.blinkLeft = 0
		}
	} else {
		a.untilBlink -= dt
		if a.untilBlink <= 0 {
			a.blinkLeft = blinkDurSec
			a.untilBlink = a.interval(blinkMinSec, blinkMaxSec)
		}
	}

	// Autonomous gaze wander, suspended while the gesture feed drives it.
	if !a.external {
		a.untilSaccade -= dt
		if a.untilSaccade <= 0 {
			limit := float64(a.layout.RWhite-a.layout.RPupil) * 0.6
			a.targetX = (a.rng.Float64()*2 - 1) * limit
			a.targetY = (a.rng.Float64()*2 - 1) * limit * 0.5
			a.untilSaccade = a.interval(saccadeMinSec, saccadeMaxSec)
		}
	}

	// Ease the pupils toward the target.
	k := gazeEaseRate * dt
	if k > 1 {
		k = 1
	}
	a.gazeX += (a.targetX - a.gazeX) * k
	a.gazeY += (a.targetY - a.gazeY) * k
}

// Draw renders both eyes. Only the two eye bounding boxes are touched.
func (a *Animator) Draw(c display.Canvas) {
	for _, cx := range []int{a.layout.CxLeft, a.layout.CxRight} {
		a.drawEye(c, cx)
	}
}

func (a *Animator) drawEye(c display.Canvas, cx int) {
	l := a.layout
	r := l.RWhite

	// Clear the eye box, then sclera and pupil.
	c.FillRect(cx-r-1, l.Cy-r-1, 2*r+3, 2*r+3, display.Black)
	c.FillCircle(cx, l.Cy, r, display.White)
	px := cx + int(math.Round(a.gazeX))
	py := l.Cy + int(math.Round(a.gazeY))
	c.FillCircle(px, py, l.RPupil, display.Black)

	// Lid: a black band dropping from the top of the eye while blinking.
	if lid := a.lidFraction(); lid > 0 {
		h := int(math.Round(lid * float64(2*r+1)))
		c.FillRect(cx-r-1, l.Cy-r-1, 2*r+3, h+1, display.Black)
	}
}

// lidFraction returns how closed the lids are, 0 (open) to 1 (shut).
// The blink closes and reopens symmetrically over its duration.
func (a *Animator) lidFraction() float64 {
	if a.blinkLeft <= 0 {
		return 0
	}
	phase := 1 - a.blinkLeft/blinkDurSec // 0 -> 1 over the blink
	return math.Sin(phase * math.Pi)
}

// CenterDelta is the rig's vertical shift from its default position,
// positive when the eyes moved up. The mouth layout consumes only this.
func (a *Animator) CenterDelta() int {
	return a.baseCy - a.layout.Cy
}

// Layout returns the rig geometry.
func (a *Animator) Layout() Layout { return a.layout }

// applyExternal drains the pending gesture input into the gaze state.
func (a *Animator) applyExternal() {
	a.extMu.Lock()
	set, reset := a.extSet, a.extReset
	x, y := a.extX, a.extY
	a.extSet, a.extReset = false, false
	a.extMu.Unlock()

	if reset {
		a.external = false
		a.targetX, a.targetY = 0, 0
		a.untilSaccade = a.interval(saccadeMinSec, saccadeMaxSec)
	}
	if set {
		limit := float64(a.layout.RWhite-a.layout.RPupil) * 0.8
		a.targetX = x * limit
		a.targetY = y * limit * 0.5
		a.external = true
	}
}

// SetGazeTarget aims the pupils from an external orientation sample. Values
// are normalized [-1, 1] and clamped; out-of-range input cannot push the
// pupil outside the white. Safe to call from any goroutine; the target takes
// effect on the next Update.
func (a *Animator) SetGazeTarget(x, y float64) {
	a.extMu.Lock()
	a.extX = clampF(x, -1, 1)
	a.extY = clampF(y, -1, 1)
	a.extSet = true
	a.extReset = false
	a.extMu.Unlock()
}

// ResetGaze returns the rig to autonomous idle wander, used when the
// gesture link is lost. Safe to call from any goroutine; takes effect on
// the next Update.
func (a *Animator) ResetGaze() {
	a.extMu.Lock()
	a.extReset = true
	a.extSet = false
	a.extMu.Unlock()
}

func (a *Animator) interval(lo, hi float64) float64 {
	return lo + a.rng.Float64()*(hi-lo)
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
