// Package mouth renders dual-lip mouth frames onto the display: a bounded
// clear band, fixed corner anchors on the baseline, and a segmented inner
// region with clamped signed offsets.
package mouth

import (
	"math"

	"github.com/normanking/cortexface/internal/display"
	"github.com/normanking/cortexface/internal/face"
)

// Params are the layout tuning knobs, fixed at initialization.
type Params struct {
	// WidthFactor scales the mouth width against the display width.
	WidthFactor float64
	// BaselineOffset is the mouth baseline distance from the bottom edge.
	BaselineOffset int
	// ExtraDown drops the mouth further below the eye rig.
	ExtraDown int
}

// DefaultParams returns the tuning carried over from the device.
func DefaultParams() Params {
	return Params{
		WidthFactor:    0.55 * (2.0 / 3.0),
		BaselineOffset: 18,
		ExtraDown:      20,
	}
}

// Box is the mouth bounding geometry: centered horizontally, anchored to a
// baseline row. Computed once at startup and read-only afterwards.
type Box struct {
	X     int // left edge
	BaseY int // baseline row
	Width int
}

// Layout positions the mouth relative to the eye rig. eyeCy and eyeRWhite
// are the current eye vertical center and white radius; centerDelta is how
// far the rig has shifted up from its default position. The baseline is
// clamped between the bottom of the eyes and the bottom edge of the panel.
func Layout(c display.Canvas, p Params, eyeCy, eyeRWhite, centerDelta int) Box {
	w := c.Width()
	h := c.Height()

	baseY := h - p.BaselineOffset - centerDelta + p.ExtraDown
	lo := eyeCy + eyeRWhite + 8
	hi := h - 4
	if baseY < lo {
		baseY = lo
	}
	if baseY > hi {
		baseY = hi
	}

	mouthW := int(math.Round(float64(w) * p.WidthFactor))
	return Box{
		X:     (w - mouthW) / 2,
		BaseY: baseY,
		Width: mouthW,
	}
}

// DrawFrame renders a mouth frame into the box. The routine is idempotent:
// drawing the same frame twice from the same box produces identical pixels.
// Only the mouth clear band is touched.
func DrawFrame(c display.Canvas, box Box, mf face.MouthFrame) {
	// Clear a band around the baseline so larger amplitudes don't ghost.
	clearY0 := box.BaseY - face.MaxDY - face.ClearPad
	clearY1 := box.BaseY + face.MaxDY + face.ClearPad
	c.FillRect(box.X, clearY0, box.Width, clearY1-clearY0+1, display.Black)

	// Fixed anchors at the baseline, flush to both edges.
	c.HLine(box.X, box.BaseY, face.AnchorPX, display.White)
	c.HLine(box.X+box.Width-face.AnchorPX, box.BaseY, face.AnchorPX, display.White)

	innerW := box.Width - 2*face.AnchorPX
	if innerW <= 0 {
		return
	}

	// Even partition via a float accumulator; the last segment's right edge
	// is forced onto the right anchor so rounding can't leave a gap.
	step := float64(innerW) / float64(face.Segments)
	x := box.X + face.AnchorPX
	for i := 0; i < face.Segments; i++ {
		var nextX int
		if i == face.Segments-1 {
			nextX = box.X + box.Width - face.AnchorPX
		} else {
			nextX = box.X + face.AnchorPX + int(math.Round(step*float64(i+1)))
		}
		w := nextX - x
		if w < 1 {
			w = 1
		}

		uy := clampOffset(int(mf.Upper[i]))
		ly := clampOffset(int(mf.Lower[i]))

		c.HLine(x, box.BaseY-uy, w, display.White)
		c.HLine(x, box.BaseY-ly, w, display.White)

		x = nextX
	}
}

// DrawMood renders the frame for a mood.
func DrawMood(c display.Canvas, box Box, m face.MouthMood) {
	DrawFrame(c, box, face.MoodFrame(m))
}

// DrawTalkFrame renders a talk bank frame; the index wraps cyclically.
func DrawTalkFrame(c display.Canvas, box Box, idx int) {
	DrawFrame(c, box, face.TalkFrame(idx))
}

func clampOffset(v int) int {
	if v < -face.MaxDY {
		return -face.MaxDY
	}
	if v > face.MaxDY {
		return face.MaxDY
	}
	return v
}
