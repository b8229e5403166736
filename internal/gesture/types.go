// Package gesture consumes the wireless gesture/orientation feed. The
// classification happens upstream on the sensing hardware; this package only
// receives already-classified events and degrades to idle animation when the
// link drops.
package gesture

import "time"

// Gesture is the small enumerated code emitted by the sensing ring.
type Gesture uint8

const (
	GestureNone Gesture = iota
	GestureNod
	GestureShake
	GestureTiltLeft
	GestureTiltRight
	GestureRaise
	GestureLower
)

// String returns the gesture name.
func (g Gesture) String() string {
	switch g {
	case GestureNone:
		return "none"
	case GestureNod:
		return "nod"
	case GestureShake:
		return "shake"
	case GestureTiltLeft:
		return "tilt_left"
	case GestureTiltRight:
		return "tilt_right"
	case GestureRaise:
		return "raise"
	case GestureLower:
		return "lower"
	default:
		return "unknown"
	}
}

// Sample is one notification from the feed: a gesture code plus a packed
// yaw/pitch orientation, sent at 20-30 Hz while the wearer is moving.
type Sample struct {
	Gesture   Gesture   `json:"gesture"`
	Yaw       float64   `json:"yaw"`   // degrees, [-180, 180]
	Pitch     float64   `json:"pitch"` // degrees, [-90, 90]
	Timestamp time.Time `json:"timestamp"`
}

// NormYaw maps yaw into [-1, 1] for the gaze target.
func (s Sample) NormYaw() float64 { return clamp(s.Yaw/180, -1, 1) }

// NormPitch maps pitch into [-1, 1] for the gaze target.
func (s Sample) NormPitch() float64 { return clamp(s.Pitch/90, -1, 1) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
