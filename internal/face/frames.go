// Package face holds the static expression data: mouth moods, the dual-lip
// frame geometry they map to, and the talk frame bank cycled during speech.
package face

// Geometry shared by every mouth frame. Mood frames and talk frames are
// drawn by the same segment engine, so these are fixed process-wide.
const (
	// Segments is the number of horizontal sub-segments between the anchors.
	Segments = 8
	// MaxDY bounds the vertical offset of any lip stroke from the baseline.
	MaxDY = 10
	// ClearPad widens the per-frame clear band beyond MaxDY to kill ghosting.
	ClearPad = 4
	// AnchorPX is the length of the fixed mouth-corner strokes.
	AnchorPX = 2
)

// MouthFrame is one drawable mouth shape: a signed vertical offset from the
// baseline for the upper and lower lip, per segment. Positive offsets are
// above the baseline. Frames are precomputed lookup data, never mutated.
type MouthFrame struct {
	Upper [Segments]int8
	Lower [Segments]int8
}

// MouthMood enumerates the static expressions shown while silent.
type MouthMood uint8

const (
	Neutral MouthMood = iota
	Smile
	Frown
	Puzzled
	Oooh
)

// String returns the human-readable mood name used for debug labels.
func (m MouthMood) String() string {
	switch m {
	case Neutral:
		return "Neutral"
	case Smile:
		return "Smile"
	case Frown:
		return "Frown"
	case Puzzled:
		return "Puzzled"
	case Oooh:
		return "Oooh"
	default:
		return "Unknown"
	}
}

// moodFrames maps each mood to its frame. Index order matches the
// MouthMood constants.
var moodFrames = [...]MouthFrame{
	Neutral: {
		Upper: [Segments]int8{0, 0, 0, 0, 0, 0, 0, 0},
		Lower: [Segments]int8{0, 0, 0, 0, 0, 0, 0, 0},
	},
	Smile: {
		Upper: [Segments]int8{0, -2, -4, -5, -5, -4, -2, 0},
		Lower: [Segments]int8{-1, -4, -6, -7, -7, -6, -4, -1},
	},
	Frown: {
		Upper: [Segments]int8{1, 3, 5, 6, 6, 5, 3, 1},
		Lower: [Segments]int8{0, 2, 4, 5, 5, 4, 2, 0},
	},
	Puzzled: {
		Upper: [Segments]int8{2, 3, 1, -1, -2, 0, 2, 3},
		Lower: [Segments]int8{0, 1, -1, -3, -4, -2, 0, 1},
	},
	Oooh: {
		Upper: [Segments]int8{0, 1, 3, 4, 4, 3, 1, 0},
		Lower: [Segments]int8{0, -1, -3, -4, -4, -3, -1, 0},
	},
}

// MoodFrame returns the frame for a mood. The lookup is total: moods outside
// the enum fall back to Neutral rather than faulting the render loop.
func MoodFrame(m MouthMood) MouthFrame {
	if int(m) >= len(moodFrames) {
		return moodFrames[Neutral]
	}
	return moodFrames[m]
}

// NumTalkFrames is the size of the talk frame bank.
const NumTalkFrames = 6

// talkFrames are transient open/closed shapes cycled rapidly while talking.
// Ordering is arbitrary; selection is random with no back-to-back repeats.
var talkFrames = [NumTalkFrames]MouthFrame{
	{ // nearly closed
		Upper: [Segments]int8{0, 1, 1, 2, 2, 1, 1, 0},
		Lower: [Segments]int8{0, -1, -1, -2, -2, -1, -1, 0},
	},
	{ // half open
		Upper: [Segments]int8{0, 2, 4, 5, 5, 4, 2, 0},
		Lower: [Segments]int8{0, -2, -4, -5, -5, -4, -2, 0},
	},
	{ // wide open
		Upper: [Segments]int8{1, 4, 7, 9, 9, 7, 4, 1},
		Lower: [Segments]int8{-1, -4, -7, -9, -9, -7, -4, -1},
	},
	{ // open left
		Upper: [Segments]int8{2, 5, 6, 4, 2, 1, 0, 0},
		Lower: [Segments]int8{-1, -4, -6, -5, -3, -1, 0, 0},
	},
	{ // open right
		Upper: [Segments]int8{0, 0, 1, 2, 4, 6, 5, 2},
		Lower: [Segments]int8{0, 0, -1, -3, -5, -6, -4, -1},
	},
	{ // narrow oo
		Upper: [Segments]int8{0, 0, 2, 5, 5, 2, 0, 0},
		Lower: [Segments]int8{0, 0, -2, -5, -5, -2, 0, 0},
	},
}

// TalkFrame returns the talk frame for an index. Indices wrap cyclically in
// both directions so a bad index can never corrupt the display.
func TalkFrame(idx int) MouthFrame {
	idx = (idx%NumTalkFrames + NumTalkFrames) % NumTalkFrames
	return talkFrames[idx]
}
