package engine

import (
	"time"

	"github.com/normanking/cortexface/internal/display"
	"github.com/normanking/cortexface/internal/face"
	"github.com/normanking/cortexface/internal/mouth"
)

// Status is the externally visible driver state, served by telemetry.
type Status struct {
	Driver    string `json:"driver"`
	State     string `json:"state"`
	Mood      string `json:"mood"`
	TalkIndex int    `json:"talkIndex"`
}

// Driver decides what the mouth shows. Exactly one driver runs at a time,
// selected at startup; drivers share no mutable state with each other.
type Driver interface {
	Name() string
	// Start performs the initial render and schedules the first deadline.
	Start(now time.Time)
	// Tick checks deadlines and redraws if the state advanced.
	Tick(now time.Time)
	// Status reports the current state for telemetry.
	Status() Status
}

// labelBandHeight is the top text band reserved for mood labels.
const labelBandHeight = 20

// Stage is the drawing surface a driver renders through: mouth frames into
// the fixed mouth box, labels into the top band.
type Stage struct {
	surface display.Surface
	box     mouth.Box
	labels  bool
}

// NewStage wires a stage over a surface. labels controls whether mood labels
// are drawn at all; the debug cycler enables them, production normally not.
func NewStage(surface display.Surface, box mouth.Box, labels bool) *Stage {
	return &Stage{surface: surface, box: box, labels: labels}
}

// Box returns the mouth geometry the stage draws into.
func (s *Stage) Box() mouth.Box { return s.box }

// ShowMood renders the frame for a mood.
func (s *Stage) ShowMood(m face.MouthMood) {
	mouth.DrawMood(s.surface, s.box, m)
}

// ShowTalkFrame renders a talk bank frame.
func (s *Stage) ShowTalkFrame(idx int) {
	mouth.DrawTalkFrame(s.surface, s.box, idx)
}

// ShowLabel clears the label band and draws text into it, when enabled.
func (s *Stage) ShowLabel(text string) {
	s.surface.FillRect(0, 0, s.surface.Width(), labelBandHeight, display.Black)
	if !s.labels {
		return
	}
	s.surface.SetLabel(text)
}

// ClearLabel blanks the label band.
func (s *Stage) ClearLabel() {
	s.surface.FillRect(0, 0, s.surface.Width(), labelBandHeight, display.Black)
	s.surface.ClearLabel()
}
