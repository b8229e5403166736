package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/cortexface/internal/display"
	"github.com/normanking/cortexface/internal/face"
	"github.com/normanking/cortexface/internal/mouth"
)

func newTestStage(labels bool) (*Stage, *display.Framebuffer) {
	fb := display.NewFramebuffer(320, 240)
	box := mouth.Box{X: 101, BaseY: 200, Width: 117}
	return NewStage(fb, box, labels), fb
}

func newTestDriver(seed int64, labels bool) (*SpeechDriver, *display.Framebuffer) {
	stage, fb := newTestStage(labels)
	rng := rand.New(rand.NewSource(seed))
	return NewSpeechDriver(stage, rng, nil, zerolog.Nop()), fb
}

func allowedDwell(d time.Duration) bool {
	for _, s := range dwellChoices {
		if d == time.Duration(s)*time.Second {
			return true
		}
	}
	return false
}

func TestSpeechDriver_BootsIntoSilentWithValidMoodAndDwell(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		d, _ := newTestDriver(seed, false)
		t0 := time.Unix(1000, 0)
		d.Start(t0)

		require.Equal(t, Silent, d.state, "seed %d", seed)
		assert.Contains(t, silentMoods[:], d.mood, "seed %d: Neutral is reserved for startup/debug", seed)
		assert.True(t, allowedDwell(d.stateUntil.Sub(t0)), "seed %d: dwell %v not in {5,10,15,20}s", seed, d.stateUntil.Sub(t0))
	}
}

func TestSpeechDriver_SilentHoldsWithoutRedraw(t *testing.T) {
	d, fb := newTestDriver(1, false)
	t0 := time.Unix(1000, 0)
	d.Start(t0)
	after := fb.Snapshot()

	// Every tick inside the dwell must leave the display untouched.
	deadline := d.stateUntil
	for now := t0; now.Before(deadline); now = now.Add(33 * time.Millisecond) {
		d.Tick(now)
	}
	assert.Equal(t, after, fb.Snapshot(), "silent dwell must be static")
	assert.Equal(t, Silent, d.state)
}

func TestSpeechDriver_TransitionToTalking(t *testing.T) {
	d, _ := newTestDriver(2, false)
	t0 := time.Unix(1000, 0)
	d.Start(t0)

	// First tick at/after the deadline flips the state.
	flip := d.stateUntil
	d.Tick(flip)
	require.Equal(t, Talking, d.state)
	assert.True(t, allowedDwell(d.stateUntil.Sub(flip)), "talking dwell %v", d.stateUntil.Sub(flip))
	assert.GreaterOrEqual(t, d.talkIdx, 0)
	assert.Less(t, d.talkIdx, face.NumTalkFrames)

	// First swap is scheduled at 160ms ± 40ms.
	delay := d.nextSwap.Sub(flip)
	assert.GreaterOrEqual(t, delay, 120*time.Millisecond)
	assert.LessOrEqual(t, delay, 200*time.Millisecond)
}

func TestSpeechDriver_TalkSwapNeverRepeats(t *testing.T) {
	d, _ := newTestDriver(3, false)
	t0 := time.Unix(1000, 0)
	d.Start(t0)
	d.Tick(d.stateUntil) // enter Talking
	require.Equal(t, Talking, d.state)

	prev := d.talkIdx
	for i := 0; i < 500; i++ {
		// Walk straight to the swap deadline; extend the dwell so the
		// state can't flip mid-test.
		d.stateUntil = d.nextSwap.Add(time.Hour)
		now := d.nextSwap
		d.Tick(now)

		require.NotEqual(t, prev, d.talkIdx, "swap %d repeated frame %d", i, prev)
		delay := d.nextSwap.Sub(now)
		require.GreaterOrEqual(t, delay, 120*time.Millisecond, "swap %d", i)
		require.LessOrEqual(t, delay, 200*time.Millisecond, "swap %d", i)
		prev = d.talkIdx
	}
}

func TestSpeechDriver_DwellsAlwaysFromAllowedSet(t *testing.T) {
	d, _ := newTestDriver(4, false)
	now := time.Unix(1000, 0)
	d.Start(now)

	for i := 0; i < 200; i++ {
		now = d.stateUntil
		before := d.state
		d.Tick(now)
		require.NotEqual(t, before, d.state, "transition %d must flip state", i)
		require.True(t, allowedDwell(d.stateUntil.Sub(now)), "transition %d: dwell %v", i, d.stateUntil.Sub(now))
	}
}

func TestSpeechDriver_LabelsFollowState(t *testing.T) {
	d, fb := newTestDriver(5, true)
	t0 := time.Unix(1000, 0)
	d.Start(t0)

	require.Equal(t, d.mood.String(), fb.Label(), "silent shows the mood label")

	d.Tick(d.stateUntil)
	require.Equal(t, Talking, d.state)
	assert.Empty(t, fb.Label(), "talking clears the label")
}

func TestSpeechDriver_DeterministicWithFixedSeed(t *testing.T) {
	a, _ := newTestDriver(9, false)
	b, _ := newTestDriver(9, false)
	t0 := time.Unix(1000, 0)
	a.Start(t0)
	b.Start(t0)

	now := t0
	for i := 0; i < 2000; i++ {
		now = now.Add(33 * time.Millisecond)
		a.Tick(now)
		b.Tick(now)
	}
	assert.Equal(t, a.Status(), b.Status())
}

func TestSpeechDriver_Status(t *testing.T) {
	d, _ := newTestDriver(6, false)
	d.Start(time.Unix(1000, 0))

	st := d.Status()
	assert.Equal(t, "speech", st.Driver)
	assert.Equal(t, "Silent", st.State)
	assert.Equal(t, d.mood.String(), st.Mood)
}
