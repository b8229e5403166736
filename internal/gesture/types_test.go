package gesture

import (
	"encoding/json"
	"testing"
)

func TestSample_NormalizationClamps(t *testing.T) {
	cases := []struct {
		yaw, pitch         float64
		wantYaw, wantPitch float64
	}{
		{0, 0, 0, 0},
		{180, 90, 1, 1},
		{-180, -90, -1, -1},
		{90, 45, 0.5, 0.5},
		{720, 400, 1, 1},   // garbage from the link clamps, never overflows
		{-720, -400, -1, -1},
	}
	for _, c := range cases {
		s := Sample{Yaw: c.yaw, Pitch: c.pitch}
		if got := s.NormYaw(); got != c.wantYaw {
			t.Errorf("yaw %f: expected %f, got %f", c.yaw, c.wantYaw, got)
		}
		if got := s.NormPitch(); got != c.wantPitch {
			t.Errorf("pitch %f: expected %f, got %f", c.pitch, c.wantPitch, got)
		}
	}
}

func TestSample_DecodesFeedMessage(t *testing.T) {
	raw := `{"gesture":2,"yaw":-34.5,"pitch":12.25}`
	var s Sample
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Gesture != GestureShake {
		t.Errorf("expected shake, got %s", s.Gesture)
	}
	if s.Yaw != -34.5 || s.Pitch != 12.25 {
		t.Errorf("unexpected orientation: %f/%f", s.Yaw, s.Pitch)
	}
}

func TestGestureString(t *testing.T) {
	if GestureNod.String() != "nod" || GestureTiltRight.String() != "tilt_right" {
		t.Error("unexpected gesture names")
	}
	if Gesture(200).String() != "unknown" {
		t.Error("expected unknown for out-of-range code")
	}
}
