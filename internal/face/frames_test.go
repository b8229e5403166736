package face

import "testing"

func TestMoodFrame_TotalLookup(t *testing.T) {
	moods := []MouthMood{Neutral, Smile, Frown, Puzzled, Oooh}
	for _, m := range moods {
		f := MoodFrame(m)
		for i := 0; i < Segments; i++ {
			if f.Upper[i] < -MaxDY || f.Upper[i] > MaxDY {
				t.Errorf("mood %s upper[%d]=%d outside [-%d,%d]", m, i, f.Upper[i], MaxDY, MaxDY)
			}
			if f.Lower[i] < -MaxDY || f.Lower[i] > MaxDY {
				t.Errorf("mood %s lower[%d]=%d outside [-%d,%d]", m, i, f.Lower[i], MaxDY, MaxDY)
			}
		}
	}
}

func TestMoodFrame_UnknownFallsBackToNeutral(t *testing.T) {
	f := MoodFrame(MouthMood(200))
	if f != MoodFrame(Neutral) {
		t.Error("expected unknown mood to fall back to the neutral frame")
	}
}

func TestTalkFrame_WrapsBothDirections(t *testing.T) {
	cases := []struct {
		idx  int
		want int
	}{
		{0, 0},
		{NumTalkFrames, 0},
		{NumTalkFrames + 1, 1},
		{-1, NumTalkFrames - 1},
		{-NumTalkFrames, 0},
		{3*NumTalkFrames + 2, 2},
	}
	for _, c := range cases {
		if got := TalkFrame(c.idx); got != talkFrames[c.want] {
			t.Errorf("TalkFrame(%d): expected bank entry %d", c.idx, c.want)
		}
	}
}

func TestTalkFrames_OffsetsWithinRange(t *testing.T) {
	for idx := 0; idx < NumTalkFrames; idx++ {
		f := TalkFrame(idx)
		for i := 0; i < Segments; i++ {
			if f.Upper[i] < -MaxDY || f.Upper[i] > MaxDY {
				t.Errorf("talk frame %d upper[%d]=%d outside range", idx, i, f.Upper[i])
			}
			if f.Lower[i] < -MaxDY || f.Lower[i] > MaxDY {
				t.Errorf("talk frame %d lower[%d]=%d outside range", idx, i, f.Lower[i])
			}
		}
	}
}

func TestMoodString(t *testing.T) {
	if Neutral.String() != "Neutral" || Oooh.String() != "Oooh" {
		t.Error("unexpected mood names")
	}
	if MouthMood(99).String() != "Unknown" {
		t.Error("expected Unknown for out-of-range mood")
	}
}
