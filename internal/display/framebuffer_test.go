package display

import "testing"

func TestFramebuffer_FillRectClips(t *testing.T) {
	fb := NewFramebuffer(10, 10)

	// Entirely out of bounds must be a no-op, not a fault.
	fb.FillRect(-20, -20, 5, 5, White)
	fb.FillRect(50, 50, 5, 5, White)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if fb.Pixel(x, y) != Black {
				t.Fatalf("expected untouched pixel at (%d,%d)", x, y)
			}
		}
	}

	// Partially out of bounds clips to the surface.
	fb.FillRect(8, 8, 5, 5, White)
	if fb.Pixel(9, 9) != White {
		t.Error("expected clipped rect to fill corner")
	}
	if fb.Pixel(7, 7) != Black {
		t.Error("expected pixel outside rect to stay black")
	}
}

func TestFramebuffer_HLine(t *testing.T) {
	fb := NewFramebuffer(10, 4)
	fb.HLine(2, 1, 5, White)

	for x := 2; x < 7; x++ {
		if fb.Pixel(x, 1) != White {
			t.Errorf("expected lit pixel at (%d,1)", x)
		}
	}
	if fb.Pixel(1, 1) != Black || fb.Pixel(7, 1) != Black {
		t.Error("expected stroke endpoints to be exact")
	}
	if fb.Pixel(3, 0) != Black || fb.Pixel(3, 2) != Black {
		t.Error("expected stroke to be 1px tall")
	}
}

func TestFramebuffer_FillCircle(t *testing.T) {
	fb := NewFramebuffer(21, 21)
	fb.FillCircle(10, 10, 5, White)

	if fb.Pixel(10, 10) != White {
		t.Error("expected circle center lit")
	}
	if fb.Pixel(10, 5) != White || fb.Pixel(5, 10) != White {
		t.Error("expected circle extremes lit")
	}
	if fb.Pixel(5, 5) != Black {
		t.Error("expected corner outside circle dark")
	}
}

func TestFramebuffer_Label(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	if fb.Label() != "" {
		t.Error("expected empty label at start")
	}
	fb.SetLabel("Smile")
	if fb.Label() != "Smile" {
		t.Error("expected label to round-trip")
	}
	fb.ClearLabel()
	if fb.Label() != "" {
		t.Error("expected label cleared")
	}
}

func TestFramebuffer_SnapshotIsCopy(t *testing.T) {
	fb := NewFramebuffer(3, 3)
	snap := fb.Snapshot()
	fb.Fill(White)
	if snap[0] != Black {
		t.Error("expected snapshot to be detached from the buffer")
	}
}
