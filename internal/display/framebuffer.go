package display

import "strings"

// Framebuffer is an in-memory Surface. The device build flushes it to the
// panel over SPI; the host build serves it through telemetry and the tests
// inspect it directly.
type Framebuffer struct {
	w, h   int
	pix    []Color
	label  string
}

// NewFramebuffer returns a black framebuffer of the given size. Non-positive
// dimensions are coerced to 1 so the zero-config case still draws.
func NewFramebuffer(w, h int) *Framebuffer {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Framebuffer{w: w, h: h, pix: make([]Color, w*h)}
}

// Width returns the surface width in pixels.
func (f *Framebuffer) Width() int { return f.w }

// Height returns the surface height in pixels.
func (f *Framebuffer) Height() int { return f.h }

// Fill blanks the whole surface.
func (f *Framebuffer) Fill(c Color) {
	for i := range f.pix {
		f.pix[i] = c
	}
}

// FillRect fills a rectangle, clipped to the surface.
func (f *Framebuffer) FillRect(x, y, w, h int, c Color) {
	if w <= 0 || h <= 0 {
		return
	}
	x0, y0 := clampInt(x, 0, f.w), clampInt(y, 0, f.h)
	x1, y1 := clampInt(x+w, 0, f.w), clampInt(y+h, 0, f.h)
	for yy := y0; yy < y1; yy++ {
		row := yy * f.w
		for xx := x0; xx < x1; xx++ {
			f.pix[row+xx] = c
		}
	}
}

// HLine draws a 1px horizontal stroke, clipped to the surface.
func (f *Framebuffer) HLine(x, y, w int, c Color) {
	f.FillRect(x, y, w, 1, c)
}

// FillCircle fills a circle, clipped to the surface.
func (f *Framebuffer) FillCircle(cx, cy, r int, c Color) {
	if r < 0 {
		return
	}
	for dy := -r; dy <= r; dy++ {
		yy := cy + dy
		if yy < 0 || yy >= f.h {
			continue
		}
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			xx := cx + dx
			if xx < 0 || xx >= f.w {
				continue
			}
			f.pix[yy*f.w+xx] = c
		}
	}
}

// SetLabel stores the overlay text for the top band.
func (f *Framebuffer) SetLabel(text string) { f.label = text }

// ClearLabel removes the overlay text.
func (f *Framebuffer) ClearLabel() { f.label = "" }

// Label returns the current overlay text.
func (f *Framebuffer) Label() string { return f.label }

// Pixel returns the color at (x, y), or Black when out of bounds.
func (f *Framebuffer) Pixel(x, y int) Color {
	if x < 0 || x >= f.w || y < 0 || y >= f.h {
		return Black
	}
	return f.pix[y*f.w+x]
}

// Snapshot returns a copy of the pixel data for comparison in tests and
// for the telemetry frame endpoint.
func (f *Framebuffer) Snapshot() []Color {
	out := make([]Color, len(f.pix))
	copy(out, f.pix)
	return out
}

// ASCII renders the framebuffer as text, one character per pixel, for
// hardware-free bring-up. Lit pixels become '#', dark pixels '.'.
func (f *Framebuffer) ASCII() string {
	var b strings.Builder
	b.Grow((f.w + 1) * f.h)
	for y := 0; y < f.h; y++ {
		for x := 0; x < f.w; x++ {
			if f.pix[y*f.w+x] == Black {
				b.WriteByte('.')
			} else {
				b.WriteByte('#')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
