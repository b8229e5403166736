// Package display abstracts the device display: a small drawing surface with
// the handful of primitives the face renderer needs, plus an in-memory
// framebuffer implementation used by the host build and the tests.
package display

// Color is an RGB565 pixel value, matching the panel's native format.
type Color uint16

// Panel colors used by the face renderer.
const (
	Black Color = 0x0000
	White Color = 0xFFFF
)

// Canvas is the drawing surface contract. Implementations must clip
// out-of-bounds coordinates rather than fault; a bad rectangle must never
// take down the render loop.
type Canvas interface {
	Width() int
	Height() int

	// Fill blanks the whole surface.
	Fill(c Color)
	// FillRect fills the rectangle at (x, y) with the given size.
	FillRect(x, y, w, h int, c Color)
	// HLine draws a 1px horizontal stroke of length w starting at (x, y).
	HLine(x, y, w int, c Color)
	// FillCircle fills a circle centered at (cx, cy).
	FillCircle(cx, cy, r int, c Color)
}

// Labeler is the optional text overlay surface. The pixel pipeline knows
// nothing about fonts; the attached display head renders the label band.
type Labeler interface {
	SetLabel(text string)
	ClearLabel()
	Label() string
}

// Surface combines pixel drawing with the label overlay.
type Surface interface {
	Canvas
	Labeler
}
