package editor

import "mural/diagram"

// Zoom bounds for the viewport.
const (
	MinZoom = 0.25
	MaxZoom = 4.0
)

// Viewport is the canvas view transform. It is not part of the document and
// never participates in undo history.
type Viewport struct {
	Zoom float64
	Pan  diagram.Point
}

// NewViewport returns a viewport at 1:1 zoom with no pan.
func NewViewport() Viewport {
	return Viewport{Zoom: 1.0}
}

// ZoomBy multiplies the zoom by factor, clamped to [MinZoom, MaxZoom].
func (v *Viewport) ZoomBy(factor float64) {
	z := v.Zoom * factor
	if z < MinZoom {
		z = MinZoom
	}
	if z > MaxZoom {
		z = MaxZoom
	}
	v.Zoom = z
}

// PanBy translates the pan by a pointer delta, scaled by the current zoom so
// the canvas tracks the pointer at any magnification.
func (v *Viewport) PanBy(dx, dy float64) {
	v.Pan.X += dx / v.Zoom
	v.Pan.Y += dy / v.Zoom
}
