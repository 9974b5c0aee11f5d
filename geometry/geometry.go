// Package geometry provides the box math used to anchor connection endpoints
// to element borders and to hit-test marquee selections.
package geometry

import "math"

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains checks if a point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// ContainsRect checks if other lies entirely within the rectangle.
func (r Rect) ContainsRect(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.X+other.Width <= r.X+r.Width &&
		other.Y+other.Height <= r.Y+r.Height
}

// Normalized returns an equivalent rectangle with non-negative extents, so a
// drag in any direction produces a usable marquee box.
func Normalized(a, b Point) Rect {
	return Rect{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}

// EdgeAnchor computes the point where the line from the rectangle's center
// toward the target exits the rectangle's border. If the target coincides
// with the center, the center itself is returned.
//
// With half-extents (hw,hh) and direction d = target - center: when
// |d.x|*hh > |d.y|*hw the line exits a left/right edge and is scaled by
// hw/|d.x|; otherwise it exits top/bottom scaled by hh/|d.y|.
func EdgeAnchor(box Rect, target Point) Point {
	c := box.Center()
	dx := target.X - c.X
	dy := target.Y - c.Y
	if dx == 0 && dy == 0 {
		return c
	}
	hw := box.Width / 2
	hh := box.Height / 2

	var scale float64
	if math.Abs(dx)*hh > math.Abs(dy)*hw {
		scale = hw / math.Abs(dx)
	} else {
		scale = hh / math.Abs(dy)
	}
	return Point{X: c.X + dx*scale, Y: c.Y + dy*scale}
}

// AnchorPair computes both border anchors for a connection between two boxes,
// each aimed at the opposite box's center, so the rendered line touches both
// borders instead of floating inside them.
func AnchorPair(source, target Rect) (Point, Point) {
	return EdgeAnchor(source, target.Center()), EdgeAnchor(target, source.Center())
}
