package geometry

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEdgeAnchorHorizontalNeighbors(t *testing.T) {
	// Element A at (0,0) size 100x100; element B centered at (400,50).
	a := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	b := Rect{X: 350, Y: 0, Width: 100, Height: 100}

	src, dst := AnchorPair(a, b)

	if !almostEqual(src.X, 100) || !almostEqual(src.Y, 50) {
		t.Errorf("source anchor = (%v,%v), want A's right-edge midpoint (100,50)", src.X, src.Y)
	}
	if !almostEqual(dst.X, 350) || !almostEqual(dst.Y, 50) {
		t.Errorf("target anchor = (%v,%v), want B's left-edge midpoint (350,50)", dst.X, dst.Y)
	}
}

func TestEdgeAnchorVerticalNeighbors(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 100, Height: 50}
	b := Rect{X: 0, Y: 200, Width: 100, Height: 50}

	src, dst := AnchorPair(a, b)

	if !almostEqual(src.X, 50) || !almostEqual(src.Y, 50) {
		t.Errorf("source anchor = (%v,%v), want bottom-edge midpoint (50,50)", src.X, src.Y)
	}
	if !almostEqual(dst.X, 50) || !almostEqual(dst.Y, 200) {
		t.Errorf("target anchor = (%v,%v), want top-edge midpoint (50,200)", dst.X, dst.Y)
	}
}

func TestEdgeAnchorDiagonalStaysOnBorder(t *testing.T) {
	box := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	p := EdgeAnchor(box, Point{X: 300, Y: 200})

	onRight := almostEqual(p.X, 100) && p.Y >= 0 && p.Y <= 100
	onBottom := almostEqual(p.Y, 100) && p.X >= 0 && p.X <= 100
	if !onRight && !onBottom {
		t.Errorf("anchor (%v,%v) not on the box border", p.X, p.Y)
	}
}

func TestEdgeAnchorCoincidentCenters(t *testing.T) {
	box := Rect{X: 10, Y: 10, Width: 20, Height: 20}
	p := EdgeAnchor(box, box.Center())
	if p != box.Center() {
		t.Errorf("zero direction should return the center, got (%v,%v)", p.X, p.Y)
	}
}

func TestNormalizedHandlesAnyDragDirection(t *testing.T) {
	r := Normalized(Point{X: 50, Y: 80}, Point{X: 10, Y: 20})
	if r.X != 10 || r.Y != 20 || r.Width != 40 || r.Height != 60 {
		t.Errorf("unexpected rect: %+v", r)
	}
}

func TestContainsRect(t *testing.T) {
	outer := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	if !outer.ContainsRect(Rect{X: 10, Y: 10, Width: 20, Height: 20}) {
		t.Error("fully contained box reported outside")
	}
	if outer.ContainsRect(Rect{X: 90, Y: 90, Width: 20, Height: 20}) {
		t.Error("overlapping box reported contained")
	}
}
