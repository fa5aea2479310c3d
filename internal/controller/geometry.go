package controller

// Point is an integer position in the shared virtual screen plane.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned integer rectangle, lefttop-anchored, matching a
// VirtualScreenConfig's placement.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether p falls within r, edges inclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}
