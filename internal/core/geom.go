// Package core provides fundamental types and utilities for the danmaku platform.
// It depends only on mathgl so game logic stays pure and testable.
package core

// Rect represents an axis-aligned cell rectangle on a Screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the cell (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Project maps a world point onto a cell of r, where world is the size of the
// centered world. ok is false when the point falls outside. Points on the far
// edges land in the last cell.
func (r Rect) Project(p, world Vec2) (x, y int, ok bool) {
	if r.W <= 0 || r.H <= 0 {
		return 0, 0, false
	}
	s := WorldToScreen(p, world)
	fx := s[0] / world[0] * float32(r.W)
	fy := s[1] / world[1] * float32(r.H)
	if fx < 0 || fy < 0 || fx > float32(r.W) || fy > float32(r.H) {
		return 0, 0, false
	}
	x = r.X + min(int(fx), r.W-1)
	y = r.Y + min(int(fy), r.H-1)
	return x, y, true
}

// Extent converts world half-extents to a cell radius on each axis.
func (r Rect) Extent(size, world Vec2) (int, int) {
	return int(size[0] / world[0] * float32(r.W)), int(size[1] / world[1] * float32(r.H))
}
