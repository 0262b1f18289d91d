package domain

import "math"

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) Distance(o Point) float64 {
	return math.Hypot(float64(p.X-o.X), float64(p.Y-o.Y))
}

// BoundingBox is expressed in screenshot pixels, origin top-left.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (b BoundingBox) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

func (b BoundingBox) Area() int {
	return b.Width * b.Height
}

func (b BoundingBox) Contains(p Point) bool {
	return p.X >= b.X && p.X < b.X+b.Width && p.Y >= b.Y && p.Y < b.Y+b.Height
}

// Corners returns the four points sitting a quarter inside each corner.
func (b BoundingBox) Corners() []Point {
	qw, qh := b.Width/4, b.Height/4
	return []Point{
		{X: b.X + qw, Y: b.Y + qh},
		{X: b.X + b.Width - qw, Y: b.Y + qh},
		{X: b.X + qw, Y: b.Y + b.Height - qh},
		{X: b.X + b.Width - qw, Y: b.Y + b.Height - qh},
	}
}
