// Package geom provides the small set of 2D value types used by the floor
// plan generator. All coordinates are in meters in plan space: x runs along
// the corridor axis, y runs across the building depth.
package geom

import "math"

// Point is a 2D position in plan space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle anchored at its minimum corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the maximum x coordinate of the rectangle.
func (r Rect) Right() float64 { return r.X + r.Width }

// Top returns the maximum y coordinate of the rectangle.
func (r Rect) Top() float64 { return r.Y + r.Height }

// Area returns the rectangle's area.
func (r Rect) Area() float64 { return r.Width * r.Height }

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// LPolygon is a rectangle extended by a single rectangular wing, used for
// units that wrap a core gap or absorb a corridor-end void. A zero Wing
// means the shape is a plain rectangle.
type LPolygon struct {
	Base Rect `json:"base"`
	Wing Rect `json:"wing"`
}

// IsL reports whether the polygon actually has a wing.
func (p LPolygon) IsL() bool { return p.Wing.Width > 0 && p.Wing.Height > 0 }

// Area returns the combined area of base and wing.
func (p LPolygon) Area() float64 { return p.Base.Area() + p.Wing.Area() }

// Transform carries the placement of the generated plan back into the host
// coordinate system: plan space is axis-aligned with the footprint centered
// at the origin before this transform is applied.
type Transform struct {
	Rotation  float64 `json:"rotation"` // radians, counterclockwise
	Center    Point   `json:"center"`
	Elevation float64 `json:"elevation"`
}

// Apply maps a plan-space point into host coordinates.
func (t Transform) Apply(p Point) Point {
	sin, cos := math.Sincos(t.Rotation)
	return Point{
		X: t.Center.X + p.X*cos - p.Y*sin,
		Y: t.Center.Y + p.X*sin + p.Y*cos,
	}
}
