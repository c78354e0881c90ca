// Package geom holds the collision primitives shared by the simulation and
// the map generator. Everything here is a pure function over plain values.
package geom

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Overlaps reports whether two rectangles intersect.
func (r Rect) Overlaps(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// CircleBounds returns the square bounding box of a circle.
func CircleBounds(cx, cy, radius float64) Rect {
	return Rect{X: cx - radius, Y: cy - radius, Width: radius * 2, Height: radius * 2}
}

// CirclesOverlap reports whether two circles overlap. Tangent circles do not
// count as overlapping; the comparison stays in squared space so no square
// root is taken.
func CirclesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	dx := x1 - x2
	dy := y1 - y2
	sum := r1 + r2
	return dx*dx+dy*dy < sum*sum
}

// ClosestPointOnRect clamps a point into the rectangle, yielding the nearest
// point on (or inside) it.
func ClosestPointOnRect(px, py float64, r Rect) (float64, float64) {
	return Clamp(px, r.X, r.X+r.Width), Clamp(py, r.Y, r.Y+r.Height)
}

// CircleRectOverlap tests a circle against a rectangle using the circle's
// square bounding box. This is deliberately not a true circle-rect distance
// test; gameplay was tuned against the cheaper box overlap.
func CircleRectOverlap(cx, cy, radius float64, r Rect) bool {
	return CircleBounds(cx, cy, radius).Overlaps(r)
}

// Clamp limits value to the range [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
