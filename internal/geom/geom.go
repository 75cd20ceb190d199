// Package geom holds the small 2D/3D primitives shared by the planar map,
// the spatial index and the network builder. Coordinates are float64 and
// compared exactly; computed crossings snap to existing points within
// SnapTolerance.
package geom

import "math"

// Point2 is an exact 2D location (x = longitude, y = latitude for geographic maps).
type Point2 struct {
	X, Y float64
}

// Point3 is a 2D location plus height.
type Point3 struct {
	X, Y, Z float64
}

// XY drops the height.
func (p Point3) XY() Point2 { return Point2{X: p.X, Y: p.Y} }

// Lift adds a height to a 2D point.
func (p Point2) Lift(z float64) Point3 { return Point3{X: p.X, Y: p.Y, Z: z} }

// SquaredDistance returns the squared euclidean distance to q.
func (p Point2) SquaredDistance(q Point2) float64 {
	dx, dy := q.X-p.X, q.Y-p.Y
	return dx*dx + dy*dy
}

// Add offsets p by v.
func (p Point2) Add(v Vector2) Point2 { return Point2{X: p.X + v.DX, Y: p.Y + v.DY} }

// SnapTolerance is the relative distance under which a computed point is
// taken to be an existing one. It scales with the magnitude of the
// coordinates, never dropping below the absolute value for |x|, |y| < 1.
const SnapTolerance = 1e-9

func snapDist(p Point2) float64 {
	return SnapTolerance * math.Max(1, math.Max(math.Abs(p.X), math.Abs(p.Y)))
}

// Near reports whether q is within snapping distance of p on both axes.
func (p Point2) Near(q Point2) bool {
	d := snapDist(p)
	return math.Abs(p.X-q.X) <= d && math.Abs(p.Y-q.Y) <= d
}

// LessYX orders points by y, then x. This is the vertex map order.
func LessYX(a, b Point2) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

// LessXY orders points by x, then y.
func LessXY(a, b Point2) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

// CompareYX is the three-way form of LessYX.
func CompareYX(a, b Point2) int {
	switch {
	case a.Y < b.Y:
		return -1
	case a.Y > b.Y:
		return 1
	case a.X < b.X:
		return -1
	case a.X > b.X:
		return 1
	}
	return 0
}

// Vector2 is a 2D displacement.
type Vector2 struct {
	DX, DY float64
}

// NewVector returns the vector from p1 to p2.
func NewVector(p1, p2 Point2) Vector2 { return Vector2{DX: p2.X - p1.X, DY: p2.Y - p1.Y} }

func (v Vector2) Dot(o Vector2) float64   { return v.DX*o.DX + v.DY*o.DY }
func (v Vector2) Cross(o Vector2) float64 { return v.DX*o.DY - v.DY*o.DX }

// SquaredLength returns |v|².
func (v Vector2) SquaredLength() float64 { return v.DX*v.DX + v.DY*v.DY }

// Normalize returns v scaled to unit length; the zero vector is returned unchanged.
func (v Vector2) Normalize() Vector2 {
	l := math.Sqrt(v.SquaredLength())
	if l == 0 {
		return v
	}
	return Vector2{DX: v.DX / l, DY: v.DY / l}
}

// PerpendicularCCW rotates v 90 degrees counter-clockwise.
func (v Vector2) PerpendicularCCW() Vector2 { return Vector2{DX: -v.DY, DY: v.DX} }

// Angle returns atan2(dy, dx).
func (v Vector2) Angle() float64 { return math.Atan2(v.DY, v.DX) }

// IsCCWBetween reports whether v2 lies strictly counter-clockwise between v1 and
// v3 when sweeping from v1. When v1 and v3 point the same way the whole circle
// counts as inside; a v2 colliding with either bound is also accepted.
func IsCCWBetween(v1, v2, v3 Vector2) bool {
	a1, a2, a3 := v1.Angle(), v2.Angle(), v3.Angle()
	if a1 == a3 {
		return true
	}
	if a1 == a2 || a3 == a2 {
		return true
	}
	if a1 <= -math.Pi {
		a1 += 2 * math.Pi
	}
	if a2 <= -math.Pi {
		a2 += 2 * math.Pi
	}
	if a3 <= -math.Pi {
		a3 += 2 * math.Pi
	}
	if a2 < a1 && a3 < a1 {
		return a2 < a3
	}
	if a2 < a1 {
		a2 += 2 * math.Pi
	}
	if a3 < a1 {
		a3 += 2 * math.Pi
	}
	return a1 < a2 && a2 < a3
}
