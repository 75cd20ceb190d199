package geom

import "math"

// Segment2 is a directed line segment from P1 to P2.
type Segment2 struct {
	P1, P2 Point2
}

func (s Segment2) IsHorizontal() bool { return s.P1.Y == s.P2.Y }
func (s Segment2) IsVertical() bool   { return s.P1.X == s.P2.X }

// SquaredLength returns the squared length of the segment.
func (s Segment2) SquaredLength() float64 { return s.P1.SquaredDistance(s.P2) }

// XAtY returns the x coordinate of the supporting line at y. Endpoints are
// returned exactly.
func (s Segment2) XAtY(y float64) float64 {
	switch {
	case s.P1.Y == s.P2.Y:
		return s.P1.X
	case y == s.P1.Y:
		return s.P1.X
	case y == s.P2.Y:
		return s.P2.X
	}
	return s.P1.X + (s.P2.X-s.P1.X)*(y-s.P1.Y)/(s.P2.Y-s.P1.Y)
}

// YAtX returns the y coordinate of the supporting line at x.
func (s Segment2) YAtX(x float64) float64 {
	switch {
	case s.P1.X == s.P2.X:
		return s.P1.Y
	case x == s.P1.X:
		return s.P1.Y
	case x == s.P2.X:
		return s.P2.Y
	}
	return s.P1.Y + (s.P2.Y-s.P1.Y)*(x-s.P1.X)/(s.P2.X-s.P1.X)
}

// CollinearHasOn reports whether p, assumed to be on the supporting line, lies
// within the segment's extent.
func (s Segment2) CollinearHasOn(p Point2) bool {
	if s.IsHorizontal() {
		return (p.X >= s.P1.X && p.X <= s.P2.X) || (p.X >= s.P2.X && p.X <= s.P1.X)
	}
	if s.IsVertical() {
		return (p.Y >= s.P1.Y && p.Y <= s.P2.Y) || (p.Y >= s.P2.Y && p.Y <= s.P1.Y)
	}
	if NewVector(s.P1, s.P2).Dot(NewVector(s.P1, p)) < 0 {
		return false
	}
	if NewVector(s.P2, s.P1).Dot(NewVector(s.P2, p)) < 0 {
		return false
	}
	return true
}

// OnLine reports whether p lies exactly on the supporting line.
func (s Segment2) OnLine(p Point2) bool {
	return NewVector(s.P1, s.P2).Cross(NewVector(s.P1, p)) == 0
}

// NearLine reports whether p lies within snapping distance of the supporting
// line.
func (s Segment2) NearLine(p Point2) bool {
	v := NewVector(s.P1, s.P2)
	l := math.Sqrt(v.SquaredLength())
	if l == 0 {
		return s.P1.Near(p)
	}
	return math.Abs(v.Cross(NewVector(s.P1, p))) <= snapDist(p)*l
}

// Bounds returns the segment's bounding box.
func (s Segment2) Bounds() Bbox2 {
	return BoxOf(s.P1).Add(s.P2)
}

// CouldIntersect is the bounding box pre-check for Intersect. The boxes are
// padded by the snapping distance.
func (s Segment2) CouldIntersect(o Segment2) bool {
	pad := math.Max(snapDist(s.P1), snapDist(s.P2))
	return s.Bounds().Expand(pad).Overlaps(o.Bounds())
}

// Intersect returns the crossing point of two segments. Co-located segments do
// not intersect; segments sharing an endpoint intersect there. Horizontal and
// vertical cases are computed exactly.
func (s Segment2) Intersect(o Segment2) (Point2, bool) {
	if o.P1 == s.P1 && o.P2 == s.P2 {
		return Point2{}, false
	}
	if o.P1 == s.P2 && o.P2 == s.P1 {
		return Point2{}, false
	}
	if o.P1 == s.P1 || o.P2 == s.P1 {
		return s.P1, true
	}
	if o.P1 == s.P2 || o.P2 == s.P2 {
		return s.P2, true
	}

	var p Point2
	switch {
	case s.IsHorizontal():
		switch {
		case o.IsHorizontal():
			return Point2{}, false
		case o.IsVertical():
			p = Point2{X: o.P1.X, Y: s.P1.Y}
		default:
			p = Point2{X: o.XAtY(s.P1.Y), Y: s.P1.Y}
		}
	case s.IsVertical():
		switch {
		case o.IsHorizontal():
			p = Point2{X: s.P1.X, Y: o.P1.Y}
		case o.IsVertical():
			return Point2{}, false
		default:
			p = Point2{X: s.P1.X, Y: o.YAtX(s.P1.X)}
		}
	default:
		switch {
		case o.IsHorizontal():
			p = Point2{X: s.XAtY(o.P1.Y), Y: o.P1.Y}
		case o.IsVertical():
			p = Point2{X: o.P1.X, Y: s.YAtX(o.P1.X)}
		default:
			var ok bool
			if p, ok = NewLine(s).Intersect(NewLine(o)); !ok {
				return Point2{}, false
			}
		}
	}
	return p, s.CollinearHasOn(p) && o.CollinearHasOn(p)
}

// Line2 is the implicit line a*x + b*y + c = 0.
type Line2 struct {
	A, B, C float64
}

// NewLine returns the supporting line of s, with s's left side positive.
func NewLine(s Segment2) Line2 {
	a := s.P1.Y - s.P2.Y
	b := s.P2.X - s.P1.X
	return Line2{A: a, B: b, C: -(a*s.P1.X + b*s.P1.Y)}
}

// Equal reports whether two lines are the same line.
func (l Line2) Equal(o Line2) bool {
	return l.A*o.B == o.A*l.B && l.A*o.C == o.A*l.C && l.B*o.C == o.B*l.C
}

// Intersect returns the crossing point of two non-parallel lines.
func (l Line2) Intersect(o Line2) (Point2, bool) {
	det := l.A*o.B - o.A*l.B
	if det == 0 {
		return Point2{}, false
	}
	return Point2{
		X: (l.B*o.C - o.B*l.C) / det,
		Y: (o.A*l.C - l.A*o.C) / det,
	}, true
}

// FirstCollinearHit returns the endpoint of rng, collinear with trial, that
// trial reaches first after leaving trial.P1. Endpoints equal to trial.P1 or
// beyond trial.P2 do not count.
func FirstCollinearHit(trial, rng Segment2) (Point2, bool) {
	var best Point2
	found := false
	for _, p := range [2]Point2{rng.P1, rng.P2} {
		if p == trial.P1 || !trial.CollinearHasOn(p) {
			continue
		}
		if !found || trial.P1.SquaredDistance(p) < trial.P1.SquaredDistance(best) {
			best, found = p, true
		}
	}
	return best, found
}

func orientation(a, b, c Point2) int {
	switch d := NewVector(a, b).Cross(NewVector(a, c)); {
	case d > 0:
		return 1
	case d < 0:
		return -1
	}
	return 0
}

// hasInside reports whether p, known to be on the supporting line, lies
// strictly between the endpoints.
func (s Segment2) hasInside(p Point2) bool {
	return p != s.P1 && p != s.P2 && s.CollinearHasOn(p)
}

// Conflicts reports whether two edges of a planar map meet anywhere other
// than at a shared endpoint: a proper crossing, an endpoint of one lying
// inside the other, or a collinear overlap. The orientation tests are exact.
func (s Segment2) Conflicts(o Segment2) bool {
	if !s.Bounds().Overlaps(o.Bounds()) {
		return false
	}
	if (s.P1 == o.P1 && s.P2 == o.P2) || (s.P1 == o.P2 && s.P2 == o.P1) {
		return true
	}
	d1 := orientation(s.P1, s.P2, o.P1)
	d2 := orientation(s.P1, s.P2, o.P2)
	d3 := orientation(o.P1, o.P2, s.P1)
	d4 := orientation(o.P1, o.P2, s.P2)
	if d1*d2 < 0 && d3*d4 < 0 {
		return true
	}
	return (d1 == 0 && s.hasInside(o.P1)) ||
		(d2 == 0 && s.hasInside(o.P2)) ||
		(d3 == 0 && o.hasInside(s.P1)) ||
		(d4 == 0 && o.hasInside(s.P2))
}

// TouchesBox reports whether any point of s lies in b, boundary included.
func (s Segment2) TouchesBox(b Bbox2) bool {
	if b.IsEmpty() || !s.Bounds().Overlaps(b) {
		return false
	}
	if b.Contains(s.P1) || b.Contains(s.P2) {
		return true
	}
	lo, hi := b.Min(), b.Max()
	corners := [4]Point2{
		{X: lo.X, Y: lo.Y}, {X: hi.X, Y: lo.Y},
		{X: hi.X, Y: hi.Y}, {X: lo.X, Y: hi.Y},
	}
	for i := range corners {
		side := Segment2{P1: corners[i], P2: corners[(i+1)%4]}
		if _, ok := s.Intersect(side); ok {
			return true
		}
	}
	return false
}
