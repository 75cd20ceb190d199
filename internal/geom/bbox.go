package geom

import sfgeom "github.com/peterstace/simplefeatures/geom"

// Bbox2 is an axis-aligned bounding box backed by a simplefeatures envelope.
// The zero value is empty.
type Bbox2 struct {
	env sfgeom.Envelope
}

func (p Point2) sfXY() sfgeom.XY { return sfgeom.XY{X: p.X, Y: p.Y} }

// NewBbox2 returns the box spanning the two ranges. Reversed ranges are
// swapped.
func NewBbox2(xmin, ymin, xmax, ymax float64) Bbox2 {
	return BoxFromCorners(Point2{X: xmin, Y: ymin}, Point2{X: xmax, Y: ymax})
}

// EmptyBox returns a box that unions as the identity.
func EmptyBox() Bbox2 { return Bbox2{} }

// BoxOf returns the degenerate box around p.
func BoxOf(p Point2) Bbox2 {
	return Bbox2{env: sfgeom.Envelope{}.ExpandToIncludeXY(p.sfXY())}
}

// BoxFromCorners returns the box spanned by two arbitrary corners.
func BoxFromCorners(p1, p2 Point2) Bbox2 {
	return BoxOf(p1).Add(p2)
}

// BoxFromEnvelope wraps a simplefeatures envelope.
func BoxFromEnvelope(env sfgeom.Envelope) Bbox2 { return Bbox2{env: env} }

// Envelope returns the underlying envelope.
func (b Bbox2) Envelope() sfgeom.Envelope { return b.env }

// IsEmpty reports whether the box contains no points.
func (b Bbox2) IsEmpty() bool { return b.env.IsEmpty() }

// Min returns the lower-left corner; the origin for an empty box.
func (b Bbox2) Min() Point2 {
	lo, _, _ := b.env.MinMaxXYs()
	return Point2{X: lo.X, Y: lo.Y}
}

// Max returns the upper-right corner; the origin for an empty box.
func (b Bbox2) Max() Point2 {
	_, hi, _ := b.env.MinMaxXYs()
	return Point2{X: hi.X, Y: hi.Y}
}

func (b Bbox2) Width() float64  { return b.Max().X - b.Min().X }
func (b Bbox2) Height() float64 { return b.Max().Y - b.Min().Y }

// Equal reports whether both boxes cover the same points.
func (b Bbox2) Equal(o Bbox2) bool {
	if b.IsEmpty() || o.IsEmpty() {
		return b.IsEmpty() == o.IsEmpty()
	}
	return b.Min() == o.Min() && b.Max() == o.Max()
}

// Add returns b grown to include p.
func (b Bbox2) Add(p Point2) Bbox2 {
	return Bbox2{env: b.env.ExpandToIncludeXY(p.sfXY())}
}

// Union returns the smallest box containing both boxes.
func (b Bbox2) Union(o Bbox2) Bbox2 {
	return Bbox2{env: b.env.ExpandToIncludeEnvelope(o.env)}
}

// Contains returns true if p is within the box, edges included.
func (b Bbox2) Contains(p Point2) bool {
	return !b.IsEmpty() && b.env.Covers(BoxOf(p).env)
}

// ContainsBox returns true if o lies fully within b. An empty o is contained
// by anything.
func (b Bbox2) ContainsBox(o Bbox2) bool {
	if o.IsEmpty() {
		return true
	}
	return !b.IsEmpty() && b.env.Covers(o.env)
}

// Overlaps returns true if the boxes share any point, edges included.
func (b Bbox2) Overlaps(o Bbox2) bool {
	if b.IsEmpty() || o.IsEmpty() {
		return false
	}
	return b.env.Intersects(o.env)
}

// Expand returns the box grown by margin on every side.
func (b Bbox2) Expand(margin float64) Bbox2 {
	if b.IsEmpty() {
		return b
	}
	lo, hi := b.Min(), b.Max()
	return NewBbox2(lo.X-margin, lo.Y-margin, hi.X+margin, hi.Y+margin)
}

// Center returns the midpoint of the box.
func (b Bbox2) Center() Point2 {
	lo, hi := b.Min(), b.Max()
	return Point2{X: (lo.X + hi.X) * 0.5, Y: (lo.Y + hi.Y) * 0.5}
}
