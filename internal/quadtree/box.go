package quadtree

import "github.com/beetlebugorg/xestopo/internal/geom"

// Sub-key order used by BoxTraits. Quadrants come first so that a value which
// fits a quadrant is never filed in an overlapping crack bucket.
const (
	SubSW = iota
	SubSE
	SubNW
	SubNE
	SubS // half-size box straddling the vertical crack, bottom half
	SubN
	SubW // half-size box straddling the horizontal crack, left half
	SubE
	SubCentre
	BoxFanout
)

// BoxTraits indexes values by their 2D bounding box, splitting each node into
// four quadrants plus five buckets across the cracks between them.
type BoxTraits[V comparable] struct {
	CullFunc func(v V) geom.Bbox2
	LinkFunc func(v V) *Link[geom.Bbox2, V]
}

func (b BoxTraits[V]) Cull(v V) geom.Bbox2 { return b.CullFunc(v) }

func (b BoxTraits[V]) Link(v V) *Link[geom.Bbox2, V] { return b.LinkFunc(v) }

func (BoxTraits[V]) MakeKey(cull geom.Bbox2) geom.Bbox2 { return cull }

func (BoxTraits[V]) Fanout() int { return BoxFanout }

func (BoxTraits[V]) Contains(outer, inner geom.Bbox2) bool { return outer.ContainsBox(inner) }

func (BoxTraits[V]) ExpandBy(cull *geom.Bbox2, part geom.Bbox2) { *cull = cull.Union(part) }

func (BoxTraits[V]) SetEmpty(cull *geom.Bbox2) { *cull = geom.EmptyBox() }

func (BoxTraits[V]) Subkey(e geom.Bbox2, n int) geom.Bbox2 {
	lo, hi := e.Min(), e.Max()
	mx := (lo.X + hi.X) * 0.5
	my := (lo.Y + hi.Y) * 0.5
	qx := (hi.X - lo.X) * 0.25
	qy := (hi.Y - lo.Y) * 0.25

	switch n {
	case SubSW:
		return geom.NewBbox2(lo.X, lo.Y, mx, my)
	case SubSE:
		return geom.NewBbox2(mx, lo.Y, hi.X, my)
	case SubNW:
		return geom.NewBbox2(lo.X, my, mx, hi.Y)
	case SubNE:
		return geom.NewBbox2(mx, my, hi.X, hi.Y)
	case SubS:
		return geom.NewBbox2(lo.X+qx, lo.Y, hi.X-qx, my)
	case SubN:
		return geom.NewBbox2(lo.X+qx, my, hi.X-qx, hi.Y)
	case SubW:
		return geom.NewBbox2(lo.X, lo.Y+qy, mx, hi.Y-qy)
	case SubE:
		return geom.NewBbox2(mx, lo.Y+qy, hi.X, hi.Y-qy)
	default:
		return geom.NewBbox2(lo.X+qx, lo.Y+qy, hi.X-qx, hi.Y-qy)
	}
}

// NewBoxTree returns an empty tree over extent using BoxTraits.
func NewBoxTree[V comparable](extent geom.Bbox2, cull func(V) geom.Bbox2, link func(V) *Link[geom.Bbox2, V], opts Options) *QuadTree[geom.Bbox2, V] {
	return New[geom.Bbox2, V](BoxTraits[V]{CullFunc: cull, LinkFunc: link}, extent, opts)
}

// Touches returns a culler accepting every volume that shares a point with box.
func Touches(box geom.Bbox2) func(geom.Bbox2) bool {
	return func(c geom.Bbox2) bool { return c.Overlaps(box) }
}

// TouchesPoint returns a culler accepting every volume containing p.
func TouchesPoint(p geom.Point2) func(geom.Bbox2) bool {
	return func(c geom.Bbox2) bool { return !c.IsEmpty() && c.Contains(p) }
}
