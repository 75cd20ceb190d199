package terrain

import (
	"sort"

	"github.com/beetlebugorg/xestopo/internal/geom"
)

// crossingSlop merges crossings this close together along a walk, as a
// fraction of the walk's length.
const crossingSlop = 1e-12

type crossing struct {
	t float64
	p geom.Point3
}

// March walks the straight line from one point to another and returns the
// start, every point where the line crosses a triangle edge, and the end, in
// walk order. Each point carries the mesh height there; points off the mesh
// get height 0.
func (m *Mesh) March(from, to geom.Point2) []geom.Point3 {
	startZ, _ := m.HeightAt(from)
	endZ, _ := m.HeightAt(to)
	if from == to {
		return []geom.Point3{from.Lift(startZ)}
	}

	d := geom.NewVector(from, to)
	seen := make(map[int]bool)
	var hits []crossing
	for _, tri := range m.candidates(geom.BoxFromCorners(from, to)) {
		for _, e := range m.triEdges[tri] {
			if seen[e] {
				continue
			}
			seen[e] = true
			if c, ok := m.crossEdge(e, from, d); ok {
				hits = append(hits, c)
			}
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].t < hits[j].t })

	out := make([]geom.Point3, 0, len(hits)+2)
	out = append(out, from.Lift(startZ))
	last := 0.0
	for _, c := range hits {
		if c.t-last <= crossingSlop {
			continue
		}
		out = append(out, c.p)
		last = c.t
	}
	return append(out, to.Lift(endZ))
}

// crossEdge intersects edge e with the open walk from + t*d, 0 < t < 1.
func (m *Mesh) crossEdge(e int, from geom.Point2, d geom.Vector2) (crossing, bool) {
	a, b := m.points[m.edges[e][0]], m.points[m.edges[e][1]]
	ev := geom.NewVector(a.XY(), b.XY())
	denom := d.Cross(ev)
	if denom == 0 {
		return crossing{}, false
	}
	ap := geom.NewVector(from, a.XY())
	t := ap.Cross(ev) / denom
	s := ap.Cross(d) / denom
	if t <= crossingSlop || t >= 1-crossingSlop || s < 0 || s > 1 {
		return crossing{}, false
	}
	p := geom.Point2{X: from.X + t*d.DX, Y: from.Y + t*d.DY}
	return crossing{t: t, p: p.Lift(a.Z + s*(b.Z-a.Z))}, true
}
