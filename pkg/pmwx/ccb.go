package pmwx

import (
	"github.com/plan-systems/klog"

	"github.com/beetlebugorg/xestopo/internal/geom"
)

// CCB returns the half-edges of the boundary cycle starting at h, following
// Next until it comes back to h.
func (m *Pmwx) CCB(h HalfedgeID) []HalfedgeID {
	var out []HalfedgeID
	it := h
	for {
		out = append(out, it)
		it = m.halfedges[it].next
		if it == h {
			return out
		}
	}
}

// Incident returns the half-edges pointing at v in circulation order.
func (m *Pmwx) Incident(v VertexID) []HalfedgeID {
	start := m.vertices[v].halfedge
	if start == NoHalfedge {
		return nil
	}
	var out []HalfedgeID
	it := start
	for {
		out = append(out, it)
		it = m.nextAround(it)
		if it == start {
			return out
		}
	}
}

// nextAround steps to the next half-edge pointing at the same vertex.
func (m *Pmwx) nextAround(h HalfedgeID) HalfedgeID {
	return m.halfedges[h].next ^ 1
}

// Degree returns the number of edges incident to v.
func (m *Pmwx) Degree(v VertexID) int {
	start := m.vertices[v].halfedge
	if start == NoHalfedge {
		return 0
	}
	n := 0
	for it := start; ; {
		n++
		it = m.nextAround(it)
		if it == start {
			return n
		}
	}
}

// IsOnOuterCCB reports whether h's cycle is the outer boundary of its face.
func (m *Pmwx) IsOnOuterCCB(h HalfedgeID) bool {
	outer := m.faces[m.halfedges[h].face].outer
	if outer == NoHalfedge {
		return false
	}
	for it := h; ; {
		if it == outer {
			return true
		}
		it = m.halfedges[it].next
		if it == h {
			return false
		}
	}
}

// HoleRep returns the representative of the hole h lies on, or NoHalfedge
// when h is on its face's outer boundary.
func (m *Pmwx) HoleRep(h HalfedgeID) HalfedgeID {
	outer := m.faces[m.halfedges[h].face].outer
	for it := h; ; {
		if it == outer {
			return NoHalfedge
		}
		if m.halfedges[it].holeRep {
			return it
		}
		it = m.halfedges[it].next
		if it == h {
			return NoHalfedge
		}
	}
}

// Leftmost returns the half-edge of h's cycle whose target is smallest in
// x-then-y order.
func (m *Pmwx) Leftmost(h HalfedgeID) HalfedgeID {
	best := h
	pos := m.TargetPoint(h)
	for it := m.halfedges[h].next; it != h; it = m.halfedges[it].next {
		p := m.TargetPoint(it)
		if geom.LessXY(p, pos) {
			best, pos = it, p
		}
	}
	return best
}

// PointsToMe returns the half-edge whose Next is h.
func (m *Pmwx) PointsToMe(h HalfedgeID) HalfedgeID {
	start := m.vertices[m.Source(h)].halfedge
	for it := start; ; {
		if m.halfedges[it].next == h {
			return it
		}
		it = m.nextAround(it)
		if it == start {
			break
		}
	}
	// Broken circulation; walk the cycle instead.
	for it := m.halfedges[h].next; ; it = m.halfedges[it].next {
		if m.halfedges[it].next == h {
			return it
		}
	}
}

// PreTwin returns the half-edge whose Next is h's twin.
func (m *Pmwx) PreTwin(h HalfedgeID) HalfedgeID { return m.PointsToMe(h ^ 1) }

// SwapDominance moves dominance and the edge payload from h's dominant member
// to the other one.
func (m *Pmwx) SwapDominance(h HalfedgeID) {
	a, b := &m.halfedges[h], &m.halfedges[h^1]
	a.dominant, b.dominant = b.dominant, a.dominant
	a.data, b.data = b.data, a.data
	m.touchHalfedge(h)
	m.touchHalfedge(h ^ 1)
	m.flush()
}

// RightmostRising returns the half-edge pointing at v whose face owns the
// space immediately to the right of v. With a single incident edge that edge
// is returned.
func (m *Pmwx) RightmostRising(v VertexID) HalfedgeID {
	start := m.vertices[v].halfedge
	circ := start
	for {
		next := m.nextAround(circ)
		if next == circ {
			return next
		}
		if m.leftwardHorizontal(circ) {
			circ = next
			if circ == start {
				break
			}
			continue
		}
		if m.leftwardHorizontal(next) {
			return next
		}
		if geom.IsCCWBetween(
			geom.NewVector(m.TargetPoint(next), m.SourcePoint(next)),
			geom.Vector2{DX: 1},
			geom.NewVector(m.TargetPoint(circ), m.SourcePoint(circ))) {
			return circ
		}
		circ = next
		if circ == start {
			break
		}
	}
	return start
}

// leftwardHorizontal reports whether h is horizontal and runs right to left,
// i.e. its source lies to the right of its target.
func (m *Pmwx) leftwardHorizontal(h HalfedgeID) bool {
	s, t := m.SourcePoint(h), m.TargetPoint(h)
	return s.Y == t.Y && s.X > t.X
}

// VerticesConnected returns the half-edge running from v1 to v2, or
// NoHalfedge when they share no edge.
func (m *Pmwx) VerticesConnected(v1, v2 VertexID) HalfedgeID {
	start := m.vertices[v1].halfedge
	if start == NoHalfedge {
		return NoHalfedge
	}
	for it := start; ; {
		if m.halfedges[it^1].target == v2 {
			return it ^ 1
		}
		it = m.nextAround(it)
		if it == start {
			return NoHalfedge
		}
	}
}

// GetPreceding returns the half-edge pointing at the same vertex as h after
// which a new edge from that vertex toward p belongs in circulation order.
func (m *Pmwx) GetPreceding(h HalfedgeID, p geom.Point2) HalfedgeID {
	if m.nextAround(h) == h {
		return h
	}
	origin := m.TargetPoint(h)
	ray := geom.NewVector(origin, p)
	for it := h; ; {
		next := m.nextAround(it)
		if geom.IsCCWBetween(
			geom.NewVector(origin, m.SourcePoint(next)),
			ray,
			geom.NewVector(origin, m.SourcePoint(it))) {
			return it
		}
		it = next
		if it == h {
			break
		}
	}
	klog.Warningf("pmwx: no insertion slot around vertex %d toward %v", m.halfedges[h].target, p)
	contractViolations.Inc()
	return h
}

// ccbArea returns twice the signed area of a boundary cycle's points;
// positive means counter-clockwise. Antennas walked both ways cancel out.
func ccbArea(ring []geom.Point2) float64 {
	var s float64
	for i := range ring {
		j := (i + 1) % len(ring)
		s += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return s
}

// ccbContains is an even-odd test of p against a boundary cycle's points.
// Antennas cross the scan line twice and cancel. Points on the boundary may
// go either way.
func ccbContains(ring []geom.Point2, p geom.Point2) bool {
	inside := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// ringPoints returns the target points of h's cycle.
func (m *Pmwx) ringPoints(h HalfedgeID) []geom.Point2 {
	var pts []geom.Point2
	for it := h; ; {
		pts = append(pts, m.TargetPoint(it))
		it = m.halfedges[it].next
		if it == h {
			return pts
		}
	}
}

func (m *Pmwx) ringBounds(h HalfedgeID) geom.Bbox2 {
	b := geom.EmptyBox()
	for it := h; ; {
		b = b.Add(m.TargetPoint(it))
		it = m.halfedges[it].next
		if it == h {
			return b
		}
	}
}

func (m *Pmwx) setRingFace(h HalfedgeID, f FaceID) {
	for it := h; ; {
		m.halfedges[it].face = f
		it = m.halfedges[it].next
		if it == h {
			return
		}
	}
}
