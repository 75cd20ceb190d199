package pmwx

import "github.com/beetlebugorg/xestopo/internal/geom"

// RayShoot walks from start toward dest and reports the first element of the
// map it meets.
//
// startType and hint describe where start lies, as returned by LocatePoint or
// a previous RayShoot: for LocateVertex hint points at the start vertex, for
// LocateHalfedge start lies in the interior of hint, and for LocateFace hint
// is any half-edge of the face (NoHalfedge meaning the unbounded face).
//
// The result is the element hit and the crossing point. A vertex hit returns
// a half-edge pointing at that vertex; an edge hit returns the half-edge of
// the face the ray was travelling through; when nothing is hit before dest
// the crossing is dest and the type is LocateFace. The start element itself
// is never reported.
func (m *Pmwx) RayShoot(start geom.Point2, startType LocateType, hint HalfedgeID, dest geom.Point2) (HalfedgeID, geom.Point2, LocateType) {
	if m.Empty() {
		return NoHalfedge, dest, LocateFace
	}

	excludeVertex := NoVertex
	excludeEdge := NoHalfedge
	ray := geom.NewVector(start, dest)
	try := geom.Segment2{P1: start, P2: dest}
	search := NoFace

	// An edge leaving start is followed when it heads the way of the ray and
	// its far end lies on the ray's line within snapping distance.
	follows := func(out geom.Segment2) bool {
		return ray.Dot(geom.NewVector(out.P1, out.P2)) > 0 && try.NearLine(out.P2)
	}

	switch startType {
	case LocateFace:
		search = Unbounded
		if hint != NoHalfedge {
			search = m.Face(hint)
		}

	case LocateVertex:
		excludeVertex = m.Target(hint)
		if m.halfedges[hint].next == hint^1 {
			search = m.Face(hint)
		}
		circ := hint
		for {
			next := m.nextAround(circ)
			switch dest {
			case m.SourcePoint(circ):
				return circ ^ 1, dest, LocateVertex
			case m.TargetPoint(circ):
				return circ, dest, LocateVertex
			case m.SourcePoint(next):
				return next ^ 1, dest, LocateVertex
			case m.TargetPoint(next):
				return next, dest, LocateVertex
			}

			for _, h := range [2]HalfedgeID{circ, next} {
				out := geom.Segment2{P1: m.TargetPoint(h), P2: m.SourcePoint(h)}
				if follows(out) {
					if out.CollinearHasOn(dest) {
						return h ^ 1, dest, LocateHalfedge
					}
					return h ^ 1, out.P2, LocateVertex
				}
			}

			if circ != next && geom.IsCCWBetween(
				geom.NewVector(m.TargetPoint(circ), m.SourcePoint(next)),
				ray,
				geom.NewVector(m.TargetPoint(next), m.SourcePoint(circ))) {
				search = m.Face(circ)
			}

			circ = next
			if circ == hint {
				break
			}
		}
		if search == NoFace {
			search = m.Face(hint)
		}

	case LocateHalfedge:
		excludeEdge = hint
		seg := m.Segment(hint)
		along := geom.NewVector(seg.P1, seg.P2)
		switch {
		case follows(geom.Segment2{P1: start, P2: seg.P2}):
			if seg.CollinearHasOn(dest) {
				return hint, dest, LocateHalfedge
			}
			return hint, seg.P2, LocateVertex
		case follows(geom.Segment2{P1: start, P2: seg.P1}):
			if seg.CollinearHasOn(dest) {
				return hint ^ 1, dest, LocateHalfedge
			}
			return hint ^ 1, seg.P1, LocateVertex
		case along.PerpendicularCCW().Dot(ray) > 0:
			search = m.Face(hint)
		default:
			search = m.Face(hint ^ 1)
		}
	}

	best := NoHalfedge
	var bestDist float64
	var bestPt geom.Point2
	var exclude geom.Point2
	if excludeVertex != NoVertex {
		exclude = m.vertices[excludeVertex].point
	}

	consider := func(it HalfedgeID) {
		seg := m.Segment(it)
		if !seg.CouldIntersect(try) {
			return
		}
		var cross geom.Point2
		var ok bool
		if try.NearLine(seg.P1) && try.NearLine(seg.P2) {
			// Collinear: the ray runs into the nearest endpoint on its way,
			// even when the other endpoint is shared with the ray.
			cross, ok = geom.FirstCollinearHit(try, seg)
		} else {
			cross, ok = seg.Intersect(try)
			switch {
			case !ok:
			case cross.Near(seg.P1):
				cross = seg.P1
			case cross.Near(seg.P2):
				cross = seg.P2
			case cross.Near(dest):
				cross = dest
			}
		}
		if !ok {
			return
		}
		d := start.SquaredDistance(cross)
		if best != NoHalfedge && d >= bestDist {
			return
		}
		if it == excludeEdge || cross == start {
			return
		}
		if excludeVertex != NoVertex && cross == exclude {
			return
		}
		best, bestDist, bestPt = it, d, cross
	}

	f := &m.faces[search]
	rings := make([]HalfedgeID, 0, len(f.holes)+1)
	if f.outer != NoHalfedge {
		rings = append(rings, f.outer)
	}
	rings = append(rings, f.holes...)
	for _, stop := range rings {
		for it := stop; ; {
			consider(it)
			it = m.halfedges[it].next
			if it == stop {
				break
			}
		}
	}

	switch {
	case best == NoHalfedge:
		return m.faceRep(search), dest, LocateFace
	case bestPt == m.TargetPoint(best):
		return best, bestPt, LocateVertex
	case bestPt == m.SourcePoint(best):
		return best ^ 1, bestPt, LocateVertex
	}
	return best, bestPt, LocateHalfedge
}
