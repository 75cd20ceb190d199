package pmwx

import "github.com/beetlebugorg/xestopo/internal/geom"

// Notifier is told about every edge an insertion touches. A split reports
// (old, new) where new is the half-edge created by the split; a brand new edge
// reports (NoHalfedge, new); an existing edge reused by the insertion reports
// (existing, NoHalfedge).
type Notifier func(old, added HalfedgeID)

func (n Notifier) call(old, added HalfedgeID) {
	if n != nil {
		n(old, added)
	}
}

// InsertEdge adds the segment p1-p2 to the map, splitting every edge it
// crosses and creating vertices where needed. The returned half-edge ends at
// p2 and runs along the inserted path. Inserting a zero-length segment does
// nothing and returns NoHalfedge.
//
// Example:
//
//	m := pmwx.New(pmwx.DefaultOptions())
//	m.InsertEdge(pmwx.Point2{X: 0, Y: 0}, pmwx.Point2{X: 10, Y: 0}, nil)
//	m.InsertEdge(pmwx.Point2{X: 10, Y: 0}, pmwx.Point2{X: 10, Y: 10}, nil)
func (m *Pmwx) InsertEdge(p1, p2 geom.Point2, notify Notifier) HalfedgeID {
	if p1 == p2 {
		return NoHalfedge
	}
	hint, loc := NoHalfedge, LocateFace
	if !m.Empty() {
		hint, loc = m.LocatePoint(p1)
	}
	return m.InsertEdgeFrom(p1, p2, hint, loc, notify)
}

// InsertEdgeFrom is InsertEdge with p1 already located by LocatePoint.
func (m *Pmwx) InsertEdgeFrom(p1, p2 geom.Point2, hint HalfedgeID, loc LocateType, notify Notifier) HalfedgeID {
	if p1 == p2 {
		return NoHalfedge
	}
	inserts.Inc()
	if m.Empty() {
		h := m.InsertEdgeInHole(Unbounded, p1, p2)
		notify.call(NoHalfedge, h)
		return h
	}

	cur, curLoc, curHE := p1, loc, hint
	last := NoHalfedge

	if curLoc == LocateHalfedge {
		curHE = m.SplitEdge(curHE, cur)
		notify.call(curHE, m.halfedges[curHE].next)
		curLoc = LocateVertex
	}

	for cur != p2 {
		foundHE, found, foundLoc := m.RayShoot(cur, curLoc, curHE, p2)

		if foundLoc == LocateHalfedge {
			foundHE = m.SplitEdge(foundHE, found)
			notify.call(foundHE, m.halfedges[foundHE].next)
			foundLoc = LocateVertex
		}

		switch {
		case curLoc == LocateFace && foundLoc == LocateFace:
			f := Unbounded
			if curHE != NoHalfedge {
				f = m.halfedges[curHE].face
			}
			h := m.InsertEdgeInHole(f, cur, found)
			notify.call(NoHalfedge, h)
			return h

		case curLoc == LocateFace:
			h := m.InsertEdgeFromVertex(m.GetPreceding(foundHE, cur), cur)
			notify.call(NoHalfedge, h^1)
			last = h ^ 1

		case foundLoc == LocateFace:
			h := m.InsertEdgeFromVertex(m.GetPreceding(curHE, found), found)
			notify.call(NoHalfedge, h)
			return h

		default:
			h := m.VerticesConnected(m.halfedges[curHE].target, m.halfedges[foundHE].target)
			if h == NoHalfedge {
				h = m.InsertEdgeBetweenVertices(m.GetPreceding(curHE, found), m.GetPreceding(foundHE, cur))
				notify.call(NoHalfedge, h)
			} else {
				notify.call(h, NoHalfedge)
			}
			last = h
		}

		cur, curHE, curLoc = found, foundHE, foundLoc
	}
	return last
}

// InsertRing adds a closed ring of new vertices as a hole of parent and
// returns the new face inside it. The points must be counter-clockwise,
// distinct, not already in the map, and the ring must not cross anything.
func (m *Pmwx) InsertRing(parent FaceID, pts []geom.Point2) FaceID {
	c := len(pts)
	nf := m.newFace()
	verts := make([]VertexID, c)
	edges := make([]HalfedgeID, c)
	for n := range pts {
		edges[n] = m.newEdge()
		verts[n] = m.newVertex(pts[n])
	}
	for n := 0; n < c; n++ {
		prev := (n + c - 1) % c
		e := edges[n]
		m.setVertexHalfedge(verts[n], e)
		m.setTarget(e, verts[n])
		m.setTarget(e^1, verts[prev])
		m.setFace(e, nf)
		m.setFace(e^1, parent)
		m.setNext(e, edges[(n+1)%c])
		m.setNext(e^1, edges[prev]^1)
	}
	m.addHole(parent, edges[0]^1)
	m.setOuterCCB(nf, edges[0])
	m.touchFace(parent)
	m.flush()
	return nf
}

// InsertEdgeInHole adds an isolated edge from p1 to p2 inside f. Neither point
// may be an existing vertex and the segment must not cross anything. The
// half-edge ending at p2 is returned.
func (m *Pmwx) InsertEdgeInHole(f FaceID, p1, p2 geom.Point2) HalfedgeID {
	v1 := m.newVertex(p2)
	v2 := m.newVertex(p1)
	e := m.newEdge()
	m.setTarget(e, v1)
	m.setTarget(e^1, v2)
	m.setVertexHalfedge(v1, e)
	m.setVertexHalfedge(v2, e^1)
	m.setNext(e, e^1)
	m.setNext(e^1, e)
	m.setFace(e, f)
	m.setFace(e^1, f)
	m.addHole(f, e)
	m.touchFace(f)
	m.flush()
	return e
}

// InsertEdgeFromVertex adds an antenna from adj's target to the new point p.
// adj must be the half-edge preceding the new edge in circulation order (see
// GetPreceding). The half-edge ending at p is returned.
func (m *Pmwx) InsertEdgeFromVertex(adj HalfedgeID, p geom.Point2) HalfedgeID {
	v := m.newVertex(p)
	e := m.newEdge()
	f := m.halfedges[adj].face
	m.setVertexHalfedge(v, e)
	m.setTarget(e, v)
	m.setTarget(e^1, m.halfedges[adj].target)
	m.setFace(e, f)
	m.setFace(e^1, f)
	m.setNext(e, e^1)
	m.setNext(e^1, m.halfedges[adj].next)
	m.setNext(adj, e)
	m.touchFace(f)
	m.flush()
	return e
}

// InsertEdgeBetweenVertices connects the targets of e1 and e2, which must
// share a face and each precede the new edge in circulation order. The
// half-edge from e1's target to e2's target is returned.
//
// Connecting two holes merges them; closing a hole on itself or splitting an
// outer boundary creates a face, and holes of the old face that fall inside
// the new one move with it.
func (m *Pmwx) InsertEdgeBetweenVertices(e1, e2 HalfedgeID) HalfedgeID {
	e1Hole := m.HoleRep(e1)
	e2Hole := m.HoleRep(e2)
	oldF := m.halfedges[e1].face
	newF := NoFace

	e := m.newEdge()
	m.setTarget(e, m.halfedges[e2].target)
	m.setTarget(e^1, m.halfedges[e1].target)
	m.setNext(e, m.halfedges[e2].next)
	m.setNext(e^1, m.halfedges[e1].next)
	m.setNext(e1, e)
	m.setNext(e2, e^1)
	m.setFace(e, oldF)
	m.setFace(e^1, oldF)
	m.touchFace(oldF)

	switch {
	case e1Hole != e2Hole && e1Hole != NoHalfedge && e2Hole != NoHalfedge:
		m.deleteHole(oldF, e2Hole)

	case e1Hole == e2Hole && e1Hole != NoHalfedge:
		m.deleteHole(oldF, e1Hole)

		var onNew HalfedgeID
		ourLeft := m.Leftmost(e)
		twinLeft := m.Leftmost(e ^ 1)
		if m.halfedges[ourLeft].target == m.halfedges[twinLeft].target {
			// A plain ring: orientation decides which side is inside.
			if ccbArea(m.ringPoints(e)) > 0 {
				onNew = e
			} else {
				onNew = e ^ 1
			}
		} else if geom.LessXY(m.TargetPoint(ourLeft), m.TargetPoint(twinLeft)) {
			onNew = e ^ 1
		} else {
			onNew = e
		}

		newF = m.newFaceLike(oldF)
		m.setOuterCCB(newF, onNew)
		m.setRingFace(onNew, newF)
		m.addHole(oldF, onNew^1)
		e1Hole = onNew ^ 1

	case e1Hole != NoHalfedge || e2Hole != NoHalfedge:
		if e1Hole != NoHalfedge {
			m.deleteHole(oldF, e1Hole)
		}
		if e2Hole != NoHalfedge {
			m.deleteHole(oldF, e2Hole)
		}

	default:
		newF = m.newFaceLike(oldF)
		m.setOuterCCB(oldF, e^1)
		m.setOuterCCB(newF, e)
		m.setRingFace(e, newF)
	}

	if newF != NoFace {
		var moving []HalfedgeID
		for _, hole := range m.faces[oldF].holes {
			if hole == e1Hole {
				continue
			}
			if m.insideOuter(newF, m.TargetPoint(hole)) {
				moving = append(moving, hole)
			}
		}
		for _, hole := range moving {
			m.deleteHole(oldF, hole)
			m.addHole(newF, hole)
			m.setRingFace(hole, newF)
		}
	}

	m.flush()
	return e
}

// insideOuter reports whether p, which is not on f's outer boundary, lies
// inside it. The nearest boundary crossing to the left of p decides, read
// from that side's orientation.
func (m *Pmwx) insideOuter(f FaceID, p geom.Point2) bool {
	stop := m.faces[f].outer
	bestX := farLeft
	bestSeg := geom.Segment2{P1: geom.Point2{X: farLeft, Y: p.Y}, P2: geom.Point2{X: farLeft, Y: p.Y}}
	inside := false

	for it := stop; ; {
		trial := m.Segment(it)
		p1, p2 := trial.P1, trial.P2

		if (p.Y > p1.Y && p.Y <= p2.Y) || (p.Y < p1.Y && p.Y >= p2.Y) {
			guess := trial.XAtY(p.Y)
			if betterXCross(bestSeg, bestX, trial, guess, p.Y) && guess < p.X {
				if p1.Y < p2.Y {
					inside = m.halfedges[it^1].face == f
				} else {
					inside = m.halfedges[it].face == f
				}
				if p2.Y == p.Y {
					inside = m.halfedges[m.RightmostRising(m.halfedges[it].target)].face == f
				}
				bestX, bestSeg = guess, trial
			}
		}

		if p1.Y == p.Y && p.Y == p2.Y && bestX < p2.X && p2.X < p.X {
			inside = m.halfedges[m.RightmostRising(m.halfedges[it].target)].face == f
			bestX, bestSeg = p2.X, trial
		}

		it = m.halfedges[it].next
		if it == stop {
			return inside
		}
	}
}

// NoxInsertEdgeInHole inserts the isolated segment p1-p2 into the face
// containing p1. Neither point may be an existing vertex and the segment must
// not cross anything.
func (m *Pmwx) NoxInsertEdgeInHole(p1, p2 geom.Point2) HalfedgeID {
	if m.Empty() {
		return m.InsertEdgeInHole(Unbounded, p1, p2)
	}
	return m.InsertEdgeInHole(m.FaceAt(p1), p1, p2)
}

// NoxInsertEdgeFromVertex adds an antenna from v to the new point p. The
// segment must not cross anything.
func (m *Pmwx) NoxInsertEdgeFromVertex(v VertexID, p geom.Point2) HalfedgeID {
	return m.InsertEdgeFromVertex(m.GetPreceding(m.vertices[v].halfedge, p), p)
}

// NoxInsertEdgeBetweenVertices connects v1 and v2, returning the existing
// half-edge when they are already connected. The segment must not cross
// anything.
func (m *Pmwx) NoxInsertEdgeBetweenVertices(v1, v2 VertexID) HalfedgeID {
	if h := m.VerticesConnected(v1, v2); h != NoHalfedge {
		return h
	}
	return m.InsertEdgeBetweenVertices(
		m.GetPreceding(m.vertices[v1].halfedge, m.vertices[v2].point),
		m.GetPreceding(m.vertices[v2].halfedge, m.vertices[v1].point))
}
