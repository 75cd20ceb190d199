package pmwx

import (
	"github.com/plan-systems/klog"

	"github.com/beetlebugorg/xestopo/internal/geom"
)

// SetVertexLocation moves v to p. The caller guarantees the move does not
// change the topology of the map and that no other vertex sits at p.
func (m *Pmwx) SetVertexLocation(v VertexID, p geom.Point2) {
	old := m.vertices[v].point
	if cur, ok := m.vertexByPoint.Get(old); ok && cur.(VertexID) == v {
		m.vertexByPoint.Remove(old)
	}
	m.vertices[v].point = p
	m.vertexByPoint.Put(p, v)

	m.touchVertex(v)
	for _, h := range m.Incident(v) {
		m.touchHalfedge(h)
		m.touchHalfedge(h ^ 1)
		m.touchFace(m.halfedges[h].face)
		m.touchFace(m.halfedges[h^1].face)
	}
	m.flush()
}

// SplitEdge inserts a vertex at p in the interior of h. h keeps its source
// and now ends at p; a new edge runs from p to h's old target and copies h's
// payload. p must lie strictly inside h and must not be an existing vertex.
// The returned half-edge is h; its Next is the new half-edge.
func (m *Pmwx) SplitEdge(h HalfedgeID, p geom.Point2) HalfedgeID {
	preTwin := m.PreTwin(h)
	antenna := preTwin == h
	oldTarget := m.halfedges[h].target

	nv := m.newVertex(p)
	ne := m.newEdgeLike(h)

	m.setVertexHalfedge(nv, h)
	if m.vertices[oldTarget].halfedge == h {
		m.setVertexHalfedge(oldTarget, ne)
	}

	m.setTarget(ne, oldTarget)
	m.setTarget(ne^1, nv)
	m.setTarget(h, nv)

	m.setFace(ne, m.halfedges[h].face)
	m.setFace(ne^1, m.halfedges[h^1].face)

	m.setNext(ne, m.halfedges[h].next)
	m.setNext(h, ne)

	if antenna {
		preTwin = ne
	}
	m.setNext(preTwin, ne^1)
	m.setNext(ne^1, h^1)

	m.touchHalfedge(h)
	m.touchHalfedge(h ^ 1)
	m.flush()
	splits.Inc()
	return h
}

// MergeEdges joins first and second, which must be consecutive around a
// degree-2 vertex with matching faces on each side. second and the vertex
// between them are deleted; first is extended to second's target and
// returned.
func (m *Pmwx) MergeEdges(first, second HalfedgeID) HalfedgeID {
	preSecondTwin := m.PreTwin(second)
	mid := m.Source(second)
	end := m.halfedges[second].target

	m.setTarget(first, end)
	if m.vertices[end].halfedge == second {
		m.setVertexHalfedge(end, first)
	}

	m.setNext(preSecondTwin, first^1)
	m.setNext(first, m.halfedges[second].next)

	f, tf := m.halfedges[second].face, m.halfedges[second^1].face
	if m.faces[f].outer == second {
		m.setOuterCCB(f, first)
	}
	if m.faces[tf].outer == second^1 {
		m.setOuterCCB(tf, first^1)
	}
	if m.halfedges[second].holeRep {
		m.deleteHole(f, second)
		m.addHole(f, first)
	}
	if m.halfedges[second^1].holeRep {
		m.deleteHole(tf, second^1)
		m.addHole(tf, first^1)
	}

	m.deleteVertex(mid)
	m.deleteEdge(second)
	m.touchHalfedge(first)
	m.touchHalfedge(first ^ 1)
	m.touchFace(f)
	m.touchFace(tf)
	m.flush()
	merges.Inc()
	return first
}

// RemoveEdge deletes the edge of h together with any vertex left without
// edges. When the edge separated two faces they merge and the destroyed face
// is returned; otherwise NoFace.
//
// The surviving face is the unbounded face when it takes part, else the face
// that held the other as a hole, else h's own face.
func (m *Pmwx) RemoveEdge(h HalfedgeID) FaceID {
	t := h ^ 1
	target := m.halfedges[h].target
	twinTarget := m.halfedges[t].target
	face := m.halfedges[h].face
	twinFace := m.halfedges[t].face
	edgePrev := m.PointsToMe(h)
	twinPrev := m.PointsToMe(t)
	hNext := m.halfedges[h].next
	tNext := m.halfedges[t].next

	if hNext != t {
		if m.vertices[target].halfedge == h {
			m.setVertexHalfedge(target, hNext^1)
		}
		target = NoVertex
	}
	if tNext != h {
		if m.vertices[twinTarget].halfedge == t {
			m.setVertexHalfedge(twinTarget, tNext^1)
		}
		twinTarget = NoVertex
	}

	loser := NoFace

	if face == twinFace {
		m.touchFace(face)
		switch {
		case hNext == t && tNext == h:
			// Isolated edge.
			if m.halfedges[h].holeRep {
				m.deleteHole(face, h)
			} else if m.halfedges[t].holeRep {
				m.deleteHole(face, t)
			} else {
				klog.Warningf("pmwx: isolated edge %d is not a hole of face %d", h, face)
			}

		case hNext == t:
			// h runs to the tip of an antenna.
			if hole := m.HoleRep(h); hole != NoHalfedge {
				m.deleteHole(face, hole)
				m.addHole(face, tNext)
			}
			if o := m.faces[face].outer; o == h || o == t {
				m.setOuterCCB(face, tNext)
			}
			m.setNext(edgePrev, tNext)

		case tNext == h:
			// h runs back from the tip of an antenna.
			if hole := m.HoleRep(h); hole != NoHalfedge {
				m.deleteHole(face, hole)
				m.addHole(face, hNext)
			}
			if o := m.faces[face].outer; o == h || o == t {
				m.setOuterCCB(face, hNext)
			}
			m.setNext(twinPrev, hNext)

		default:
			// The cycle through h splits in two.
			if hole := m.HoleRep(h); hole != NoHalfedge {
				m.deleteHole(face, hole)
				m.addHole(face, hNext)
				m.addHole(face, tNext)
			} else {
				best1 := m.TargetPoint(h)
				for it := hNext; it != t; it = m.halfedges[it].next {
					if p := m.TargetPoint(it); geom.LessXY(p, best1) {
						best1 = p
					}
				}
				best2 := m.TargetPoint(t)
				for it := tNext; it != h; it = m.halfedges[it].next {
					if p := m.TargetPoint(it); geom.LessXY(p, best2) {
						best2 = p
					}
				}
				if geom.LessXY(best1, best2) {
					m.setOuterCCB(face, hNext)
					m.addHole(face, tNext)
				} else {
					m.setOuterCCB(face, tNext)
					m.addHole(face, hNext)
				}
			}
			m.setNext(edgePrev, tNext)
			m.setNext(twinPrev, hNext)
		}
	} else {
		edgeHole := m.HoleRep(h)
		twinHole := m.HoleRep(t)

		var winner FaceID
		switch {
		case edgeHole == NoHalfedge && twinHole == NoHalfedge:
			winner, loser = face, twinFace
			if twinFace == Unbounded {
				winner, loser = twinFace, face
			}
		case edgeHole == NoHalfedge:
			// t lies on a hole of its face, which contains h's face.
			winner, loser = twinFace, face
		case twinHole == NoHalfedge:
			winner, loser = face, twinFace
		default:
			klog.Warningf("pmwx: edge %d lies on holes of two faces (%d, %d)", h, face, twinFace)
			contractViolations.Inc()
			winner, loser = face, twinFace
			if twinFace == Unbounded {
				winner, loser = twinFace, face
			}
		}

		// Hand the winner's references off h and t before the edge dies.
		w, winnerHole, loserHole := h, edgeHole, twinHole
		if winner == twinFace {
			w, winnerHole, loserHole = t, twinHole, edgeHole
		}
		if winnerHole == w {
			m.deleteHole(winner, w)
			m.addHole(winner, m.halfedges[w].next)
		}
		if m.faces[winner].outer == w {
			m.setOuterCCB(winner, m.halfedges[w].next)
		}
		if loserHole != NoHalfedge {
			m.deleteHole(loser, loserHole)
		}

		m.setNext(edgePrev, tNext)
		m.setNext(twinPrev, hNext)

		for _, hole := range m.faces[loser].holes {
			m.addHole(winner, hole)
			m.setRingFace(hole, winner)
		}
		m.faces[loser].holes = nil

		rest := hNext
		if rest == t {
			rest = tNext
		}
		m.setRingFace(rest, winner)
		m.touchFace(winner)

		m.deleteFace(loser)
	}

	if target != NoVertex {
		m.deleteVertex(target)
	}
	if twinTarget != NoVertex {
		m.deleteVertex(twinTarget)
	}
	m.deleteEdge(h)
	m.flush()
	removals.Inc()
	return loser
}
