package pmwx

import "github.com/beetlebugorg/xestopo/internal/geom"

// farLeft is the x coordinate leftward crossing searches start from.
const farLeft = -9.9e9

// betterXCross reports whether trial crosses the horizontal line y further
// right than best. Intercepts of two segments sharing an endpoint are
// compared by slope, since near the shared vertex both intercepts round to
// the same value.
func betterXCross(best geom.Segment2, bestX float64, trial geom.Segment2, trialX, y float64) bool {
	switch {
	case best.P1 == trial.P1 && best.P2 == trial.P2,
		best.P1 == trial.P2 && best.P2 == trial.P1:
		return false
	case best.IsHorizontal() || trial.IsHorizontal():
		return trialX > bestX
	case best.P1 == trial.P1:
		return slopeRight(best.P1, best.P2, trial.P2, y)
	case best.P1 == trial.P2:
		return slopeRight(best.P1, best.P2, trial.P1, y)
	case best.P2 == trial.P1:
		return slopeRight(best.P2, best.P1, trial.P2, y)
	case best.P2 == trial.P2:
		return slopeRight(best.P2, best.P1, trial.P1, y)
	}
	return trialX > bestX
}

// slopeRight compares two segments leaving the shared vertex o toward b and
// t. Both are flipped upward first so the comparison cannot change sign.
func slopeRight(o, b, t geom.Point2, y float64) bool {
	if y == o.Y {
		return false
	}
	vb := geom.NewVector(o, b)
	vt := geom.NewVector(o, t)
	if vb.DY < 0 {
		vb.DY = -vb.DY
	}
	if vt.DY < 0 {
		vt.DY = -vt.DY
	}
	return vt.DX*vb.DY > vb.DX*vt.DY
}

// LocatePoint finds the element of the map containing p.
//
// A vertex hit returns one of the vertex's incoming half-edges. An edge hit
// returns a half-edge of that edge. A face hit returns the face's outer CCB,
// or for the unbounded face its first hole, or NoHalfedge when the map is
// empty.
//
// The search shoots a ray leftward from p and walks face to face, keeping the
// nearest crossing. Crossings are required to move strictly toward p, so a
// corrupt map terminates with a wrong answer instead of looping.
//
// Example:
//
//	h, loc := m.LocatePoint(pmwx.Point2{X: 5, Y: 5})
//	if loc == pmwx.LocateFace && h != pmwx.NoHalfedge {
//	    f := m.Face(h)
//	    _ = f
//	}
func (m *Pmwx) LocatePoint(p geom.Point2) (HalfedgeID, LocateType) {
	if v, ok := m.LocateVertex(p); ok {
		return m.vertices[v].halfedge, LocateVertex
	}

	owner := Unbounded
	bestX := farLeft
	bestSeg := geom.Segment2{P1: geom.Point2{X: farLeft, Y: p.Y}, P2: geom.Point2{X: farLeft, Y: p.Y}}

	for {
		next := NoFace
		f := &m.faces[owner]

		rings := make([]HalfedgeID, 0, len(f.holes)+1)
		rings = append(rings, f.holes...)
		if f.outer != NoHalfedge {
			rings = append(rings, f.outer)
		}

		for _, stop := range rings {
			it := stop
			for {
				seg := m.Segment(it)

				if (seg.P1.Y < p.Y && p.Y <= seg.P2.Y) || (seg.P1.Y > p.Y && p.Y >= seg.P2.Y) {
					x := seg.XAtY(p.Y)
					if betterXCross(bestSeg, bestX, seg, x, p.Y) && x <= p.X {
						bestX, bestSeg = x, seg
						if x == p.X {
							if seg.P2 == p {
								return it, LocateVertex
							}
							return it, LocateHalfedge
						}
						switch {
						case seg.P2.Y == p.Y:
							next = m.Face(m.RightmostRising(m.Target(it)))
						case seg.P1.Y < seg.P2.Y:
							next = m.Face(it ^ 1)
						default:
							next = m.Face(it)
						}
					}
				}

				if p.Y == seg.P1.Y && p.Y == seg.P2.Y {
					if (seg.P1.X <= p.X && p.X <= seg.P2.X) || (seg.P2.X <= p.X && p.X <= seg.P1.X) {
						loc := LocateHalfedge
						if seg.P1 == p || seg.P2 == p {
							loc = LocateVertex
						}
						if seg.P1 == p {
							return it ^ 1, loc
						}
						return it, loc
					}
					if bestX < seg.P2.X && seg.P2.X <= p.X {
						bestX, bestSeg = seg.P2.X, seg
						next = m.Face(m.RightmostRising(m.Target(it)))
					}
				}

				it = m.halfedges[it].next
				if it == stop {
					break
				}
			}
		}

		if next == NoFace || next == owner {
			return m.faceRep(owner), LocateFace
		}
		owner = next
	}
}

// faceRep returns the half-edge that stands for f in locate results.
func (m *Pmwx) faceRep(f FaceID) HalfedgeID {
	if m.faces[f].outer != NoHalfedge {
		return m.faces[f].outer
	}
	if len(m.faces[f].holes) > 0 {
		return m.faces[f].holes[0]
	}
	return NoHalfedge
}

// FaceAt returns the face containing p, or the face adjacent to the
// element p lies on. Vertex and edge hits resolve to the face on the left of
// the returned half-edge.
func (m *Pmwx) FaceAt(p geom.Point2) FaceID {
	h, _ := m.LocatePoint(p)
	if h == NoHalfedge {
		return Unbounded
	}
	return m.halfedges[h].face
}
