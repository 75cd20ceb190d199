package pmwx

import (
	"fmt"

	"github.com/plan-systems/klog"
)

// Validate checks the structural invariants of the map and returns an
// *ErrInvalidMap naming the first one violated, or nil.
//
// Checked: the unbounded face is face 0 and the only face without an outer
// boundary; every pair has exactly one dominant member; Next and face agree
// along each cycle; every vertex circulates back to itself; faces and holes
// point at live cycles of their own face; each hole cycle has exactly one
// representative; the vertex map and the element counts are in sync. With
// Options.CheckGeometry set, ValidateGeometry runs last.
func (m *Pmwx) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return &ErrInvalidMap{Reason: fmt.Sprintf(format, args...)}
	}

	if len(m.faces) == 0 || !m.faces[Unbounded].alive {
		return invalid("no unbounded face")
	}
	if m.faces[Unbounded].outer != NoHalfedge {
		return invalid("unbounded face has an outer boundary")
	}

	vc, hc, fc := 0, 0, 0
	for i := range m.vertices {
		v := VertexID(i)
		vx := &m.vertices[i]
		if !vx.alive {
			continue
		}
		vc++
		got, ok := m.vertexByPoint.Get(vx.point)
		if !ok || got.(VertexID) != v {
			return invalid("vertex %d at %v is not in the vertex map", v, vx.point)
		}
		if !m.HalfedgeAlive(vx.halfedge) {
			return invalid("vertex %d has no live half-edge", v)
		}
		if m.halfedges[vx.halfedge].target != v {
			return invalid("vertex %d half-edge does not point back to it", v)
		}
		start := vx.halfedge
		steps := 0
		for it := start; ; {
			if !m.halfedges[it].alive {
				return invalid("dead half-edge %d around vertex %d", it, v)
			}
			if m.halfedges[it].target != v {
				return invalid("half-edge %d around vertex %d points elsewhere", it, v)
			}
			it = m.nextAround(it)
			steps++
			if it == start {
				break
			}
			if steps > len(m.halfedges) {
				return invalid("vertex %d circulation does not close", v)
			}
		}
	}

	for i := range m.halfedges {
		h := HalfedgeID(i)
		he := &m.halfedges[i]
		if !he.alive {
			continue
		}
		hc++
		if !m.halfedges[h^1].alive {
			return invalid("half-edge %d has a dead twin", h)
		}
		if he.dominant == m.halfedges[h^1].dominant {
			return invalid("half-edge pair %d has %s dominant member", h&^1, dominantCount(he.dominant))
		}
		if !m.HalfedgeAlive(he.next) {
			return invalid("half-edge %d has no live next", h)
		}
		if !m.FaceAlive(he.face) {
			return invalid("half-edge %d has no live face", h)
		}
		if m.halfedges[he.next].face != he.face {
			return invalid("half-edge %d and its next have different faces", h)
		}
		if !m.VertexAlive(he.target) {
			return invalid("half-edge %d has no live target", h)
		}
		if m.Source(he.next) != he.target {
			return invalid("half-edge %d next does not leave its target", h)
		}
		if he.holeRep && !contains(m.faces[he.face].holes, h) {
			return invalid("half-edge %d is marked as a hole of face %d but is not listed", h, he.face)
		}
	}

	for i := range m.faces {
		f := FaceID(i)
		fx := &m.faces[i]
		if !fx.alive {
			continue
		}
		fc++
		if f != Unbounded {
			if fx.outer == NoHalfedge {
				return invalid("bounded face %d has no outer boundary", f)
			}
			if !m.HalfedgeAlive(fx.outer) {
				return invalid("face %d outer boundary is dead", f)
			}
			for it := fx.outer; ; {
				if m.halfedges[it].face != f {
					return invalid("half-edge %d on face %d outer boundary has face %d", it, f, m.halfedges[it].face)
				}
				if m.halfedges[it].holeRep {
					return invalid("half-edge %d on face %d outer boundary is marked as a hole", it, f)
				}
				n := m.halfedges[it].next
				if n == it^1 && m.halfedges[n].next == it {
					return invalid("isolated edge %d on face %d outer boundary", it, f)
				}
				it = n
				if it == fx.outer {
					break
				}
			}
		}
		for _, hole := range fx.holes {
			if !m.HalfedgeAlive(hole) {
				return invalid("face %d hole %d is dead", f, hole)
			}
			if !m.halfedges[hole].holeRep {
				return invalid("face %d hole %d is not marked", f, hole)
			}
			for it := hole; ; {
				if m.halfedges[it].face != f {
					return invalid("half-edge %d in hole of face %d has face %d", it, f, m.halfedges[it].face)
				}
				if it != hole && m.halfedges[it].holeRep {
					return invalid("hole cycle of face %d has two representatives (%d, %d)", f, hole, it)
				}
				it = m.halfedges[it].next
				if it == hole {
					break
				}
			}
		}
	}

	if vc != m.numVertices {
		return invalid("vertex count %d, expected %d", vc, m.numVertices)
	}
	if hc != m.numHalfedges {
		return invalid("half-edge count %d, expected %d", hc, m.numHalfedges)
	}
	if fc != m.numFaces {
		return invalid("face count %d, expected %d", fc, m.numFaces)
	}
	if m.vertexByPoint.Size() != vc {
		return invalid("vertex map holds %d entries for %d vertices", m.vertexByPoint.Size(), vc)
	}
	if m.opts.CheckGeometry {
		return m.ValidateGeometry()
	}
	return nil
}

// ValidateGeometry checks that edges meet only at shared vertices: no two
// edges cross, overlap along a line, or have a vertex inside the other.
// Candidate pairs come from the edge quad-tree when the map is indexed;
// otherwise every pair is tested.
func (m *Pmwx) ValidateGeometry() error {
	edges := m.DominantHalfedges()
	for i, h := range edges {
		seg := m.Segment(h)
		others := edges[i+1:]
		if m.indexed {
			others = m.FindHalfedgeTouchesRectFast(seg.Bounds())
		}
		for _, o := range others {
			if o <= h {
				continue
			}
			if other := m.Segment(o); seg.Conflicts(other) {
				geometryFailures.Inc()
				return &ErrInvalidMap{Reason: fmt.Sprintf("edges %d %v and %d %v meet away from a shared vertex", h, seg, o, other)}
			}
		}
	}
	return nil
}

// IsValid runs Validate and logs the reason on failure.
func (m *Pmwx) IsValid() bool {
	if err := m.Validate(); err != nil {
		klog.Warningf("pmwx: validation failed: %v", err)
		validationFailures.Inc()
		return false
	}
	return true
}

func dominantCount(both bool) string {
	if both {
		return "more than one"
	}
	return "no"
}

func contains(hs []HalfedgeID, h HalfedgeID) bool {
	for _, x := range hs {
		if x == h {
			return true
		}
	}
	return false
}
