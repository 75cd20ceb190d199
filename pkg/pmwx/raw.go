package pmwx

import (
	"fmt"

	"github.com/beetlebugorg/xestopo/internal/geom"
)

// RawHalfedge is a half-edge in flat form. Half-edges 2k and 2k+1 of a
// RawMap are twins.
type RawHalfedge struct {
	Target   int32
	Dominant bool
}

// RawFace lists the boundary cycles of a face in flat form. Each cycle is the
// half-edge indices in Next order. The unbounded face has no Outer.
type RawFace struct {
	Outer []int32
	Holes [][]int32
}

// RawMap is the topology of a map without payloads, indexed by position.
// Face 0 is the unbounded face.
type RawMap struct {
	Vertices  []geom.Point2
	Halfedges []RawHalfedge
	Faces     []RawFace
}

// Raw flattens m. The returned handle slices give, for each position in the
// RawMap, the element of m it came from. The dominant member of every pair
// comes first.
func (m *Pmwx) Raw() (RawMap, []VertexID, []HalfedgeID, []FaceID) {
	verts := m.Vertices()
	faces := m.Faces()
	hes := make([]HalfedgeID, 0, m.numHalfedges)
	for _, d := range m.DominantHalfedges() {
		hes = append(hes, d, d^1)
	}

	vIndex := make(map[VertexID]int32, len(verts))
	for i, v := range verts {
		vIndex[v] = int32(i)
	}
	hIndex := make(map[HalfedgeID]int32, len(hes))
	for i, h := range hes {
		hIndex[h] = int32(i)
	}

	raw := RawMap{
		Vertices:  make([]geom.Point2, len(verts)),
		Halfedges: make([]RawHalfedge, len(hes)),
		Faces:     make([]RawFace, len(faces)),
	}
	for i, v := range verts {
		raw.Vertices[i] = m.vertices[v].point
	}
	for i, h := range hes {
		raw.Halfedges[i] = RawHalfedge{Target: vIndex[m.halfedges[h].target], Dominant: m.halfedges[h].dominant}
	}
	cycle := func(start HalfedgeID) []int32 {
		var out []int32
		for _, h := range m.CCB(start) {
			out = append(out, hIndex[h])
		}
		return out
	}
	for i, f := range faces {
		if o := m.faces[f].outer; o != NoHalfedge {
			raw.Faces[i].Outer = cycle(o)
		}
		for _, hole := range m.faces[f].holes {
			raw.Faces[i].Holes = append(raw.Faces[i].Holes, cycle(hole))
		}
	}
	return raw, verts, hes, faces
}

// Load replaces the contents of m with raw. Payloads are reset to their
// defaults; the returned handle slices map RawMap positions to the new
// elements so callers can fill them in. An inconsistent RawMap leaves m empty
// and returns an *ErrInvalidMap.
func (m *Pmwx) Load(raw RawMap) ([]VertexID, []HalfedgeID, []FaceID, error) {
	m.Clear()
	fail := func(format string, args ...interface{}) ([]VertexID, []HalfedgeID, []FaceID, error) {
		m.Clear()
		return nil, nil, nil, &ErrInvalidMap{Reason: fmt.Sprintf(format, args...)}
	}

	if len(raw.Faces) == 0 {
		return fail("no faces")
	}
	if len(raw.Faces[0].Outer) != 0 {
		return fail("face 0 has an outer boundary")
	}
	if len(raw.Halfedges)%2 != 0 {
		return fail("odd half-edge count %d", len(raw.Halfedges))
	}

	verts := make([]VertexID, len(raw.Vertices))
	for i, p := range raw.Vertices {
		if _, dup := m.LocateVertex(p); dup {
			return fail("duplicate vertex at %v", p)
		}
		verts[i] = m.newVertex(p)
	}

	hes := make([]HalfedgeID, len(raw.Halfedges))
	for i := 0; i < len(raw.Halfedges); i += 2 {
		a, b := raw.Halfedges[i], raw.Halfedges[i+1]
		if a.Dominant == b.Dominant {
			return fail("half-edge pair %d needs exactly one dominant member", i)
		}
		for _, r := range [2]RawHalfedge{a, b} {
			if r.Target < 0 || int(r.Target) >= len(verts) {
				return fail("half-edge pair %d targets vertex %d of %d", i, r.Target, len(verts))
			}
		}
		h := m.newEdge()
		if !a.Dominant {
			m.halfedges[h].dominant = false
			m.halfedges[h^1].dominant = true
		}
		m.setTarget(h, verts[a.Target])
		m.setTarget(h^1, verts[b.Target])
		m.setVertexHalfedge(verts[a.Target], h)
		m.setVertexHalfedge(verts[b.Target], h^1)
		hes[i], hes[i+1] = h, h^1
	}

	faces := make([]FaceID, len(raw.Faces))
	seen := make([]bool, len(hes))
	link := func(f FaceID, cycle []int32) (HalfedgeID, error) {
		if len(cycle) == 0 {
			return NoHalfedge, fmt.Errorf("face %d has an empty cycle", f)
		}
		for j, idx := range cycle {
			if idx < 0 || int(idx) >= len(hes) {
				return NoHalfedge, fmt.Errorf("face %d cycle names half-edge %d of %d", f, idx, len(hes))
			}
			if seen[idx] {
				return NoHalfedge, fmt.Errorf("half-edge %d is on two cycles", idx)
			}
			seen[idx] = true
			h := hes[idx]
			m.setFace(h, f)
			m.setNext(h, hes[cycle[(j+1)%len(cycle)]])
		}
		return hes[cycle[0]], nil
	}
	for i, rf := range raw.Faces {
		f := Unbounded
		if i > 0 {
			f = m.newFace()
		}
		faces[i] = f
		if len(rf.Outer) > 0 {
			h, err := link(f, rf.Outer)
			if err != nil {
				return fail("%v", err)
			}
			m.faces[f].outer = h
		} else if i > 0 {
			return fail("bounded face %d has no outer boundary", i)
		}
		for _, hole := range rf.Holes {
			h, err := link(f, hole)
			if err != nil {
				return fail("%v", err)
			}
			m.addHole(f, h)
		}
		m.touchFace(f)
	}
	for i, ok := range seen {
		if !ok {
			return fail("half-edge %d is on no cycle", i)
		}
	}

	if err := m.Validate(); err != nil {
		return fail("%s", err.(*ErrInvalidMap).Reason)
	}
	m.flush()
	return verts, hes, faces, nil
}
