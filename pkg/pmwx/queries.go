package pmwx

import (
	"slices"

	"github.com/beetlebugorg/xestopo/internal/geom"
	"github.com/beetlebugorg/xestopo/internal/quadtree"
)

// Spatial queries. They all read the quad-trees built by Index and return
// nothing on a map that was never indexed. Results are sorted by handle.

// FindFaceTouchesPt returns the bounded faces containing p. A point exactly
// on a boundary may be reported for either side.
func (m *Pmwx) FindFaceTouchesPt(p geom.Point2) []FaceID {
	if !m.indexed {
		return nil
	}
	var out []FaceID
	m.faceTree.Each(quadtree.TouchesPoint(p), func(f FaceID) {
		if m.faces[f].link.Cull().Contains(p) && m.faceContains(f, p) {
			out = append(out, f)
		}
	})
	slices.Sort(out)
	return out
}

// FindFaceTouchesRect returns the bounded faces sharing any point with rect.
func (m *Pmwx) FindFaceTouchesRect(rect geom.Bbox2) []FaceID {
	if !m.indexed {
		return nil
	}
	var out []FaceID
	m.faceTree.Each(quadtree.Touches(rect), func(f FaceID) {
		if m.faceTouchesRect(f, rect) {
			out = append(out, f)
		}
	})
	slices.Sort(out)
	return out
}

// FindFaceTouchesRectFast is FindFaceTouchesRect testing bounding boxes only.
// It may return faces that do not actually reach rect.
func (m *Pmwx) FindFaceTouchesRectFast(rect geom.Bbox2) []FaceID {
	if !m.indexed {
		return nil
	}
	var out []FaceID
	m.faceTree.Each(quadtree.Touches(rect), func(f FaceID) {
		if m.faces[f].link.Cull().Overlaps(rect) {
			out = append(out, f)
		}
	})
	slices.Sort(out)
	return out
}

// FindFaceFullyInRect returns the bounded faces whose outer boundary lies
// inside rect.
func (m *Pmwx) FindFaceFullyInRect(rect geom.Bbox2) []FaceID {
	if !m.indexed {
		return nil
	}
	var out []FaceID
	m.faceTree.Each(quadtree.Touches(rect), func(f FaceID) {
		if rect.ContainsBox(m.faces[f].link.Cull()) {
			out = append(out, f)
		}
	})
	slices.Sort(out)
	return out
}

// FindHalfedgeTouchesPt returns the dominant half-edges passing through p.
func (m *Pmwx) FindHalfedgeTouchesPt(p geom.Point2) []HalfedgeID {
	if !m.indexed {
		return nil
	}
	var out []HalfedgeID
	m.edgeTree.Each(quadtree.TouchesPoint(p), func(h HalfedgeID) {
		s := m.Segment(h)
		if s.OnLine(p) && s.CollinearHasOn(p) {
			out = append(out, h)
		}
	})
	slices.Sort(out)
	return out
}

// FindHalfedgeTouchesRect returns the dominant half-edges with any point in
// rect.
func (m *Pmwx) FindHalfedgeTouchesRect(rect geom.Bbox2) []HalfedgeID {
	if !m.indexed {
		return nil
	}
	var out []HalfedgeID
	m.edgeTree.Each(quadtree.Touches(rect), func(h HalfedgeID) {
		if m.Segment(h).TouchesBox(rect) {
			out = append(out, h)
		}
	})
	slices.Sort(out)
	return out
}

// FindHalfedgeTouchesRectFast is FindHalfedgeTouchesRect testing bounding
// boxes only.
func (m *Pmwx) FindHalfedgeTouchesRectFast(rect geom.Bbox2) []HalfedgeID {
	if !m.indexed {
		return nil
	}
	var out []HalfedgeID
	m.edgeTree.Each(quadtree.Touches(rect), func(h HalfedgeID) {
		if m.Segment(h).Bounds().Overlaps(rect) {
			out = append(out, h)
		}
	})
	slices.Sort(out)
	return out
}

// FindHalfedgeFullyInRect returns the dominant half-edges lying inside rect.
func (m *Pmwx) FindHalfedgeFullyInRect(rect geom.Bbox2) []HalfedgeID {
	if !m.indexed {
		return nil
	}
	var out []HalfedgeID
	m.edgeTree.Each(quadtree.Touches(rect), func(h HalfedgeID) {
		if rect.ContainsBox(m.Segment(h).Bounds()) {
			out = append(out, h)
		}
	})
	slices.Sort(out)
	return out
}

// FindVerticesTouchesPt returns the vertex at p, if any.
func (m *Pmwx) FindVerticesTouchesPt(p geom.Point2) []VertexID {
	if !m.indexed {
		return nil
	}
	var out []VertexID
	m.vertexTree.Each(quadtree.TouchesPoint(p), func(v VertexID) {
		if m.vertices[v].point == p {
			out = append(out, v)
		}
	})
	slices.Sort(out)
	return out
}

// FindVerticesTouchesRect returns the vertices inside rect, edges included.
func (m *Pmwx) FindVerticesTouchesRect(rect geom.Bbox2) []VertexID {
	if !m.indexed {
		return nil
	}
	var out []VertexID
	m.vertexTree.Each(quadtree.Touches(rect), func(v VertexID) {
		if rect.Contains(m.vertices[v].point) {
			out = append(out, v)
		}
	})
	slices.Sort(out)
	return out
}

// FindVerticesFullyInRect returns the vertices inside rect. A vertex has no
// extent, so this matches FindVerticesTouchesRect.
func (m *Pmwx) FindVerticesFullyInRect(rect geom.Bbox2) []VertexID {
	return m.FindVerticesTouchesRect(rect)
}

// faceContains reports whether p lies in f's outer ring and outside its holes.
func (m *Pmwx) faceContains(f FaceID, p geom.Point2) bool {
	if m.faces[f].outer == NoHalfedge {
		return false
	}
	if !ccbContains(m.ringPoints(m.faces[f].outer), p) {
		return false
	}
	for _, h := range m.faces[f].holes {
		if ccbContains(m.ringPoints(h), p) {
			return false
		}
	}
	return true
}

func (m *Pmwx) faceTouchesRect(f FaceID, rect geom.Bbox2) bool {
	box := m.faces[f].link.Cull()
	if !box.Overlaps(rect) {
		return false
	}
	if rect.ContainsBox(box) {
		return true
	}
	rings := append([]HalfedgeID{m.faces[f].outer}, m.faces[f].holes...)
	for _, r := range rings {
		for it := r; ; {
			if m.Segment(it).TouchesBox(rect) {
				return true
			}
			it = m.halfedges[it].next
			if it == r {
				break
			}
		}
	}
	// No boundary crosses rect, so rect is either wholly inside f or wholly
	// outside it.
	return m.faceContains(f, rect.Min())
}
