package pmwx

import (
	"github.com/plan-systems/klog"

	"github.com/beetlebugorg/xestopo/internal/geom"
	"github.com/beetlebugorg/xestopo/internal/quadtree"
)

// Index builds the face, half-edge and vertex quad-trees over the current
// map. Bounded faces are culled by their outer boundary, edges by their
// dominant half-edge's segment, vertices by their point. After Index every
// edit keeps the trees current.
func (m *Pmwx) Index() {
	m.dropIndex()

	extent := geom.EmptyBox()
	for i := range m.vertices {
		if m.vertices[i].alive {
			extent = extent.Add(m.vertices[i].point)
		}
	}
	if extent.IsEmpty() {
		extent = geom.BoxOf(geom.Point2{})
	}
	lo, hi := extent.Min(), extent.Max()
	dx, dy := extent.Width()*m.opts.IndexMargin, extent.Height()*m.opts.IndexMargin
	extent = geom.NewBbox2(lo.X-dx, lo.Y-dy, hi.X+dx, hi.Y+dy)

	qopts := quadtree.Options{MaxNodes: m.opts.MaxIndexNodes}
	m.faceTree = quadtree.NewBoxTree(extent,
		func(f FaceID) geom.Bbox2 { return m.ringBounds(m.faces[f].outer) },
		func(f FaceID) *quadtree.Link[geom.Bbox2, FaceID] { return &m.faces[f].link },
		qopts)
	m.edgeTree = quadtree.NewBoxTree(extent,
		func(h HalfedgeID) geom.Bbox2 { return m.Segment(h).Bounds() },
		func(h HalfedgeID) *quadtree.Link[geom.Bbox2, HalfedgeID] { return &m.halfedges[h].link },
		qopts)
	m.vertexTree = quadtree.NewBoxTree(extent,
		func(v VertexID) geom.Bbox2 { return geom.BoxOf(m.vertices[v].point) },
		func(v VertexID) *quadtree.Link[geom.Bbox2, VertexID] { return &m.vertices[v].link },
		qopts)

	m.indexed = true
	m.dirtyV = make(map[VertexID]struct{})
	m.dirtyH = make(map[HalfedgeID]struct{})
	m.dirtyF = make(map[FaceID]struct{})

	for _, f := range m.Faces() {
		m.fileFace(f)
	}
	for _, h := range m.DominantHalfedges() {
		m.fileHalfedge(h)
	}
	for _, v := range m.Vertices() {
		m.fileVertex(v)
	}
	indexedMaps.Inc()
}

// Indexed reports whether Index has been called since the last Clear.
func (m *Pmwx) Indexed() bool { return m.indexed }

func (m *Pmwx) dropIndex() {
	if m.faceTree != nil {
		m.faceTree.RemoveAll()
		m.edgeTree.RemoveAll()
		m.vertexTree.RemoveAll()
	}
	m.faceTree, m.edgeTree, m.vertexTree = nil, nil, nil
	m.indexed = false
	m.dirtyV, m.dirtyH, m.dirtyF = nil, nil, nil
}

func (m *Pmwx) fileFace(f FaceID) {
	if m.faces[f].outer == NoHalfedge {
		return
	}
	if err := m.faceTree.Insert(f, m.opts.IndexDepth); err != nil {
		klog.Errorf("pmwx: indexing face %d: %v", f, err)
	}
}

func (m *Pmwx) fileHalfedge(h HalfedgeID) {
	if !m.halfedges[h].dominant {
		return
	}
	if err := m.edgeTree.Insert(h, m.opts.IndexDepth); err != nil {
		klog.Errorf("pmwx: indexing half-edge %d: %v", h, err)
	}
}

func (m *Pmwx) fileVertex(v VertexID) {
	if err := m.vertexTree.Insert(v, m.opts.IndexDepth); err != nil {
		klog.Errorf("pmwx: indexing vertex %d: %v", v, err)
	}
}

func (m *Pmwx) touchVertex(v VertexID) {
	if m.indexed {
		m.dirtyV[v] = struct{}{}
	}
}

func (m *Pmwx) touchHalfedge(h HalfedgeID) {
	if m.indexed {
		m.dirtyH[h] = struct{}{}
	}
}

func (m *Pmwx) touchFace(f FaceID) {
	if m.indexed && f != NoFace {
		m.dirtyF[f] = struct{}{}
	}
}

func (m *Pmwx) unindexVertex(v VertexID) {
	if m.indexed {
		m.vertexTree.Remove(v)
		delete(m.dirtyV, v)
	}
}

func (m *Pmwx) unindexHalfedge(h HalfedgeID) {
	if m.indexed {
		m.edgeTree.Remove(h)
		delete(m.dirtyH, h)
	}
}

func (m *Pmwx) unindexFace(f FaceID) {
	if m.indexed {
		m.faceTree.Remove(f)
		delete(m.dirtyF, f)
	}
}

// flush re-files every element touched since the last flush.
func (m *Pmwx) flush() {
	if !m.indexed {
		return
	}
	for v := range m.dirtyV {
		m.vertexTree.Remove(v)
		if m.vertices[v].alive {
			m.fileVertex(v)
		}
	}
	for h := range m.dirtyH {
		m.edgeTree.Remove(h)
		if m.halfedges[h].alive {
			m.fileHalfedge(h)
		}
	}
	for f := range m.dirtyF {
		m.faceTree.Remove(f)
		if m.faces[f].alive {
			m.fileFace(f)
		}
	}
	clear(m.dirtyV)
	clear(m.dirtyH)
	clear(m.dirtyF)
}
