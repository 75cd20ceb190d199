package pmwx

import (
	"github.com/emirpasic/gods/trees/redblacktree"

	"github.com/beetlebugorg/xestopo/internal/geom"
	"github.com/beetlebugorg/xestopo/internal/quadtree"
)

// Coordinate types of the map, re-exported for callers outside this module.
type (
	Point2   = geom.Point2
	Bbox2    = geom.Bbox2
	Segment2 = geom.Segment2
)

// VertexID, HalfedgeID and FaceID are handles into the map's arenas. A handle
// stays valid until the element it names is deleted; the slot may then be
// reused.
type (
	VertexID   int32
	HalfedgeID int32
	FaceID     int32
)

const (
	NoVertex   VertexID   = -1
	NoHalfedge HalfedgeID = -1
	NoFace     FaceID     = -1
)

// Unbounded is the handle of the single unbounded face. It is never deleted.
const Unbounded FaceID = 0

// LocateType classifies the result of a point location or ray shot.
type LocateType int

const (
	LocateFace LocateType = iota
	LocateHalfedge
	LocateVertex
)

func (l LocateType) String() string {
	switch l {
	case LocateFace:
		return "face"
	case LocateHalfedge:
		return "halfedge"
	case LocateVertex:
		return "vertex"
	}
	return "unknown"
}

type vertex struct {
	point    geom.Point2
	halfedge HalfedgeID
	data     VertexData
	link     quadtree.Link[geom.Bbox2, VertexID]
	alive    bool
}

type halfedge struct {
	next     HalfedgeID
	target   VertexID
	face     FaceID
	dominant bool
	holeRep  bool
	data     EdgeData
	link     quadtree.Link[geom.Bbox2, HalfedgeID]
	alive    bool
}

type face struct {
	outer HalfedgeID
	holes []HalfedgeID
	data  FaceData
	link  quadtree.Link[geom.Bbox2, FaceID]
	alive bool
}

// Pmwx is a planar map stored as a doubly connected edge list.
//
// Half-edges are allocated in pairs so the twin of h is always h^1. Vertices
// are also kept in an ordered map keyed y-then-x for exact point lookup. A Pmwx
// is not safe for concurrent use.
type Pmwx struct {
	opts Options

	vertices  []vertex
	halfedges []halfedge
	faces     []face

	freeVertices  []VertexID
	freeEdges     []HalfedgeID
	freeFaces     []FaceID
	numVertices   int
	numHalfedges  int
	numFaces      int
	vertexByPoint *redblacktree.Tree

	indexed    bool
	faceTree   *quadtree.QuadTree[geom.Bbox2, FaceID]
	edgeTree   *quadtree.QuadTree[geom.Bbox2, HalfedgeID]
	vertexTree *quadtree.QuadTree[geom.Bbox2, VertexID]
	dirtyV     map[VertexID]struct{}
	dirtyH     map[HalfedgeID]struct{}
	dirtyF     map[FaceID]struct{}
}

// New returns an empty map holding only the unbounded face.
func New(opts Options) *Pmwx {
	m := &Pmwx{
		opts: opts,
		vertexByPoint: redblacktree.NewWith(func(a, b interface{}) int {
			return geom.CompareYX(a.(geom.Point2), b.(geom.Point2))
		}),
	}
	m.Clear()
	return m
}

// Clear removes every vertex, half-edge and bounded face. The unbounded face is
// reset to water with no holes.
func (m *Pmwx) Clear() {
	m.dropIndex()
	m.vertices = m.vertices[:0]
	m.halfedges = m.halfedges[:0]
	m.faces = m.faces[:0]
	m.freeVertices = m.freeVertices[:0]
	m.freeEdges = m.freeEdges[:0]
	m.freeFaces = m.freeFaces[:0]
	m.numVertices, m.numHalfedges, m.numFaces = 0, 0, 0
	m.vertexByPoint.Clear()

	f := m.newFace()
	m.faces[f].data.TerrainType = TerrainWater
}

// Options returns the options the map was created with.
func (m *Pmwx) Options() Options { return m.opts }

// Empty reports whether the map has no edges.
func (m *Pmwx) Empty() bool { return m.numHalfedges == 0 }

func (m *Pmwx) NumVertices() int  { return m.numVertices }
func (m *Pmwx) NumHalfedges() int { return m.numHalfedges }
func (m *Pmwx) NumFaces() int     { return m.numFaces }

// Vertices returns every live vertex in arena order.
func (m *Pmwx) Vertices() []VertexID {
	out := make([]VertexID, 0, m.numVertices)
	for i := range m.vertices {
		if m.vertices[i].alive {
			out = append(out, VertexID(i))
		}
	}
	return out
}

// Halfedges returns every live half-edge in arena order. Twins are adjacent.
func (m *Pmwx) Halfedges() []HalfedgeID {
	out := make([]HalfedgeID, 0, m.numHalfedges)
	for i := range m.halfedges {
		if m.halfedges[i].alive {
			out = append(out, HalfedgeID(i))
		}
	}
	return out
}

// DominantHalfedges returns the dominant member of every edge in arena order.
func (m *Pmwx) DominantHalfedges() []HalfedgeID {
	out := make([]HalfedgeID, 0, m.numHalfedges/2)
	for i := range m.halfedges {
		if m.halfedges[i].alive && m.halfedges[i].dominant {
			out = append(out, HalfedgeID(i))
		}
	}
	return out
}

// Faces returns every live face in arena order, the unbounded face first.
func (m *Pmwx) Faces() []FaceID {
	out := make([]FaceID, 0, m.numFaces)
	for i := range m.faces {
		if m.faces[i].alive {
			out = append(out, FaceID(i))
		}
	}
	return out
}

// VertexAlive reports whether v names a live vertex.
func (m *Pmwx) VertexAlive(v VertexID) bool {
	return v >= 0 && int(v) < len(m.vertices) && m.vertices[v].alive
}

// HalfedgeAlive reports whether h names a live half-edge.
func (m *Pmwx) HalfedgeAlive(h HalfedgeID) bool {
	return h >= 0 && int(h) < len(m.halfedges) && m.halfedges[h].alive
}

// FaceAlive reports whether f names a live face.
func (m *Pmwx) FaceAlive(f FaceID) bool {
	return f >= 0 && int(f) < len(m.faces) && m.faces[f].alive
}

// Vertex accessors.

func (m *Pmwx) Point(v VertexID) geom.Point2               { return m.vertices[v].point }
func (m *Pmwx) VertexHalfedge(v VertexID) HalfedgeID       { return m.vertices[v].halfedge }
func (m *Pmwx) VertexData(v VertexID) *VertexData          { return &m.vertices[v].data }
func (m *Pmwx) setVertexHalfedge(v VertexID, h HalfedgeID) { m.vertices[v].halfedge = h }

// Half-edge accessors.

func (m *Pmwx) Twin(h HalfedgeID) HalfedgeID    { return h ^ 1 }
func (m *Pmwx) Next(h HalfedgeID) HalfedgeID    { return m.halfedges[h].next }
func (m *Pmwx) Target(h HalfedgeID) VertexID    { return m.halfedges[h].target }
func (m *Pmwx) Source(h HalfedgeID) VertexID    { return m.halfedges[h^1].target }
func (m *Pmwx) Face(h HalfedgeID) FaceID        { return m.halfedges[h].face }
func (m *Pmwx) IsDominant(h HalfedgeID) bool    { return m.halfedges[h].dominant }
func (m *Pmwx) EdgeData(h HalfedgeID) *EdgeData { return &m.halfedges[h].data }

// Dominant returns whichever member of h's pair is dominant.
func (m *Pmwx) Dominant(h HalfedgeID) HalfedgeID {
	if m.halfedges[h].dominant {
		return h
	}
	return h ^ 1
}

// TargetPoint and SourcePoint return the end locations of h.
func (m *Pmwx) TargetPoint(h HalfedgeID) geom.Point2 { return m.vertices[m.halfedges[h].target].point }
func (m *Pmwx) SourcePoint(h HalfedgeID) geom.Point2 { return m.vertices[m.halfedges[h^1].target].point }

// Segment returns the directed segment from h's source to its target.
func (m *Pmwx) Segment(h HalfedgeID) geom.Segment2 {
	return geom.Segment2{P1: m.SourcePoint(h), P2: m.TargetPoint(h)}
}

func (m *Pmwx) setNext(h, n HalfedgeID)            { m.halfedges[h].next = n }
func (m *Pmwx) setTarget(h HalfedgeID, v VertexID) { m.halfedges[h].target = v }
func (m *Pmwx) setFace(h HalfedgeID, f FaceID)     { m.halfedges[h].face = f }

// Face accessors.

func (m *Pmwx) OuterCCB(f FaceID) HalfedgeID { return m.faces[f].outer }
func (m *Pmwx) IsUnbounded(f FaceID) bool    { return m.faces[f].outer == NoHalfedge }
func (m *Pmwx) FaceData(f FaceID) *FaceData  { return &m.faces[f].data }

// Holes returns the hole representatives of f. The slice is owned by the map.
func (m *Pmwx) Holes(f FaceID) []HalfedgeID { return m.faces[f].holes }

// IsHoleCCB reports whether h is the representative of one of its face's holes.
func (m *Pmwx) IsHoleCCB(h HalfedgeID) bool { return m.halfedges[h].holeRep }

func (m *Pmwx) setOuterCCB(f FaceID, h HalfedgeID) {
	m.faces[f].outer = h
	m.touchFace(f)
}

func (m *Pmwx) addHole(f FaceID, h HalfedgeID) {
	m.faces[f].holes = append(m.faces[f].holes, h)
	m.halfedges[h].holeRep = true
}

func (m *Pmwx) deleteHole(f FaceID, h HalfedgeID) {
	holes := m.faces[f].holes
	for i := range holes {
		if holes[i] == h {
			m.faces[f].holes = append(holes[:i], holes[i+1:]...)
			break
		}
	}
	m.halfedges[h].holeRep = false
}

// LocateVertex returns the vertex exactly at p.
func (m *Pmwx) LocateVertex(p geom.Point2) (VertexID, bool) {
	v, ok := m.vertexByPoint.Get(p)
	if !ok {
		return NoVertex, false
	}
	return v.(VertexID), true
}

// Allocation. New elements are created unlinked; callers wire them up.

func (m *Pmwx) newVertex(p geom.Point2) VertexID {
	var v VertexID
	if n := len(m.freeVertices); n > 0 {
		v = m.freeVertices[n-1]
		m.freeVertices = m.freeVertices[:n-1]
	} else {
		m.vertices = append(m.vertices, vertex{})
		v = VertexID(len(m.vertices) - 1)
	}
	m.vertices[v] = vertex{point: p, halfedge: NoHalfedge, alive: true}
	m.numVertices++
	m.vertexByPoint.Put(p, v)
	m.touchVertex(v)
	return v
}

// newEdge allocates a twin pair and returns the dominant member.
func (m *Pmwx) newEdge() HalfedgeID {
	var h HalfedgeID
	if n := len(m.freeEdges); n > 0 {
		h = m.freeEdges[n-1]
		m.freeEdges = m.freeEdges[:n-1]
	} else {
		m.halfedges = append(m.halfedges, halfedge{}, halfedge{})
		h = HalfedgeID(len(m.halfedges) - 2)
	}
	blank := halfedge{next: NoHalfedge, target: NoVertex, face: NoFace, alive: true}
	m.halfedges[h] = blank
	m.halfedges[h^1] = blank
	m.halfedges[h].dominant = true
	m.numHalfedges += 2
	m.touchHalfedge(h)
	m.touchHalfedge(h ^ 1)
	return h
}

// newEdgeLike allocates a pair copying the payload and dominance of rhs and
// its twin. The returned half-edge corresponds to rhs.
func (m *Pmwx) newEdgeLike(rhs HalfedgeID) HalfedgeID {
	h := m.newEdge()
	m.halfedges[h].dominant = m.halfedges[rhs].dominant
	m.halfedges[h].data = m.halfedges[rhs].data.clone()
	m.halfedges[h^1].dominant = m.halfedges[rhs^1].dominant
	m.halfedges[h^1].data = m.halfedges[rhs^1].data.clone()
	return h
}

func (m *Pmwx) newFace() FaceID {
	var f FaceID
	if n := len(m.freeFaces); n > 0 {
		f = m.freeFaces[n-1]
		m.freeFaces = m.freeFaces[:n-1]
	} else {
		m.faces = append(m.faces, face{})
		f = FaceID(len(m.faces) - 1)
	}
	m.faces[f] = face{outer: NoHalfedge, data: NewFaceData(), alive: true}
	m.numFaces++
	return f
}

func (m *Pmwx) newFaceLike(rhs FaceID) FaceID {
	f := m.newFace()
	m.faces[f].data = m.faces[rhs].data.clone()
	return f
}

func (m *Pmwx) deleteVertex(v VertexID) {
	m.unindexVertex(v)
	m.vertexByPoint.Remove(m.vertices[v].point)
	m.vertices[v] = vertex{halfedge: NoHalfedge}
	m.freeVertices = append(m.freeVertices, v)
	m.numVertices--
}

func (m *Pmwx) deleteEdge(h HalfedgeID) {
	m.unindexHalfedge(h)
	m.unindexHalfedge(h ^ 1)
	base := h &^ 1
	m.halfedges[base] = halfedge{next: NoHalfedge, target: NoVertex, face: NoFace}
	m.halfedges[base+1] = halfedge{next: NoHalfedge, target: NoVertex, face: NoFace}
	m.freeEdges = append(m.freeEdges, base)
	m.numHalfedges -= 2
}

func (m *Pmwx) deleteFace(f FaceID) {
	m.unindexFace(f)
	m.faces[f] = face{outer: NoHalfedge}
	m.freeFaces = append(m.freeFaces, f)
	m.numFaces--
}
