package pmwx

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/beetlebugorg/xestopo/internal/geom"
)

func pt(x, y float64) geom.Point2 { return geom.Point2{X: x, Y: y} }

// addCounter returns a notifier counting brand new edges and remembering the
// last one.
func addCounter(added *int, last *HalfedgeID) Notifier {
	return func(old, h HalfedgeID) {
		if h != NoHalfedge && old == NoHalfedge {
			*added++
			*last = h
		}
	}
}

func mustValidate(t *testing.T, m *Pmwx) {
	t.Helper()
	require.NoError(t, m.Validate())
	require.NoError(t, m.ValidateGeometry())
}

func checkCounts(t *testing.T, m *Pmwx, v, h, f int) {
	t.Helper()
	require.Equal(t, [3]int{v, h, f}, [3]int{m.NumVertices(), m.NumHalfedges(), m.NumFaces()},
		"vertex, half-edge and face counts")
}

// newGrid builds n+1 horizontal and n+1 vertical lines spanning 0..n, giving
// n*n unit cells.
func newGrid(n int) *Pmwx {
	m := New(DefaultOptions())
	fn := float64(n)
	for i := 0; i <= n; i++ {
		m.InsertEdge(pt(0, float64(i)), pt(fn, float64(i)), nil)
	}
	for i := 0; i <= n; i++ {
		m.InsertEdge(pt(float64(i), 0), pt(float64(i), fn), nil)
	}
	return m
}

func TestEmptyMap(t *testing.T) {
	m := New(DefaultOptions())

	require.True(t, m.Empty())
	require.True(t, m.IsUnbounded(Unbounded))
	require.True(t, m.IsWater(Unbounded), "unbounded face should be water")
	checkCounts(t, m, 0, 0, 1)
	mustValidate(t, m)

	h, loc := m.LocatePoint(pt(0, 0))
	require.Equal(t, NoHalfedge, h)
	require.Equal(t, LocateFace, loc)

	require.Equal(t, NoHalfedge, m.InsertEdge(pt(3, 3), pt(3, 3), nil), "zero-length insert")
	checkCounts(t, m, 0, 0, 1)
}

// TestInsertLocateRayShoot walks a small map through insertion, location,
// ray shooting and splitting, checking topology at every step.
func TestInsertLocateRayShoot(t *testing.T) {
	m := New(DefaultOptions())
	added := 0
	var last HalfedgeID
	notify := addCounter(&added, &last)

	m.InsertEdge(pt(0, 0), pt(10, 0), notify)
	require.Equal(t, 1, added)
	one := last
	require.Equal(t, pt(0, 0), m.SourcePoint(one))
	require.Equal(t, pt(10, 0), m.TargetPoint(one))
	require.Equal(t, Unbounded, m.Face(one))
	require.Equal(t, m.Twin(one), m.Next(one), "isolated edge: twin should be next")
	checkCounts(t, m, 2, 2, 1)
	mustValidate(t, m)

	locates := []struct {
		p       geom.Point2
		want    []HalfedgeID
		wantLoc LocateType
	}{
		{pt(0, 0), []HalfedgeID{one ^ 1}, LocateVertex},
		{pt(10, 0), []HalfedgeID{one}, LocateVertex},
		{pt(5, 0), []HalfedgeID{one, one ^ 1}, LocateHalfedge},
	}
	for _, tt := range locates {
		h, loc := m.LocatePoint(tt.p)
		require.Equal(t, tt.wantLoc, loc, "LocatePoint(%v)", tt.p)
		require.Contains(t, tt.want, h, "LocatePoint(%v)", tt.p)
	}
	h, loc := m.LocatePoint(pt(5, -2))
	require.Equal(t, LocateFace, loc)
	require.Equal(t, Unbounded, m.Face(h))

	shots := []struct {
		from, to geom.Point2
		wantH    HalfedgeID
		wantPt   geom.Point2
		wantLoc  LocateType
	}{
		{pt(5, -2), pt(5, 2), one, pt(5, 0), LocateHalfedge},
		{pt(0, -2), pt(0, 2), one ^ 1, pt(0, 0), LocateVertex},
		{pt(10, -2), pt(10, 2), one, pt(10, 0), LocateVertex},
		{pt(-10, -2), pt(-10, 2), NoHalfedge, pt(-10, 2), LocateFace},
		{pt(-10, -2), pt(10, -2), NoHalfedge, pt(10, -2), LocateFace},
		{pt(-15, 0), pt(15, 0), one ^ 1, pt(0, 0), LocateVertex},
		{pt(15, 0), pt(-15, 0), one, pt(10, 0), LocateVertex},
		{pt(15, 0), pt(0, 0), one, pt(10, 0), LocateVertex},
		{pt(15, 0), pt(5, 0), one, pt(10, 0), LocateVertex},
	}
	for _, tt := range shots {
		h, p, loc := m.RayShoot(tt.from, LocateFace, NoHalfedge, tt.to)
		require.Equal(t, tt.wantLoc, loc, "RayShoot(%v -> %v)", tt.from, tt.to)
		require.Equal(t, tt.wantPt, p, "RayShoot(%v -> %v)", tt.from, tt.to)
		if tt.wantH != NoHalfedge {
			require.Equal(t, tt.wantH, h, "RayShoot(%v -> %v) half-edge", tt.from, tt.to)
		}
	}

	m.InsertEdge(pt(10, 0), pt(10, 10), notify)
	two := last
	require.Equal(t, 2, added)
	require.Equal(t, pt(10, 0), m.SourcePoint(two))
	require.Equal(t, pt(10, 10), m.TargetPoint(two))
	require.Equal(t, two, m.Next(one), "antenna links after second insert")
	require.Equal(t, two^1, m.Next(two))
	require.Equal(t, one^1, m.Next(two^1))
	require.Equal(t, one, m.Next(one^1))
	checkCounts(t, m, 3, 4, 1)
	mustValidate(t, m)

	m.InsertEdge(pt(10, 10), pt(-10, 10), notify)
	three := last
	require.Equal(t, three, m.Next(two), "antenna links after third insert")
	require.Equal(t, three^1, m.Next(three))
	require.Equal(t, two^1, m.Next(three^1))
	require.Equal(t, two, m.Next(one), "third insert disturbed existing links")
	require.Equal(t, one^1, m.Next(two^1))
	checkCounts(t, m, 4, 6, 1)
	mustValidate(t, m)

	h, loc = m.LocatePoint(pt(0, 15))
	require.Equal(t, LocateFace, loc)
	if h != NoHalfedge {
		require.Equal(t, Unbounded, m.Face(h))
	}
	_, p, loc := m.RayShoot(pt(0, 15), loc, h, pt(0, -5))
	require.Equal(t, LocateHalfedge, loc)
	require.Equal(t, pt(0, 10), p)

	m.SplitEdge(one, pt(5, 0))
	checkCounts(t, m, 5, 8, 1)
	mustValidate(t, m)
	require.Equal(t, pt(0, 0), m.SourcePoint(one))
	require.Equal(t, pt(5, 0), m.TargetPoint(one))
	n := m.Next(one)
	require.Equal(t, one^1, m.Next(n^1), "new twin should lead back into one's twin")
	require.Equal(t, m.Target(one), m.Target(n^1), "new twin should end at the split vertex")
	require.Equal(t, pt(5, 0), m.SourcePoint(n))
	require.Equal(t, pt(10, 0), m.TargetPoint(n))
	require.Equal(t, pt(10, 0), m.TargetPoint(m.Next(n)^1))

	m.InsertEdge(pt(0, 15), pt(0, -5), notify)
	require.Equal(t, 6, added)
	checkCounts(t, m, 8, 16, 2)
	mustValidate(t, m)
	four := last
	require.Equal(t, pt(0, 0), m.SourcePoint(four))
	require.Equal(t, pt(0, -5), m.TargetPoint(four))

	inside := m.FaceAt(pt(5, 5))
	require.NotEqual(t, Unbounded, inside, "(5,5) should be inside a bounded face")
	require.Equal(t, Unbounded, m.FaceAt(pt(-5, 5)))
	require.True(t, m.IsWater(inside), "a face split off the unbounded face should copy its water payload")
}

// TestCollinearInsertStopsAtNearestVertex inserts along a line that already
// holds an edge sharing the new segment's far end. The insert has to stop at
// the near end of the existing edge and reuse it from there.
func TestCollinearInsertStopsAtNearestVertex(t *testing.T) {
	m := New(DefaultOptions())
	m.InsertEdge(pt(0, 2), pt(2, 2), nil)

	added, reused := 0, 0
	h := m.InsertEdge(pt(5, 2), pt(0, 2), func(old, h HalfedgeID) {
		switch {
		case old == NoHalfedge:
			added++
		case h == NoHalfedge:
			reused++
		}
	})
	require.Equal(t, 1, added)
	require.Equal(t, 1, reused)
	require.Equal(t, pt(0, 2), m.TargetPoint(h))
	checkCounts(t, m, 3, 4, 1)
	mustValidate(t, m)

	m.InsertEdge(pt(3, 2), pt(2, 2), nil)
	checkCounts(t, m, 4, 6, 1)
	mustValidate(t, m)
	for _, x := range []float64{0, 2, 3, 5} {
		_, ok := m.LocateVertex(pt(x, 2))
		require.True(t, ok, "vertex at x=%v", x)
	}
}

// TestReinsertFollowsRoundedPieces crosses a diagonal with two verticals so
// its split points are rounded, then inserts the diagonal again in both
// directions. The pieces must be reused, not duplicated.
func TestReinsertFollowsRoundedPieces(t *testing.T) {
	m := New(DefaultOptions())
	m.InsertEdge(pt(0, 0), pt(3, 1), nil)
	m.InsertEdge(pt(1, -1), pt(1, 2), nil)
	m.InsertEdge(pt(2, -1), pt(2, 2), nil)
	checkCounts(t, m, 8, 14, 1)
	mustValidate(t, m)

	for _, seg := range []geom.Segment2{
		{P1: pt(0, 0), P2: pt(3, 1)},
		{P1: pt(3, 1), P2: pt(0, 0)},
	} {
		added, reused := 0, 0
		h := m.InsertEdge(seg.P1, seg.P2, func(old, h HalfedgeID) {
			switch {
			case old == NoHalfedge:
				added++
			case h == NoHalfedge:
				reused++
			}
		})
		require.Zero(t, added, "re-insert %v added edges", seg)
		require.Equal(t, 3, reused, "re-insert %v", seg)
		require.Equal(t, seg.P2, m.TargetPoint(h))
		checkCounts(t, m, 8, 14, 1)
		mustValidate(t, m)
	}
}

func TestInsertSequencesStayPlanar(t *testing.T) {
	tests := []struct {
		name    string
		inserts [][4]float64
		v, h, f int
	}{
		{
			name:    "collinear onto shared far end",
			inserts: [][4]float64{{0, 2, 2, 2}, {5, 2, 0, 2}, {3, 2, 2, 2}},
			v:       4, h: 6, f: 1,
		},
		{
			name:    "partial overlap",
			inserts: [][4]float64{{0, 0, 4, 0}, {2, 0, 6, 0}},
			v:       4, h: 6, f: 1,
		},
		{
			name:    "ends inside a collinear edge",
			inserts: [][4]float64{{0, 0, 4, 0}, {6, 0, 1, 0}},
			v:       4, h: 6, f: 1,
		},
		{
			name:    "contained in an edge",
			inserts: [][4]float64{{0, 0, 4, 0}, {1, 0, 3, 0}},
			v:       4, h: 6, f: 1,
		},
		{
			name:    "covers an edge",
			inserts: [][4]float64{{1, 0, 3, 0}, {0, 0, 4, 0}},
			v:       4, h: 6, f: 1,
		},
		{
			name: "rounded crossings re-inserted",
			inserts: [][4]float64{
				{0, 0, 3, 1}, {1, -1, 1, 2}, {2, -1, 2, 2}, {0, 0, 3, 1}, {3, 1, 0, 0},
			},
			v: 8, h: 14, f: 1,
		},
		{
			name: "square split by a chord",
			inserts: [][4]float64{
				{0, 0, 4, 0}, {4, 0, 4, 4}, {4, 4, 0, 4}, {0, 4, 0, 0}, {2, 0, 2, 4}, {2, 4, 2, 0},
			},
			v: 6, h: 14, f: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(DefaultOptions())
			for _, s := range tt.inserts {
				m.InsertEdge(pt(s[0], s[1]), pt(s[2], s[3]), nil)
				mustValidate(t, m)
			}
			checkCounts(t, m, tt.v, tt.h, tt.f)
		})
	}
}

// TestRandomGridInserts throws random axis-aligned segments on an integer
// grid, where every crossing is exact, and checks the map after each one.
func TestRandomGridInserts(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	m := New(DefaultOptions())
	for i := 0; i < 60; i++ {
		x, y := float64(rnd.Intn(9)), float64(rnd.Intn(9))
		l := float64(1 + rnd.Intn(6))
		if rnd.Intn(2) == 0 {
			l = -l
		}
		p1, p2 := pt(x, y), pt(x+l, y)
		if rnd.Intn(2) == 0 {
			p2 = pt(x, y+l)
		}
		m.InsertEdge(p1, p2, nil)
		require.NoError(t, m.Validate(), "after insert %d %v-%v", i, p1, p2)
		require.NoError(t, m.ValidateGeometry(), "after insert %d %v-%v", i, p1, p2)
		for _, p := range []geom.Point2{p1, p2} {
			_, loc := m.LocatePoint(p)
			require.Equal(t, LocateVertex, loc, "endpoint %v of insert %d", p, i)
		}
	}

	m.Index()
	require.NoError(t, m.ValidateGeometry(), "indexed")
}

func TestValidateGeometryReportsCrossing(t *testing.T) {
	m := New(DefaultOptions())
	m.InsertRing(Unbounded, []geom.Point2{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)})
	mustValidate(t, m)

	v, ok := m.LocateVertex(pt(10, 10))
	require.True(t, ok)
	m.SetVertexLocation(v, pt(-5, 5))
	require.NoError(t, m.Validate(), "combinatorics are untouched")

	var invalid *ErrInvalidMap
	require.ErrorAs(t, m.ValidateGeometry(), &invalid)
	m.Index()
	require.ErrorAs(t, m.ValidateGeometry(), &invalid, "indexed")

	m.opts.CheckGeometry = true
	require.ErrorAs(t, m.Validate(), &invalid, "with CheckGeometry")
}

func TestInsertRingAndRemove(t *testing.T) {
	m := New(DefaultOptions())
	square := []geom.Point2{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}
	f := m.InsertRing(Unbounded, square)
	checkCounts(t, m, 4, 8, 2)
	mustValidate(t, m)

	require.Equal(t, f, m.FaceAt(pt(5, 5)))
	require.True(t, m.FaceBounds(f).Equal(geom.NewBbox2(0, 0, 10, 10)))
	require.Len(t, m.Holes(Unbounded), 1)
	require.Len(t, m.CCB(m.OuterCCB(f)), 4)

	// An island inside the square becomes a hole of f.
	h := m.InsertEdge(pt(3, 3), pt(6, 3), nil)
	require.Equal(t, f, m.Face(h))
	require.Len(t, m.Holes(f), 1)
	mustValidate(t, m)
	require.Equal(t, NoFace, m.RemoveEdge(h), "removing an island should not destroy a face")
	checkCounts(t, m, 4, 8, 2)
	require.Empty(t, m.Holes(f))
	mustValidate(t, m)

	require.Equal(t, f, m.RemoveEdge(m.OuterCCB(f)))
	checkCounts(t, m, 4, 6, 1)
	mustValidate(t, m)
	require.Equal(t, Unbounded, m.FaceAt(pt(5, 5)), "(5,5) should be unbounded once the square opens")
}

func TestRemoveEdgeSplitsFace(t *testing.T) {
	m := New(DefaultOptions())
	f := m.InsertRing(Unbounded, []geom.Point2{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)})
	d := m.InsertEdge(pt(0, 0), pt(10, 10), nil)
	checkCounts(t, m, 4, 10, 3)
	mustValidate(t, m)

	below, above := m.FaceAt(pt(8, 2)), m.FaceAt(pt(2, 8))
	require.NotEqual(t, below, above, "diagonal should split the square")
	require.NotEqual(t, Unbounded, below)
	require.NotEqual(t, Unbounded, above)
	require.True(t, below == f || above == f, "one side of the diagonal should keep face %d", f)

	lost := m.RemoveEdge(d)
	require.NotEqual(t, NoFace, lost)
	require.NotEqual(t, Unbounded, lost)
	checkCounts(t, m, 4, 8, 2)
	mustValidate(t, m)
	require.Equal(t, m.FaceAt(pt(8, 2)), m.FaceAt(pt(2, 8)), "faces should merge back into one")
}

func TestSplitMergeRoundTrip(t *testing.T) {
	m := New(DefaultOptions())
	f := m.InsertRing(Unbounded, []geom.Point2{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)})
	h := m.OuterCCB(f)
	seg := m.Segment(h)
	m.EdgeData(h).Transition = 7

	mid := pt((seg.P1.X+seg.P2.X)/2, (seg.P1.Y+seg.P2.Y)/2)
	m.SplitEdge(h, mid)
	checkCounts(t, m, 5, 10, 2)
	mustValidate(t, m)
	n := m.Next(h)
	require.Equal(t, 7, m.EdgeData(m.Dominant(n)).Transition, "split should copy the edge payload")
	v, ok := m.LocateVertex(mid)
	require.True(t, ok)
	require.Equal(t, 2, m.Degree(v))

	m.MergeEdges(h, n)
	checkCounts(t, m, 4, 8, 2)
	mustValidate(t, m)
	require.Equal(t, seg, m.Segment(h))
	_, ok = m.LocateVertex(mid)
	require.False(t, ok, "merge should delete the middle vertex")
}

func TestNoxInserts(t *testing.T) {
	m := New(DefaultOptions())
	e := m.NoxInsertEdgeInHole(pt(0, 0), pt(10, 0))
	v0, _ := m.LocateVertex(pt(0, 0))
	v1 := m.Target(e)

	m.NoxInsertEdgeFromVertex(v1, pt(10, 10))
	v2, ok := m.LocateVertex(pt(10, 10))
	require.True(t, ok, "antenna vertex missing")
	checkCounts(t, m, 3, 4, 1)

	c := m.NoxInsertEdgeBetweenVertices(v2, v0)
	checkCounts(t, m, 3, 6, 2)
	mustValidate(t, m)
	require.Equal(t, c, m.NoxInsertEdgeBetweenVertices(v2, v0), "connecting connected vertices should return the existing edge")
	require.NotEqual(t, NoHalfedge, m.VerticesConnected(v0, v2))
	require.NotEqual(t, Unbounded, m.FaceAt(pt(7, 3)), "triangle interior should be bounded")
}

func TestSetVertexLocation(t *testing.T) {
	m := New(DefaultOptions())
	m.InsertRing(Unbounded, []geom.Point2{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)})
	m.Index()

	v, _ := m.LocateVertex(pt(10, 10))
	m.SetVertexLocation(v, pt(12, 12))
	mustValidate(t, m)
	_, ok := m.LocateVertex(pt(10, 10))
	require.False(t, ok, "old location should be free")
	got, ok := m.LocateVertex(pt(12, 12))
	require.True(t, ok)
	require.Equal(t, v, got)
	require.Equal(t, []VertexID{v}, m.FindVerticesTouchesPt(pt(12, 12)))
	require.Len(t, m.FindFaceTouchesPt(pt(11, 11)), 1, "face index should follow the moved vertex")
}

func TestGrid(t *testing.T) {
	const n = 4
	m := newGrid(n)
	checkCounts(t, m, (n+1)*(n+1), 4*n*(n+1), n*n+1)
	mustValidate(t, m)

	seen := map[FaceID]bool{}
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			f := m.FaceAt(pt(float64(x)+0.5, float64(y)+0.5))
			require.NotEqual(t, Unbounded, f, "cell (%d,%d)", x, y)
			require.False(t, seen[f], "cell (%d,%d) shares face %d", x, y, f)
			seen[f] = true
		}
	}

	_, _, d := m.SmallestDist()
	require.Equal(t, 1.0, d)
}

func linearVertices(m *Pmwx, rect geom.Bbox2) []VertexID {
	var out []VertexID
	for _, v := range m.Vertices() {
		if rect.Contains(m.Point(v)) {
			out = append(out, v)
		}
	}
	return out
}

func linearHalfedges(m *Pmwx, rect geom.Bbox2) []HalfedgeID {
	var out []HalfedgeID
	for _, h := range m.DominantHalfedges() {
		if m.Segment(h).TouchesBox(rect) {
			out = append(out, h)
		}
	}
	return out
}

func linearFacesInRect(m *Pmwx, rect geom.Bbox2) []FaceID {
	var out []FaceID
	for _, f := range m.Faces() {
		if f != Unbounded && rect.ContainsBox(m.FaceBounds(f)) {
			out = append(out, f)
		}
	}
	return out
}

func TestQueriesMatchLinearScan(t *testing.T) {
	m := newGrid(6)
	require.Nil(t, m.FindVerticesTouchesRect(geom.NewBbox2(0, 0, 6, 6)), "queries before Index should return nothing")
	m.Index()
	require.True(t, m.Indexed())

	rects := []geom.Bbox2{
		geom.NewBbox2(0, 0, 6, 6),
		geom.NewBbox2(0.5, 0.5, 2.5, 1.5),
		geom.NewBbox2(2, 2, 4, 4),
		geom.NewBbox2(5.5, -1, 9, 0.5),
		geom.NewBbox2(10, 10, 11, 11),
	}

	check := func(stage string) {
		t.Helper()
		for _, r := range rects {
			require.Equal(t, linearVertices(m, r), m.FindVerticesTouchesRect(r), "%s: FindVerticesTouchesRect(%v-%v)", stage, r.Min(), r.Max())
			require.Equal(t, linearHalfedges(m, r), m.FindHalfedgeTouchesRect(r), "%s: FindHalfedgeTouchesRect(%v-%v)", stage, r.Min(), r.Max())
			require.Equal(t, linearFacesInRect(m, r), m.FindFaceFullyInRect(r), "%s: FindFaceFullyInRect(%v-%v)", stage, r.Min(), r.Max())
		}
		p := pt(1.5, 3.5)
		require.Equal(t, []FaceID{m.FaceAt(p)}, m.FindFaceTouchesPt(p), "%s: FindFaceTouchesPt(%v)", stage, p)
	}
	check("indexed")

	// Edits after Index keep the trees current.
	h := m.FindHalfedgeTouchesPt(pt(2.5, 3))
	require.Len(t, h, 1)
	m.SplitEdge(h[0], pt(2.5, 3))
	m.InsertEdge(pt(2.5, 3), pt(2.5, 4), nil)
	m.RemoveEdge(m.FindHalfedgeTouchesPt(pt(4.5, 5))[0])
	mustValidate(t, m)
	check("edited")

	cell := m.FindFaceTouchesRect(geom.NewBbox2(0.2, 0.2, 0.4, 0.4))
	require.Equal(t, []FaceID{m.FaceAt(pt(0.3, 0.3))}, cell)
	fast := m.FindFaceTouchesRectFast(geom.NewBbox2(0.2, 0.2, 0.4, 0.4))
	require.Contains(t, fast, cell[0])
}

func TestSwapDominance(t *testing.T) {
	m := New(DefaultOptions())
	h := m.InsertEdge(pt(0, 0), pt(1, 0), nil)
	d := m.Dominant(h)
	m.EdgeData(d).Segments = []NetworkSegment{{FeatType: 3, RepType: 4}}

	m.SwapDominance(d)
	require.False(t, m.IsDominant(d))
	require.True(t, m.IsDominant(d^1), "dominance did not move to the twin")
	require.True(t, m.EdgeHasRoads(d), "payload should follow dominance")
	require.True(t, m.EdgeData(d^1).HasRoadOfType(3))
	mustValidate(t, m)
}

func TestDedupSegments(t *testing.T) {
	m := New(DefaultOptions())
	h := m.Dominant(m.InsertEdge(pt(0, 0), pt(1, 0), nil))
	s := NetworkSegment{FeatType: 1, RepType: 2}
	m.EdgeData(h).Segments = []NetworkSegment{s, s, {FeatType: 1, RepType: 5}, s}

	require.Equal(t, 2, m.DedupSegments())
	require.Len(t, m.EdgeData(h).Segments, 2)
}

func TestValidateReportsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(m *Pmwx)
	}{
		{"double dominant", func(m *Pmwx) {
			h := m.DominantHalfedges()[0]
			m.halfedges[h^1].dominant = true
		}},
		{"broken next", func(m *Pmwx) {
			h := m.Halfedges()[0]
			m.halfedges[h].next = h
		}},
		{"stray vertex map entry", func(m *Pmwx) {
			m.vertexByPoint.Put(pt(99, 99), VertexID(0))
		}},
		{"unlisted hole", func(m *Pmwx) {
			m.faces[Unbounded].holes = nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(DefaultOptions())
			m.InsertRing(Unbounded, []geom.Point2{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)})
			mustValidate(t, m)
			tt.corrupt(m)

			var invalid *ErrInvalidMap
			require.ErrorAs(t, m.Validate(), &invalid)
			require.False(t, m.IsValid(), "IsValid() on a corrupt map")
		})
	}
}

func TestRawLoadRoundTrip(t *testing.T) {
	m := newGrid(3)
	raw, _, _, _ := m.Raw()

	n := New(DefaultOptions())
	n.InsertEdge(pt(-5, -5), pt(-4, -4), nil)
	verts, hes, faces, err := n.Load(raw)
	require.NoError(t, err)
	require.Len(t, verts, m.NumVertices())
	require.Len(t, hes, m.NumHalfedges())
	require.Len(t, faces, m.NumFaces())
	checkCounts(t, n, m.NumVertices(), m.NumHalfedges(), m.NumFaces())
	mustValidate(t, n)
	require.NotEqual(t, n.FaceAt(pt(0.5, 0.5)), n.FaceAt(pt(2.5, 2.5)))

	raw.Faces[0].Outer = raw.Faces[1].Outer
	_, _, _, err = n.Load(raw)
	var invalid *ErrInvalidMap
	require.ErrorAs(t, err, &invalid)
	require.True(t, n.Empty(), "a failed load leaves the map empty")
}

func TestClear(t *testing.T) {
	m := newGrid(2)
	m.Index()
	m.Clear()
	checkCounts(t, m, 0, 0, 1)
	mustValidate(t, m)
	require.False(t, m.Indexed(), "Clear should drop the index")
	m.InsertEdge(pt(0, 0), pt(1, 1), nil)
	checkCounts(t, m, 2, 2, 1)
}

func BenchmarkFaceTouchesPt_QuadTree(b *testing.B) {
	m := newGrid(30)
	m.Index()
	p := pt(17.5, 12.5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.FindFaceTouchesPt(p)
	}
}

func BenchmarkFaceTouchesPt_Linear(b *testing.B) {
	m := newGrid(30)
	p := pt(17.5, 12.5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var out []FaceID
		for _, f := range m.Faces() {
			if f != Unbounded && m.faceContains(f, p) {
				out = append(out, f)
			}
		}
		_ = out
	}
}
