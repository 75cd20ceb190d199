package terrain

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/beetlebugorg/xestopo/internal/geom"
)

// locateSlop is how far outside a triangle a point may sit, in barycentric
// units, and still be located in it.
const locateSlop = 1e-12

// Mesh is a triangulated height field.
type Mesh struct {
	points    []geom.Point3
	triangles [][3]int
	edges     [][2]int
	triEdges  [][3]int
	bounds    geom.Bbox2
	tree      *rtreego.Rtree
}

// indexedTriangle files one triangle in the R-tree.
type indexedTriangle struct {
	index int
	rect  rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (t *indexedTriangle) Bounds() rtreego.Rect { return t.rect }

// NewMesh builds a mesh from explicit triangles, given as counter-clockwise or
// clockwise index triples into points.
func NewMesh(points []geom.Point3, triangles [][3]int) (*Mesh, error) {
	m := &Mesh{
		points:    append([]geom.Point3(nil), points...),
		triangles: append([][3]int(nil), triangles...),
		bounds:    geom.EmptyBox(),
		tree:      rtreego.NewTree(2, 25, 50),
	}

	edgeIndex := make(map[[2]int]int)
	m.triEdges = make([][3]int, len(triangles))
	for i, t := range triangles {
		for _, v := range t {
			if v < 0 || v >= len(points) {
				return nil, &ErrBadTriangle{Index: i, Reason: "vertex index out of range"}
			}
		}
		a, b, c := m.corner(i, 0), m.corner(i, 1), m.corner(i, 2)
		if geom.NewVector(a, b).Cross(geom.NewVector(a, c)) == 0 {
			return nil, &ErrBadTriangle{Index: i, Reason: "degenerate"}
		}

		box := geom.BoxOf(a).Add(b).Add(c)
		rect, err := rtreego.NewRect(rtreego.Point{box.Min().X, box.Min().Y}, []float64{box.Width(), box.Height()})
		if err != nil {
			return nil, &ErrBadTriangle{Index: i, Reason: err.Error()}
		}
		m.tree.Insert(&indexedTriangle{index: i, rect: rect})
		m.bounds = m.bounds.Union(box)

		for k := 0; k < 3; k++ {
			key := [2]int{t[k], t[(k+1)%3]}
			if key[0] > key[1] {
				key[0], key[1] = key[1], key[0]
			}
			e, ok := edgeIndex[key]
			if !ok {
				e = len(m.edges)
				m.edges = append(m.edges, key)
				edgeIndex[key] = e
			}
			m.triEdges[i][k] = e
		}
	}
	return m, nil
}

// NewGridMesh samples heightFn on a cols by rows grid over bounds and splits
// each cell along its lower-left to upper-right diagonal.
func NewGridMesh(bounds geom.Bbox2, cols, rows int, heightFn func(geom.Point2) float64) (*Mesh, error) {
	if cols < 1 || rows < 1 {
		return nil, &ErrBadGrid{Cols: cols, Rows: rows}
	}
	dx := bounds.Width() / float64(cols)
	dy := bounds.Height() / float64(rows)
	lo, hi := bounds.Min(), bounds.Max()

	points := make([]geom.Point3, 0, (cols+1)*(rows+1))
	for j := 0; j <= rows; j++ {
		for i := 0; i <= cols; i++ {
			p := geom.Point2{X: lo.X + float64(i)*dx, Y: lo.Y + float64(j)*dy}
			// Pin the far edges so the grid covers bounds exactly.
			if i == cols {
				p.X = hi.X
			}
			if j == rows {
				p.Y = hi.Y
			}
			points = append(points, p.Lift(heightFn(p)))
		}
	}

	at := func(i, j int) int { return j*(cols+1) + i }
	triangles := make([][3]int, 0, 2*cols*rows)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			triangles = append(triangles,
				[3]int{at(i, j), at(i+1, j), at(i+1, j+1)},
				[3]int{at(i, j), at(i+1, j+1), at(i, j+1)})
		}
	}
	return NewMesh(points, triangles)
}

// NumTriangles returns the number of triangles.
func (m *Mesh) NumTriangles() int { return len(m.triangles) }

// Bounds returns the box around every triangle.
func (m *Mesh) Bounds() geom.Bbox2 { return m.bounds }

// Triangle returns the corners of triangle i.
func (m *Mesh) Triangle(i int) [3]geom.Point3 {
	t := m.triangles[i]
	return [3]geom.Point3{m.points[t[0]], m.points[t[1]], m.points[t[2]]}
}

func (m *Mesh) corner(tri, k int) geom.Point2 { return m.points[m.triangles[tri][k]].XY() }

// candidates returns the triangles whose boxes touch b, in index order. The
// query is padded so boxes that only share a boundary still match.
func (m *Mesh) candidates(b geom.Bbox2) []int {
	const pad = 1e-9
	rect, err := rtreego.NewRect(rtreego.Point{b.Min().X - pad, b.Min().Y - pad},
		[]float64{b.Width() + 2*pad, b.Height() + 2*pad})
	if err != nil {
		return nil
	}
	hits := m.tree.SearchIntersect(rect)
	out := make([]int, len(hits))
	for i, s := range hits {
		out[i] = s.(*indexedTriangle).index
	}
	sort.Ints(out)
	return out
}

// barycentric returns the weights of p against the corners of triangle tri.
func (m *Mesh) barycentric(tri int, p geom.Point2) (w0, w1, w2 float64) {
	a, b, c := m.corner(tri, 0), m.corner(tri, 1), m.corner(tri, 2)
	area := geom.NewVector(a, b).Cross(geom.NewVector(a, c))
	w0 = geom.NewVector(b, c).Cross(geom.NewVector(b, p)) / area
	w1 = geom.NewVector(c, a).Cross(geom.NewVector(c, p)) / area
	w2 = 1 - w0 - w1
	return w0, w1, w2
}

// Locate returns the triangle containing p. Points on a shared edge go to the
// lowest numbered triangle.
func (m *Mesh) Locate(p geom.Point2) (int, bool) {
	for _, tri := range m.candidates(geom.BoxOf(p)) {
		w0, w1, w2 := m.barycentric(tri, p)
		if w0 >= -locateSlop && w1 >= -locateSlop && w2 >= -locateSlop {
			return tri, true
		}
	}
	return -1, false
}

// HeightAt interpolates the mesh height at p. The second result is false, and
// the height 0, when p is outside the mesh.
func (m *Mesh) HeightAt(p geom.Point2) (float64, bool) {
	tri, ok := m.Locate(p)
	if !ok {
		return 0, false
	}
	w0, w1, w2 := m.barycentric(tri, p)
	t := m.triangles[tri]
	return w0*m.points[t[0]].Z + w1*m.points[t[1]].Z + w2*m.points[t[2]].Z, true
}
