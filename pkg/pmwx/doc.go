// Package pmwx is a planar map: a subdivision of the plane into vertices,
// edges and faces stored as a doubly connected edge list.
//
// Every edge is a pair of half-edges running in opposite directions. Each
// half-edge knows its target vertex, the next half-edge around its face, and
// the face on its left. A face has one outer boundary cycle (none for the
// unbounded face) and any number of hole cycles. Elements are addressed by
// integer handles into arenas owned by the map.
//
// # Building a Map
//
// InsertEdge adds a segment and computes every intersection with the edges
// already present:
//
//	m := pmwx.New(pmwx.DefaultOptions())
//	sq := []pmwx.Point2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
//	for i := range sq {
//	    m.InsertEdge(sq[i], sq[(i+1)%len(sq)], nil)
//	}
//	fmt.Println(m.NumFaces()) // 2: the unbounded face and the square
//
// When the caller already knows the new segment crosses nothing, the Nox
// variants and InsertRing skip the intersection search.
//
// # Payloads
//
// Faces carry land use (FaceData), edges carry network segments and params
// (EdgeData, held by the dominant half-edge of each pair) and vertices carry
// VertexData. Splitting an edge or a face copies the payload to the new part.
//
// # Spatial Queries
//
// Index builds quad-trees over faces, edges and vertices. Once built they are
// kept current by every edit:
//
//	m.Index()
//	faces := m.FindFaceTouchesRect(geom.NewBbox2(2, 2, 3, 3))
//
// # Validation
//
// Validate walks the whole structure and reports the first broken invariant.
// ValidateGeometry also checks that edges meet only at shared vertices; set
// Options.CheckGeometry to have Validate run it.
// Maps are not safe for concurrent use.
package pmwx
