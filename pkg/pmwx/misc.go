package pmwx

import (
	"math"

	"github.com/beetlebugorg/xestopo/internal/geom"
)

// SmallestDist returns the closest pair of vertices and their distance, or
// zero when the map has fewer than two vertices.
func (m *Pmwx) SmallestDist() (p1, p2 geom.Point2, dist float64) {
	if m.numVertices < 2 {
		return p1, p2, 0
	}
	// Keys come out sorted y-then-x, so the scan for each point stops once the
	// y gap alone exceeds the best distance.
	keys := m.vertexByPoint.Keys()
	pts := make([]geom.Point2, len(keys))
	for i, k := range keys {
		pts[i] = k.(geom.Point2)
	}
	best := math.Inf(1)
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			dy := pts[j].Y - pts[i].Y
			if dy*dy >= best {
				break
			}
			if d := pts[i].SquaredDistance(pts[j]); d < best {
				best, p1, p2 = d, pts[i], pts[j]
			}
		}
	}
	return p1, p2, math.Sqrt(best)
}

// IsWater reports whether f is water. The unbounded face always is.
func (m *Pmwx) IsWater(f FaceID) bool {
	return m.faces[f].data.TerrainType == TerrainWater || m.faces[f].outer == NoHalfedge
}

// FaceBounds returns the bounding box of f's outer boundary. The unbounded
// face has an empty box.
func (m *Pmwx) FaceBounds(f FaceID) geom.Bbox2 {
	if m.faces[f].outer == NoHalfedge {
		return geom.EmptyBox()
	}
	return m.ringBounds(m.faces[f].outer)
}

// EdgeHasRoads reports whether the edge of h carries network segments.
func (m *Pmwx) EdgeHasRoads(h HalfedgeID) bool {
	return m.halfedges[m.Dominant(h)].data.HasRoads()
}

// DedupSegments removes repeated network segments from every edge and returns
// the number removed.
func (m *Pmwx) DedupSegments() int {
	removed := 0
	for i := range m.halfedges {
		he := &m.halfedges[i]
		if !he.alive || !he.dominant || len(he.data.Segments) < 2 {
			continue
		}
		seen := make(map[NetworkSegment]bool, len(he.data.Segments))
		kept := he.data.Segments[:0]
		for _, s := range he.data.Segments {
			if seen[s] {
				removed++
				continue
			}
			seen[s] = true
			kept = append(kept, s)
		}
		he.data.Segments = kept
	}
	return removed
}
