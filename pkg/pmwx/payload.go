package pmwx

import (
	"slices"

	"github.com/beetlebugorg/xestopo/internal/geom"
)

// NoValue marks an unset enumerated field (feature type, rep type, terrain).
const NoValue = -1

// Terrain tokens the map itself depends on. Any other terrain value is an
// opaque token owned by the caller's registry.
const (
	TerrainNatural = 0
	TerrainWater   = 1
)

// ParamMap maps enumerated parameters to values.
type ParamMap map[int]float64

// Clone returns an independent copy of m.
func (m ParamMap) Clone() ParamMap {
	if m == nil {
		return nil
	}
	out := make(ParamMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// VertexData is the payload carried by each vertex.
type VertexData struct {
	TunnelPortal bool
}

// NetworkSegment is one road or rail item running along an edge. Heights are
// levels above ground at each end, in the direction of the dominant half-edge.
type NetworkSegment struct {
	FeatType     int
	RepType      int
	SourceHeight float64
	TargetHeight float64
}

// EdgeData is the payload of a half-edge. Only the dominant member of each
// pair carries meaningful data.
type EdgeData struct {
	Transition int
	Segments   []NetworkSegment
	Params     ParamMap
	Inset      float64
	Mark       bool
}

// HasRoads reports whether any network segment runs along the edge.
func (d *EdgeData) HasRoads() bool { return len(d.Segments) > 0 }

// HasGroundRoads reports whether a segment runs at ground level at both ends.
func (d *EdgeData) HasGroundRoads() bool {
	for _, s := range d.Segments {
		if s.SourceHeight == 0 && s.TargetHeight == 0 {
			return true
		}
	}
	return false
}

// HasBridgeRoads reports whether a segment is raised at either end.
func (d *EdgeData) HasBridgeRoads() bool {
	for _, s := range d.Segments {
		if s.SourceHeight > 0 || s.TargetHeight > 0 {
			return true
		}
	}
	return false
}

// HasRoadOfType reports whether a segment of feature type t runs along the edge.
func (d *EdgeData) HasRoadOfType(t int) bool {
	for _, s := range d.Segments {
		if s.FeatType == t {
			return true
		}
	}
	return false
}

func (d EdgeData) clone() EdgeData {
	d.Segments = slices.Clone(d.Segments)
	d.Params = d.Params.Clone()
	return d
}

// PointFeature is a zero-dimensional feature stored in its containing face.
type PointFeature struct {
	FeatType     int
	Params       ParamMap
	Location     geom.Point2
	Instantiated bool
}

// PolygonFeature is an area feature fully inside its containing face. The first
// ring is the outer boundary, the rest are holes.
type PolygonFeature struct {
	FeatType     int
	Params       ParamMap
	Shape        [][]geom.Point2
	Instantiated bool
}

// AreaFeature describes the whole face.
type AreaFeature struct {
	FeatType int
	Params   ParamMap
}

// ObjPlacement is a single object placed in a face.
type ObjPlacement struct {
	RepType  int
	Location geom.Point2
	Heading  float64
	Derived  bool
}

// PolyObjPlacement places a prototype by its polygon and height.
type PolyObjPlacement struct {
	RepType int
	Shape   [][]geom.Point2
	Height  float64
	Derived bool
}

// FaceData is the land-use payload of a face.
type FaceData struct {
	TerrainType     int
	Params          ParamMap
	PointFeatures   []PointFeature
	PolygonFeatures []PolygonFeature
	AreaFeature     AreaFeature
	Objs            []ObjPlacement
	PolyObjs        []PolyObjPlacement
}

// NewFaceData returns the payload of a freshly created face.
func NewFaceData() FaceData {
	return FaceData{
		TerrainType: TerrainNatural,
		AreaFeature: AreaFeature{FeatType: NoValue},
	}
}

func (d FaceData) clone() FaceData {
	d.Params = d.Params.Clone()
	d.PointFeatures = slices.Clone(d.PointFeatures)
	for i := range d.PointFeatures {
		d.PointFeatures[i].Params = d.PointFeatures[i].Params.Clone()
	}
	d.PolygonFeatures = slices.Clone(d.PolygonFeatures)
	for i := range d.PolygonFeatures {
		d.PolygonFeatures[i].Params = d.PolygonFeatures[i].Params.Clone()
	}
	d.AreaFeature.Params = d.AreaFeature.Params.Clone()
	d.Objs = slices.Clone(d.Objs)
	d.PolyObjs = slices.Clone(d.PolyObjs)
	return d
}

// TerrainMatch reports whether two faces share a terrain type.
func (d *FaceData) TerrainMatch(o *FaceData) bool { return d.TerrainType == o.TerrainType }

// AreaMatch reports whether two faces share terrain and area feature types.
func (d *FaceData) AreaMatch(o *FaceData) bool {
	return d.TerrainType == o.TerrainType && d.AreaFeature.FeatType == o.AreaFeature.FeatType
}
