package geom

import (
	"math"
	"strconv"
	"strings"

	sfgeom "github.com/peterstace/simplefeatures/geom"
	"github.com/pkg/errors"
)

// DegToMtrLat is the length of one degree of latitude in metres.
const DegToMtrLat = 111120.0

// MtrToDegLat converts metres of latitude to degrees.
const MtrToDegLat = 1.0 / DegToMtrLat

// MetricVector converts the lon/lat displacement between two geographic points
// into metres, scaling longitude by cos(latitude) at p1.
func MetricVector(p1, p2 Point2) Vector2 {
	return Vector2{
		DX: (p2.X - p1.X) * DegToMtrLat * math.Cos(p1.Y*math.Pi/180.0),
		DY: (p2.Y - p1.Y) * DegToMtrLat,
	}
}

// ringPolygon builds a simplefeatures polygon from a ring, closing it if
// needed. The WKT path keeps coordinates exact and lets the library validate
// the ring.
func ringPolygon(ring []Point2) (sfgeom.Polygon, error) {
	if len(ring) < 3 {
		return sfgeom.Polygon{}, errors.Errorf("ring has %d points", len(ring))
	}
	var sb strings.Builder
	sb.WriteString("POLYGON((")
	write := func(p Point2) {
		sb.WriteString(strconv.FormatFloat(p.X, 'g', -1, 64))
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatFloat(p.Y, 'g', -1, 64))
	}
	for i, p := range ring {
		if i > 0 {
			sb.WriteString(", ")
		}
		write(p)
	}
	if ring[0] != ring[len(ring)-1] {
		sb.WriteString(", ")
		write(ring[0])
	}
	sb.WriteString("))")

	g, err := sfgeom.UnmarshalWKT(sb.String())
	if err != nil {
		return sfgeom.Polygon{}, errors.Wrap(err, "ring")
	}
	poly, _ := g.AsPolygon()
	return poly, nil
}

// RingArea returns the signed area of a simple ring; positive means
// counter-clockwise. Self-intersecting rings are rejected.
func RingArea(ring []Point2) (float64, error) {
	poly, err := ringPolygon(ring)
	if err != nil {
		return 0, err
	}
	return poly.Area(sfgeom.SignedArea), nil
}

// RingContains reports whether p lies inside or on a simple ring.
func RingContains(ring []Point2, p Point2) (bool, error) {
	poly, err := ringPolygon(ring)
	if err != nil {
		return false, err
	}
	if !BoxFromEnvelope(poly.Envelope()).Contains(p) {
		return false, nil
	}
	return sfgeom.Intersects(poly.AsGeometry(), p.sfXY().AsPoint().AsGeometry()), nil
}
