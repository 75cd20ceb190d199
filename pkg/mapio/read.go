package mapio

import (
	"github.com/pkg/errors"

	"github.com/beetlebugorg/xestopo/internal/geom"
	"github.com/beetlebugorg/xestopo/pkg/pmwx"
)

// Smallest encoded sizes, used to reject absurd counts before allocating.
const (
	vertexSize   = 16
	halfedgeSize = 4 + 32 + 4
	faceSize     = 8
	pointSize    = 16
)

// Decode reads the map stored in the atom with the given id. Enumerated
// fields are converted through the file's token table matched against reg by
// name; without a table, or without reg, they are kept as written.
func Decode(data []byte, atomID uint32, reg *Registry, opts ReadOptions) (*pmwx.Pmwx, error) {
	var conv TokenConversionMap
	if reg != nil {
		table, err := ReadTokenTable(data, atomID)
		if err != nil {
			return nil, err
		}
		if table != nil {
			conv = BuildTokenMap(table, reg)
		}
	}
	m := pmwx.New(opts.MapOptions)
	if err := ReadMap(data, m, atomID, conv, opts); err != nil {
		return nil, err
	}
	return m, nil
}

// ReadTokenTable returns the token table stored with the map, or nil if the
// map was written without one.
func ReadTokenTable(data []byte, atomID uint32) (map[int]string, error) {
	me, err := mapContainer(data, atomID)
	if err != nil {
		return nil, err
	}
	a, ok := me.Nth(TokenTableID, 0)
	if !ok {
		return nil, nil
	}
	r := newReader(a)
	n := r.count(8)
	table := make(map[int]string, n)
	for i := 0; i < n; i++ {
		id := r.int()
		table[id] = string(r.bytes())
	}
	if r.err != nil {
		return nil, errors.Wrap(r.err, "reading token table")
	}
	return table, nil
}

// ReadMap replaces the contents of m with the map stored in the atom with
// the given id. Every enumerated field is rewritten through conv.
//
// The arrangement atom is required; payload atoms that are missing leave the
// defaults in place. On error m is left empty.
func ReadMap(data []byte, m *pmwx.Pmwx, atomID uint32, conv TokenConversionMap, opts ReadOptions) error {
	err := readMap(data, m, atomID, conv, opts)
	if err != nil {
		m.Clear()
	}
	return err
}

func readMap(data []byte, m *pmwx.Pmwx, atomID uint32, conv TokenConversionMap, opts ReadOptions) error {
	me, err := mapContainer(data, atomID)
	if err != nil {
		return err
	}
	mainAtom, ok := me.Nth(MainMapID, 0)
	if !ok {
		return &ErrMissingAtom{ID: MainMapID}
	}

	r := newReader(mainAtom)
	nv, nh, nf := r.int(), r.int(), r.int()
	if r.err == nil && (nv < 0 || nh < 0 || nf < 1 || nh%2 != 0) {
		return &ErrCorruptMap{Reason: "bad element counts"}
	}
	prog := newProgress(opts.Progress, "Reading", nv+nh+nf)
	defer prog.done()

	raw, err := decodeArrangement(r, nv, nh, nf, prog)
	if err != nil {
		return errors.Wrap(err, "reading arrangement")
	}
	verts, hes, faces, err := m.Load(raw)
	if err != nil {
		return &ErrCorruptMap{Reason: err.Error()}
	}

	if a, ok := me.Nth(EdgeDataID, 0); ok {
		if err := decodeEdges(newReader(a), m, hes, conv); err != nil {
			return errors.Wrap(err, "reading edge data")
		}
	}
	if a, ok := me.Nth(FaceDataID, 0); ok {
		if err := decodeFaces(newReader(a), m, faces, conv); err != nil {
			return errors.Wrap(err, "reading face data")
		}
	}
	if a, ok := me.Nth(VertexDataID, 0); ok {
		if err := decodeVertices(newReader(a), m, verts); err != nil {
			return errors.Wrap(err, "reading vertex data")
		}
	}
	return nil
}

func mapContainer(data []byte, atomID uint32) (Container, error) {
	outer, err := ParseContainer(data)
	if err != nil {
		return nil, errors.Wrap(err, "parsing container")
	}
	me, ok := outer.Nth(atomID, 0)
	if !ok {
		return nil, &ErrMissingAtom{ID: atomID}
	}
	inner, err := me.Contents()
	if err != nil {
		return nil, errors.Wrapf(err, "parsing atom %s", AtomName(atomID))
	}
	return inner, nil
}

func decodeArrangement(r *reader, nv, nh, nf int, prog *progress) (pmwx.RawMap, error) {
	left := len(r.buf) - r.off
	if nv*vertexSize+nh*halfedgeSize+nf*faceSize > left {
		return pmwx.RawMap{}, &ErrTruncatedAtom{ID: r.id, Offset: r.off,
			Need: nv*vertexSize + nh*halfedgeSize + nf*faceSize - left}
	}

	raw := pmwx.RawMap{
		Vertices:  make([]geom.Point2, nv),
		Halfedges: make([]pmwx.RawHalfedge, nh),
		Faces:     make([]pmwx.RawFace, nf),
	}
	for i := range raw.Vertices {
		prog.step()
		raw.Vertices[i] = geom.Point2{X: r.double(), Y: r.double()}
	}

	curves := make([]geom.Segment2, nh)
	for i := range raw.Halfedges {
		prog.step()
		raw.Halfedges[i].Target = r.int32()
		curves[i] = geom.Segment2{
			P1: geom.Point2{X: r.double(), Y: r.double()},
			P2: geom.Point2{X: r.double(), Y: r.double()},
		}
		raw.Halfedges[i].Dominant = r.bool()
	}
	if r.err != nil {
		return raw, r.err
	}
	for i, h := range raw.Halfedges {
		t, s := h.Target, raw.Halfedges[i^1].Target
		if t < 0 || int(t) >= nv || s < 0 || int(s) >= nv {
			return raw, &ErrCorruptMap{Reason: "half-edge targets a missing vertex"}
		}
		if curves[i].P1 != raw.Vertices[s] || curves[i].P2 != raw.Vertices[t] {
			return raw, &ErrCorruptMap{Reason: "half-edge curve does not match its vertices"}
		}
	}

	readCycle := func() []int32 {
		n := r.count(4)
		out := make([]int32, n)
		for i := range out {
			out[i] = r.int32()
		}
		return out
	}
	for i := range raw.Faces {
		prog.step()
		if outer := readCycle(); len(outer) > 0 {
			raw.Faces[i].Outer = outer
		}
		holes := r.count(4)
		for k := 0; k < holes; k++ {
			raw.Faces[i].Holes = append(raw.Faces[i].Holes, readCycle())
		}
	}
	return raw, r.err
}

func checkVersion(r *reader) error {
	v := r.int32()
	if r.err != nil {
		return r.err
	}
	if v != payloadVersion {
		return &ErrBadVersion{ID: r.id, Version: v}
	}
	return nil
}

// tokens converts enumerated fields, keeping the first failure.
type tokens struct {
	conv TokenConversionMap
	err  error
}

func (t *tokens) convert(v int) int {
	if t.err != nil {
		return v
	}
	out, err := t.conv.Convert(v)
	if err != nil {
		t.err = err
		return v
	}
	return out
}

func (t *tokens) params(r *reader) pmwx.ParamMap {
	n := r.count(12)
	if n == 0 {
		return nil
	}
	p := make(pmwx.ParamMap, n)
	for i := 0; i < n; i++ {
		k := t.convert(r.int())
		p[k] = r.double()
	}
	return p
}

func readRings(r *reader) [][]geom.Point2 {
	n := r.count(4)
	if n == 0 {
		return nil
	}
	rings := make([][]geom.Point2, n)
	for i := range rings {
		pts := make([]geom.Point2, r.count(pointSize))
		for j := range pts {
			pts[j] = geom.Point2{X: r.double(), Y: r.double()}
		}
		rings[i] = pts
	}
	return rings
}

func decodeEdges(r *reader, m *pmwx.Pmwx, hes []pmwx.HalfedgeID, conv TokenConversionMap) error {
	if err := checkVersion(r); err != nil {
		return err
	}
	t := &tokens{conv: conv}
	for i := 0; i < len(hes) && r.err == nil && t.err == nil; i += 2 {
		d := m.EdgeData(m.Dominant(hes[i]))
		d.Transition = t.convert(r.int())
		if n := r.count(24); n > 0 {
			d.Segments = make([]pmwx.NetworkSegment, n)
			for k := range d.Segments {
				d.Segments[k] = pmwx.NetworkSegment{
					FeatType:     t.convert(r.int()),
					RepType:      t.convert(r.int()),
					SourceHeight: r.double(),
					TargetHeight: r.double(),
				}
			}
		}
		d.Params = t.params(r)
		d.Inset = r.double()
		if t.err != nil {
			return errors.Wrapf(t.err, "edge %d", i/2)
		}
	}
	return r.err
}

func decodeFaces(r *reader, m *pmwx.Pmwx, faces []pmwx.FaceID, conv TokenConversionMap) error {
	if err := checkVersion(r); err != nil {
		return err
	}
	t := &tokens{conv: conv}
	for i, f := range faces {
		d := m.FaceData(f)
		d.TerrainType = t.convert(r.int())
		d.Params = t.params(r)

		if n := r.count(24); n > 0 {
			d.PointFeatures = make([]pmwx.PointFeature, n)
			for k := range d.PointFeatures {
				pf := &d.PointFeatures[k]
				pf.FeatType = t.convert(r.int())
				pf.Params = t.params(r)
				pf.Location = geom.Point2{X: r.double(), Y: r.double()}
			}
		}

		if n := r.count(12); n > 0 {
			d.PolygonFeatures = make([]pmwx.PolygonFeature, n)
			for k := range d.PolygonFeatures {
				pf := &d.PolygonFeatures[k]
				pf.FeatType = t.convert(r.int())
				pf.Params = t.params(r)
				pf.Shape = readRings(r)
			}
		}

		d.AreaFeature.FeatType = t.convert(r.int())
		d.AreaFeature.Params = t.params(r)

		if n := r.count(32); n > 0 {
			d.Objs = make([]pmwx.ObjPlacement, n)
			for k := range d.Objs {
				o := &d.Objs[k]
				o.RepType = t.convert(r.int())
				o.Location = geom.Point2{X: r.double(), Y: r.double()}
				o.Heading = r.double()
				o.Derived = r.bool()
			}
		}

		if n := r.count(20); n > 0 {
			d.PolyObjs = make([]pmwx.PolyObjPlacement, n)
			for k := range d.PolyObjs {
				o := &d.PolyObjs[k]
				o.RepType = t.convert(r.int())
				o.Shape = readRings(r)
				o.Height = r.double()
				o.Derived = r.bool()
			}
		}

		if r.err != nil {
			return r.err
		}
		if t.err != nil {
			return errors.Wrapf(t.err, "face %d", i)
		}
	}
	return nil
}

func decodeVertices(r *reader, m *pmwx.Pmwx, verts []pmwx.VertexID) error {
	if err := checkVersion(r); err != nil {
		return err
	}
	for _, v := range verts {
		m.VertexData(v).TunnelPortal = r.byte() != 0
	}
	return r.err
}
