package mapio

import (
	"io"
	"sort"

	"github.com/pkg/errors"

	"github.com/beetlebugorg/xestopo/internal/geom"
	"github.com/beetlebugorg/xestopo/pkg/pmwx"
)

// payloadVersion tags the Ver1, Edg1 and Fac1 atoms.
const payloadVersion = 1

// WriteMap encodes m as an atom with the given id and writes it to w.
func WriteMap(w io.Writer, m *pmwx.Pmwx, atomID uint32, opts WriteOptions) error {
	data := EncodeMap(m, atomID, opts)
	if _, err := w.Write(data); err != nil {
		return errors.Wrapf(err, "writing map atom %s", AtomName(atomID))
	}
	return nil
}

// EncodeMap returns m encoded as an atom with the given id.
//
// The atom holds the arrangement (MAPi) followed by the vertex, edge and face
// payloads (Ver1, Edg1, Fac1) and, when opts.Registry is set, the token table
// (Tok1). Enumerated fields are written as they are in memory.
func EncodeMap(m *pmwx.Pmwx, atomID uint32, opts WriteOptions) []byte {
	raw, verts, hes, faces := m.Raw()
	prog := newProgress(opts.Progress, "Writing", 2*(len(verts)+len(hes)+len(faces)))

	var body []byte
	body = appendAtom(body, MainMapID, encodeArrangement(raw, prog))
	body = appendAtom(body, EdgeDataID, encodeEdges(m, hes, prog))
	body = appendAtom(body, FaceDataID, encodeFaces(m, faces, prog))
	body = appendAtom(body, VertexDataID, encodeVertices(m, verts, prog))
	if opts.Registry != nil {
		body = appendAtom(body, TokenTableID, encodeTokens(opts.Registry.Table()))
	}
	prog.done()

	return appendAtom(nil, atomID, body)
}

func encodeArrangement(raw pmwx.RawMap, prog *progress) []byte {
	var w writer
	w.int(len(raw.Vertices))
	w.int(len(raw.Halfedges))
	w.int(len(raw.Faces))

	for _, p := range raw.Vertices {
		prog.step()
		w.double(p.X)
		w.double(p.Y)
	}
	for i, h := range raw.Halfedges {
		prog.step()
		src := raw.Vertices[raw.Halfedges[i^1].Target]
		dst := raw.Vertices[h.Target]
		w.int32(h.Target)
		w.double(src.X)
		w.double(src.Y)
		w.double(dst.X)
		w.double(dst.Y)
		w.bool(h.Dominant)
	}
	for _, f := range raw.Faces {
		prog.step()
		w.int(len(f.Outer))
		for _, idx := range f.Outer {
			w.int32(idx)
		}
		w.int(len(f.Holes))
		for _, hole := range f.Holes {
			w.int(len(hole))
			for _, idx := range hole {
				w.int32(idx)
			}
		}
	}
	return w.buf
}

// encodeEdges writes the payload of the dominant member of each pair. Raw
// order puts it first, so these are the even positions.
func encodeEdges(m *pmwx.Pmwx, hes []pmwx.HalfedgeID, prog *progress) []byte {
	var w writer
	w.int(payloadVersion)
	for i := 0; i < len(hes); i += 2 {
		prog.step()
		prog.step()
		d := m.EdgeData(hes[i])
		w.int(d.Transition)
		w.int(len(d.Segments))
		for _, s := range d.Segments {
			w.int(s.FeatType)
			w.int(s.RepType)
			w.double(s.SourceHeight)
			w.double(s.TargetHeight)
		}
		writeParams(&w, d.Params)
		w.double(d.Inset)
	}
	return w.buf
}

func encodeFaces(m *pmwx.Pmwx, faces []pmwx.FaceID, prog *progress) []byte {
	var w writer
	w.int(payloadVersion)
	for _, f := range faces {
		prog.step()
		d := m.FaceData(f)
		w.int(d.TerrainType)
		writeParams(&w, d.Params)

		w.int(len(d.PointFeatures))
		for _, pf := range d.PointFeatures {
			w.int(pf.FeatType)
			writeParams(&w, pf.Params)
			w.double(pf.Location.X)
			w.double(pf.Location.Y)
		}

		w.int(len(d.PolygonFeatures))
		for _, pf := range d.PolygonFeatures {
			w.int(pf.FeatType)
			writeParams(&w, pf.Params)
			writeRings(&w, pf.Shape)
		}

		w.int(d.AreaFeature.FeatType)
		writeParams(&w, d.AreaFeature.Params)

		w.int(len(d.Objs))
		for _, o := range d.Objs {
			w.int(o.RepType)
			w.double(o.Location.X)
			w.double(o.Location.Y)
			w.double(o.Heading)
			w.bool(o.Derived)
		}

		w.int(len(d.PolyObjs))
		for _, o := range d.PolyObjs {
			w.int(o.RepType)
			writeRings(&w, o.Shape)
			w.double(o.Height)
			w.bool(o.Derived)
		}
	}
	return w.buf
}

func encodeVertices(m *pmwx.Pmwx, verts []pmwx.VertexID, prog *progress) []byte {
	var w writer
	w.int(payloadVersion)
	for _, v := range verts {
		prog.step()
		if m.VertexData(v).TunnelPortal {
			w.byte(1)
		} else {
			w.byte(0)
		}
	}
	return w.buf
}

func encodeTokens(table map[int]string) []byte {
	ids := make([]int, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var w writer
	w.int(len(ids))
	for _, id := range ids {
		w.int(id)
		w.bytes([]byte(table[id]))
	}
	return w.buf
}

// writeParams writes a param map in key order so encoding is deterministic.
func writeParams(w *writer, p pmwx.ParamMap) {
	keys := make([]int, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	w.int(len(keys))
	for _, k := range keys {
		w.int(k)
		w.double(p[k])
	}
}

func writeRings(w *writer, rings [][]geom.Point2) {
	w.int(len(rings))
	for _, r := range rings {
		w.int(len(r))
		for _, p := range r {
			w.double(p.X)
			w.double(p.Y)
		}
	}
}
