package mapio

import (
	"bytes"
	"slices"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/beetlebugorg/xestopo/internal/geom"
	"github.com/beetlebugorg/xestopo/pkg/pmwx"
)

const testAtom uint32 = 'T'<<24 | 'e'<<16 | 's'<<8 | 't'

// Tokens used by sampleMap. 0 and 1 are the terrain tokens the map itself
// knows about.
const (
	tokRoad   = 2
	tokBridge = 3
	tokForest = 4
	tokHeight = 5
	tokTree   = 6
)

var sampleNames = []string{"natural", "water", "road", "bridge", "forest", "height", "tree"}

func pt(x, y float64) geom.Point2 { return geom.Point2{X: x, Y: y} }

// sampleMap is a square split by a diagonal with an island in one half, and
// a payload on every kind of element.
func sampleMap(t *testing.T) *pmwx.Pmwx {
	t.Helper()
	m := pmwx.New(pmwx.DefaultOptions())
	f := m.InsertRing(pmwx.Unbounded, []geom.Point2{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)})
	d := m.InsertEdge(pt(0, 0), pt(10, 10), nil)
	m.InsertEdge(pt(6, 2), pt(8, 2), nil)
	require.NoError(t, m.Validate())

	ed := m.EdgeData(m.Dominant(d))
	ed.Transition = tokBridge
	ed.Segments = []pmwx.NetworkSegment{
		{FeatType: tokRoad, RepType: tokBridge, SourceHeight: 0, TargetHeight: 5},
		{FeatType: tokRoad, RepType: tokRoad, SourceHeight: 1, TargetHeight: 1},
	}
	ed.Params = pmwx.ParamMap{tokHeight: 12.5}
	ed.Inset = 0.25

	fd := m.FaceData(f)
	fd.TerrainType = tokForest
	fd.Params = pmwx.ParamMap{tokHeight: 3}
	fd.PointFeatures = []pmwx.PointFeature{{FeatType: tokTree, Params: pmwx.ParamMap{tokHeight: 7}, Location: pt(1, 2)}}
	fd.PolygonFeatures = []pmwx.PolygonFeature{{
		FeatType: tokForest,
		Shape:    [][]geom.Point2{{pt(1, 1), pt(2, 1), pt(2, 2)}, {pt(1.2, 1.1), pt(1.5, 1.1), pt(1.5, 1.5)}},
	}}
	fd.AreaFeature = pmwx.AreaFeature{FeatType: tokForest, Params: pmwx.ParamMap{tokHeight: 1}}
	fd.Objs = []pmwx.ObjPlacement{{RepType: tokTree, Location: pt(3, 4), Heading: 90, Derived: true}}
	fd.PolyObjs = []pmwx.PolyObjPlacement{{RepType: tokTree, Shape: [][]geom.Point2{{pt(4, 4), pt(5, 4), pt(5, 5)}}, Height: 8}}

	v, ok := m.LocateVertex(pt(10, 10))
	require.True(t, ok)
	m.VertexData(v).TunnelPortal = true
	return m
}

// requireSameMap checks topology and payloads element by element in raw
// order. conv is applied to the enumerated fields of want.
func requireSameMap(t *testing.T, want, got *pmwx.Pmwx, conv func(int) int) {
	t.Helper()
	wantRaw, wv, wh, wf := want.Raw()
	gotRaw, gv, gh, gf := got.Raw()
	require.Equal(t, wantRaw, gotRaw)

	for i := range wv {
		require.Equal(t, *want.VertexData(wv[i]), *got.VertexData(gv[i]), "vertex %d", i)
	}
	for i := 0; i < len(wh); i += 2 {
		w := *want.EdgeData(wh[i])
		w.Transition = conv(w.Transition)
		w.Segments = slices.Clone(w.Segments)
		for k := range w.Segments {
			w.Segments[k].FeatType = conv(w.Segments[k].FeatType)
			w.Segments[k].RepType = conv(w.Segments[k].RepType)
		}
		w.Params = convParams(w.Params, conv)
		w.Mark = false
		require.Equal(t, w, *got.EdgeData(gh[i]), "edge %d", i/2)
	}
	for i := range wf {
		w := *want.FaceData(wf[i])
		w.TerrainType = conv(w.TerrainType)
		w.Params = convParams(w.Params, conv)
		w.PointFeatures = slices.Clone(w.PointFeatures)
		w.PolygonFeatures = slices.Clone(w.PolygonFeatures)
		w.Objs = slices.Clone(w.Objs)
		w.PolyObjs = slices.Clone(w.PolyObjs)
		for k := range w.PointFeatures {
			w.PointFeatures[k].FeatType = conv(w.PointFeatures[k].FeatType)
			w.PointFeatures[k].Params = convParams(w.PointFeatures[k].Params, conv)
		}
		for k := range w.PolygonFeatures {
			w.PolygonFeatures[k].FeatType = conv(w.PolygonFeatures[k].FeatType)
			w.PolygonFeatures[k].Params = convParams(w.PolygonFeatures[k].Params, conv)
		}
		w.AreaFeature.FeatType = conv(w.AreaFeature.FeatType)
		w.AreaFeature.Params = convParams(w.AreaFeature.Params, conv)
		for k := range w.Objs {
			w.Objs[k].RepType = conv(w.Objs[k].RepType)
		}
		for k := range w.PolyObjs {
			w.PolyObjs[k].RepType = conv(w.PolyObjs[k].RepType)
		}
		require.Equal(t, w, *got.FaceData(gf[i]), "face %d", i)
	}
}

func convParams(p pmwx.ParamMap, conv func(int) int) pmwx.ParamMap {
	if p == nil {
		return nil
	}
	out := make(pmwx.ParamMap, len(p))
	for k, v := range p {
		out[conv(k)] = v
	}
	return out
}

func identity(tok int) int { return tok }

func TestRoundTripIdentity(t *testing.T) {
	m := sampleMap(t)

	var buf bytes.Buffer
	require.NoError(t, WriteMap(&buf, m, testAtom, DefaultWriteOptions()))

	got := pmwx.New(pmwx.DefaultOptions())
	require.NoError(t, ReadMap(buf.Bytes(), got, testAtom, nil, DefaultReadOptions()))
	require.NoError(t, got.Validate())
	require.Equal(t, m.NumVertices(), got.NumVertices())
	require.Equal(t, m.NumHalfedges(), got.NumHalfedges())
	require.Equal(t, m.NumFaces(), got.NumFaces())
	requireSameMap(t, m, got, identity)

	require.Equal(t, m.FaceAt(pt(7, 3)) != pmwx.Unbounded, got.FaceAt(pt(7, 3)) != pmwx.Unbounded)
}

func TestRoundTripEmptyMap(t *testing.T) {
	m := pmwx.New(pmwx.DefaultOptions())
	data := EncodeMap(m, testAtom, DefaultWriteOptions())

	got, err := Decode(data, testAtom, nil, DefaultReadOptions())
	require.NoError(t, err)
	require.True(t, got.Empty())
	require.Equal(t, 1, got.NumFaces())
	require.True(t, got.IsWater(pmwx.Unbounded))
}

func TestRoundTripPermutedTokens(t *testing.T) {
	m := sampleMap(t)
	data := EncodeMap(m, testAtom, DefaultWriteOptions())

	conv := TokenConversionMap{}
	for tok := 0; tok < len(sampleNames); tok++ {
		conv[tok] = tok + 100
	}
	got := pmwx.New(pmwx.DefaultOptions())
	require.NoError(t, ReadMap(data, got, testAtom, conv, DefaultReadOptions()))
	requireSameMap(t, m, got, func(tok int) int {
		if tok == pmwx.NoValue {
			return tok
		}
		return tok + 100
	})
}

func TestRoundTripRegistry(t *testing.T) {
	m := sampleMap(t)
	data := EncodeMap(m, testAtom, WriteOptions{Registry: NewRegistry(sampleNames...)})

	// The reader registered its tokens in a different order and lacks
	// "tree" entirely.
	reader := NewRegistry("natural", "water", "height", "forest", "bridge", "road")
	got, err := Decode(data, testAtom, reader, DefaultReadOptions())
	require.NoError(t, err)

	tree, ok := reader.Lookup("tree")
	require.True(t, ok, "unknown names are registered on read")
	require.Equal(t, 6, tree)

	byName := map[int]string{}
	for id, name := range sampleNames {
		byName[id] = name
	}
	requireSameMap(t, m, got, func(tok int) int {
		if tok == pmwx.NoValue {
			return tok
		}
		id, _ := reader.Lookup(byName[tok])
		return id
	})
}

func TestReadTokenTable(t *testing.T) {
	m := sampleMap(t)

	table, err := ReadTokenTable(EncodeMap(m, testAtom, DefaultWriteOptions()), testAtom)
	require.NoError(t, err)
	require.Nil(t, table)

	table, err = ReadTokenTable(EncodeMap(m, testAtom, WriteOptions{Registry: NewRegistry(sampleNames...)}), testAtom)
	require.NoError(t, err)
	require.Len(t, table, len(sampleNames))
	require.Equal(t, "bridge", table[tokBridge])
}

func TestUnknownToken(t *testing.T) {
	m := sampleMap(t)
	data := EncodeMap(m, testAtom, DefaultWriteOptions())

	conv := TokenConversionMap{0: 0, 1: 1, tokRoad: tokRoad}
	got := pmwx.New(pmwx.DefaultOptions())
	err := ReadMap(data, got, testAtom, conv, DefaultReadOptions())

	var unknown *ErrUnknownToken
	require.True(t, errors.As(err, &unknown), "got %v", err)
	require.True(t, got.Empty(), "a failed read leaves the map empty")
}

func TestTokenConversionMap(t *testing.T) {
	var identityMap TokenConversionMap
	v, err := identityMap.Convert(42)
	require.NoError(t, err)
	require.Equal(t, 42, v)

	c := TokenConversionMap{1: 7}
	v, err = c.Convert(pmwx.NoValue)
	require.NoError(t, err)
	require.Equal(t, pmwx.NoValue, v)

	v, err = c.Convert(1)
	require.NoError(t, err)
	require.Equal(t, 7, v)

	_, err = c.Convert(2)
	require.Error(t, err)
}

func TestReadErrors(t *testing.T) {
	m := sampleMap(t)
	data := EncodeMap(m, testAtom, DefaultWriteOptions())
	outer, err := ParseContainer(data)
	require.NoError(t, err)
	inner, err := outer[0].Contents()
	require.NoError(t, err)
	mainAtom, ok := inner.Nth(MainMapID, 0)
	require.True(t, ok)

	wrap := func(atoms ...Atom) []byte {
		var body []byte
		for _, a := range atoms {
			body = appendAtom(body, a.ID, a.Data)
		}
		return appendAtom(nil, testAtom, body)
	}

	var mismatched writer
	mismatched.int(2)
	mismatched.int(2)
	mismatched.int(1)
	for _, v := range []float64{0, 0, 1, 0} {
		mismatched.double(v)
	}
	for _, he := range []struct {
		target int
		coords []float64
	}{{1, []float64{0, 0, 5, 5}}, {0, []float64{1, 0, 0, 0}}} {
		mismatched.int(he.target)
		for _, c := range he.coords {
			mismatched.double(c)
		}
		mismatched.int(0)
	}
	mismatched.int(0)
	mismatched.int(0)

	tests := []struct {
		name  string
		data  []byte
		check func(t *testing.T, err error)
	}{
		{"truncated container", data[:len(data)-10], func(t *testing.T, err error) {
			var e *ErrTruncatedAtom
			require.True(t, errors.As(err, &e), "got %v", err)
		}},
		{"truncated arrangement", wrap(Atom{ID: MainMapID, Data: mainAtom.Data[:40]}), func(t *testing.T, err error) {
			var e *ErrTruncatedAtom
			require.True(t, errors.As(err, &e), "got %v", err)
			require.Equal(t, MainMapID, e.ID)
		}},
		{"missing arrangement", wrap(Atom{ID: VertexDataID, Data: []byte{1, 0, 0, 0}}), func(t *testing.T, err error) {
			var e *ErrMissingAtom
			require.True(t, errors.As(err, &e), "got %v", err)
			require.Equal(t, MainMapID, e.ID)
		}},
		{"bad version", wrap(mainAtom, Atom{ID: VertexDataID, Data: []byte{9, 0, 0, 0}}), func(t *testing.T, err error) {
			var e *ErrBadVersion
			require.True(t, errors.As(err, &e), "got %v", err)
			require.Equal(t, int32(9), e.Version)
		}},
		{"curve mismatch", wrap(Atom{ID: MainMapID, Data: mismatched.buf}), func(t *testing.T, err error) {
			var e *ErrCorruptMap
			require.True(t, errors.As(err, &e), "got %v", err)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pmwx.New(pmwx.DefaultOptions())
			err := ReadMap(tt.data, got, testAtom, nil, DefaultReadOptions())
			require.Error(t, err)
			tt.check(t, err)
		})
	}

	t.Run("wrong atom id", func(t *testing.T) {
		_, err := Decode(data, MainMapID, nil, DefaultReadOptions())
		var e *ErrMissingAtom
		require.True(t, errors.As(err, &e), "got %v", err)
	})
}

func TestProgress(t *testing.T) {
	m := pmwx.New(pmwx.DefaultOptions())
	const n = 40
	for i := 0; i <= n; i++ {
		m.InsertEdge(pt(0, float64(i)), pt(n, float64(i)), nil)
	}
	for i := 0; i <= n; i++ {
		m.InsertEdge(pt(float64(i), 0), pt(float64(i), n), nil)
	}

	var fractions []float64
	record := func(stage, stageCount int, name string, fraction float64) {
		require.Equal(t, 0, stage)
		require.Equal(t, 1, stageCount)
		fractions = append(fractions, fraction)
	}

	data := EncodeMap(m, testAtom, WriteOptions{Progress: record})
	require.Greater(t, len(fractions), 2)
	require.Equal(t, 0.0, fractions[0])
	require.Equal(t, 1.0, fractions[len(fractions)-1])
	for i := 1; i < len(fractions); i++ {
		require.GreaterOrEqual(t, fractions[i], fractions[i-1])
	}

	fractions = nil
	opts := DefaultReadOptions()
	opts.Progress = record
	_, err := Decode(data, testAtom, nil, opts)
	require.NoError(t, err)
	require.Greater(t, len(fractions), 2)
	require.Equal(t, 1.0, fractions[len(fractions)-1])
}

func TestAtomName(t *testing.T) {
	require.Equal(t, "MAPi", AtomName(MainMapID))
	require.Equal(t, "Fac1", AtomName(FaceDataID))
	require.Equal(t, "0x00000001", AtomName(1))
}
