package terrain

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/beetlebugorg/xestopo/internal/geom"
)

func pt(x, y float64) geom.Point2 { return geom.Point2{X: x, Y: y} }

func plane(p geom.Point2) float64 { return 2*p.X + 3*p.Y + 1 }

func TestGridMesh(t *testing.T) {
	m, err := NewGridMesh(geom.NewBbox2(0, 0, 3, 2), 3, 2, plane)
	require.NoError(t, err)
	require.Equal(t, 12, m.NumTriangles())
	require.True(t, geom.NewBbox2(0, 0, 3, 2).Equal(m.Bounds()), "bounds %v", m.Bounds().Envelope())

	_, err = NewGridMesh(geom.NewBbox2(0, 0, 1, 1), 0, 1, plane)
	var bad *ErrBadGrid
	require.True(t, errors.As(err, &bad))
}

func TestNewMeshRejectsBadTriangles(t *testing.T) {
	pts := []geom.Point3{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 1}}

	tests := []struct {
		name string
		tris [][3]int
	}{
		{"out of range", [][3]int{{0, 1, 4}}},
		{"negative", [][3]int{{-1, 1, 3}}},
		{"degenerate", [][3]int{{0, 1, 3}, {0, 1, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMesh(pts, tt.tris)
			var bad *ErrBadTriangle
			require.True(t, errors.As(err, &bad), "got %v", err)
		})
	}
}

func TestHeightAt(t *testing.T) {
	m, err := NewGridMesh(geom.NewBbox2(0, 0, 4, 4), 4, 4, plane)
	require.NoError(t, err)

	for _, p := range []geom.Point2{pt(0.5, 0.25), pt(1.25, 3.75), pt(2, 2), pt(4, 4), pt(0, 0), pt(3.9, 0.1)} {
		z, ok := m.HeightAt(p)
		require.True(t, ok, "%v", p)
		require.InDelta(t, plane(p), z, 1e-9, "%v", p)
	}

	z, ok := m.HeightAt(pt(5, 1))
	require.False(t, ok)
	require.Equal(t, 0.0, z)
}

func TestLocate(t *testing.T) {
	m, err := NewGridMesh(geom.NewBbox2(0, 0, 2, 1), 2, 1, plane)
	require.NoError(t, err)

	tri, ok := m.Locate(pt(0.75, 0.25))
	require.True(t, ok)
	require.Equal(t, 0, tri)

	tri, ok = m.Locate(pt(0.25, 0.75))
	require.True(t, ok)
	require.Equal(t, 1, tri)

	tri, ok = m.Locate(pt(1.75, 0.25))
	require.True(t, ok)
	require.Equal(t, 2, tri)

	// On the diagonal shared by triangles 0 and 1.
	tri, ok = m.Locate(pt(0.5, 0.5))
	require.True(t, ok)
	require.Equal(t, 0, tri)

	_, ok = m.Locate(pt(-0.1, 0.5))
	require.False(t, ok)
}

func TestMarch(t *testing.T) {
	m, err := NewGridMesh(geom.NewBbox2(0, 0, 3, 1), 3, 1, plane)
	require.NoError(t, err)

	t.Run("crossings", func(t *testing.T) {
		pts := m.March(pt(0.5, 0.25), pt(2.5, 0.25))
		// Vertical edges at x=1 and x=2, diagonals at x=1.25 and x=2.25.
		require.Len(t, pts, 6)
		wantX := []float64{0.5, 1, 1.25, 2, 2.25, 2.5}
		for i, p := range pts {
			require.InDelta(t, wantX[i], p.X, 1e-12)
			require.InDelta(t, 0.25, p.Y, 1e-12)
			require.InDelta(t, plane(p.XY()), p.Z, 1e-9)
		}
	})

	t.Run("reverse", func(t *testing.T) {
		fwd := m.March(pt(0.5, 0.25), pt(2.5, 0.25))
		rev := m.March(pt(2.5, 0.25), pt(0.5, 0.25))
		require.Len(t, rev, len(fwd))
		for i := range rev {
			require.InDelta(t, fwd[len(fwd)-1-i].X, rev[i].X, 1e-12)
		}
	})

	t.Run("diagonal walk", func(t *testing.T) {
		pts := m.March(pt(0.5, 0), pt(2.5, 1))
		// x=1, the diagonal of the middle cell at x=1.5, then x=2.
		require.Len(t, pts, 5)
		wantX := []float64{0.5, 1, 1.5, 2, 2.5}
		for i, p := range pts {
			require.InDelta(t, wantX[i], p.X, 1e-12)
			require.InDelta(t, plane(p.XY()), p.Z, 1e-9)
		}
	})

	t.Run("through a vertex", func(t *testing.T) {
		sq, err := NewGridMesh(geom.NewBbox2(0, 0, 2, 2), 2, 2, plane)
		require.NoError(t, err)
		pts := sq.March(pt(0.25, 0.75), pt(1.75, 1.25))
		require.Len(t, pts, 3)
		require.InDelta(t, 1.0, pts[1].X, 1e-12)
		require.InDelta(t, 1.0, pts[1].Y, 1e-12)
		require.InDelta(t, plane(pt(1, 1)), pts[1].Z, 1e-9)
	})

	t.Run("off mesh", func(t *testing.T) {
		pts := m.March(pt(-1, 0.5), pt(0.25, 0.5))
		require.Len(t, pts, 3)
		require.Equal(t, 0.0, pts[0].Z)
		require.InDelta(t, 0.0, pts[1].X, 1e-12)
		require.InDelta(t, plane(pt(0, 0.5)), pts[1].Z, 1e-9)
	})

	t.Run("single point", func(t *testing.T) {
		pts := m.March(pt(1.5, 0.5), pt(1.5, 0.5))
		require.Len(t, pts, 1)
	})
}

func BenchmarkHeightAt(b *testing.B) {
	m, err := NewGridMesh(geom.NewBbox2(0, 0, 100, 100), 100, 100, plane)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.HeightAt(pt(float64(i%100)+0.3, float64(i%97)+0.6))
	}
}
