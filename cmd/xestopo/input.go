package main

import (
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"

	"github.com/beetlebugorg/xestopo/internal/geom"
	"github.com/beetlebugorg/xestopo/pkg/mapio"
	"github.com/beetlebugorg/xestopo/pkg/network"
	"github.com/beetlebugorg/xestopo/pkg/pmwx"
)

// terrainNames are registered first so their ids match the pmwx terrain
// constants.
var terrainNames = []string{
	pmwx.TerrainNatural: "natural",
	pmwx.TerrainWater:   "water",
}

// input is the JSON document the CLI reads.
type input struct {
	Reps  []repSpec  `json:"reps"`
	Tiles []tileSpec `json:"tiles"`
}

type repSpec struct {
	Name          string `json:"name"`
	OneWay        bool   `json:"one_way"`
	LimitedAccess bool   `json:"limited_access"`
	Power         bool   `json:"power"`
	// Export defaults to Name.
	Export string `json:"export"`
}

type tileSpec struct {
	Name string `json:"name"`
	// Bounds is west, south, east, north in degrees.
	Bounds  [4]float64 `json:"bounds"`
	Terrain *gridSpec  `json:"terrain,omitempty"`
	Areas   []areaSpec `json:"areas"`
	Roads   []roadSpec `json:"roads"`
}

func (t tileSpec) TileName() string { return t.Name }

func (t tileSpec) bbox() geom.Bbox2 {
	return geom.NewBbox2(t.Bounds[0], t.Bounds[1], t.Bounds[2], t.Bounds[3])
}

// gridSpec is a regular height grid over the tile. Heights has
// (Cols+1)*(Rows+1) samples, row by row from the south west corner.
type gridSpec struct {
	Cols    int       `json:"cols"`
	Rows    int       `json:"rows"`
	Heights []float64 `json:"heights"`
}

type areaSpec struct {
	Terrain string       `json:"terrain"`
	Ring    [][2]float64 `json:"ring"`
}

type roadSpec struct {
	Rep    string       `json:"rep"`
	Points [][2]float64 `json:"points"`
	// Level is the road's vertical layer; bridges are above 0.
	Level float64 `json:"level"`
}

func readInput(path string) (input, error) {
	var r io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return input{}, errors.Wrap(err, "opening input")
		}
		defer f.Close()
		r = f
	}
	return decodeInput(r)
}

func decodeInput(r io.Reader) (input, error) {
	var in input
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return input{}, errors.Wrap(err, "decoding input")
	}

	seen := make(map[string]bool, len(in.Tiles))
	for i, t := range in.Tiles {
		if t.Name == "" {
			return input{}, errors.Errorf("tile %d has no name", i)
		}
		if seen[t.Name] {
			return input{}, errors.Errorf("tile %q appears twice", t.Name)
		}
		seen[t.Name] = true
		if b := t.bbox(); !(b.Width() > 0 && b.Height() > 0) {
			return input{}, errors.Errorf("tile %q has empty bounds", t.Name)
		}
	}
	return in, nil
}

// repTable registers every rep and export name with reg and returns the
// table keyed by rep token.
func (in input) repTable(reg *mapio.Registry) (network.RepTable, error) {
	reps := make(network.RepTable, len(in.Reps))
	for _, r := range in.Reps {
		if r.Name == "" {
			return nil, errors.New("rep without a name")
		}
		id := reg.Register(r.Name)
		if _, dup := reps[id]; dup {
			return nil, errors.Errorf("rep %q defined twice", r.Name)
		}
		export := r.Export
		if export == "" {
			export = r.Name
		}
		reps[id] = network.RepInfo{
			Name:          r.Name,
			OneWay:        r.OneWay,
			LimitedAccess: r.LimitedAccess,
			ExportType:    reg.Register(export),
			Power:         r.Power,
		}
	}
	return reps, nil
}

func toPoints(in [][2]float64) []geom.Point2 {
	pts := make([]geom.Point2, 0, len(in))
	for _, p := range in {
		pt := geom.Point2{X: p[0], Y: p[1]}
		if len(pts) > 0 && pts[len(pts)-1] == pt {
			continue
		}
		pts = append(pts, pt)
	}
	return pts
}

// heightFn returns the grid sample nearest to each point. The mesh only asks
// at grid vertices, where this is exact.
func (g *gridSpec) heightFn(b geom.Bbox2) (func(geom.Point2) float64, error) {
	if g.Cols < 1 || g.Rows < 1 {
		return nil, errors.Errorf("terrain grid is %dx%d", g.Cols, g.Rows)
	}
	if want := (g.Cols + 1) * (g.Rows + 1); len(g.Heights) != want {
		return nil, errors.Errorf("terrain grid needs %d heights, has %d", want, len(g.Heights))
	}
	dx := b.Width() / float64(g.Cols)
	dy := b.Height() / float64(g.Rows)
	clamp := func(v float64, hi int) int {
		i := int(math.Round(v))
		return max(0, min(i, hi))
	}
	lo := b.Min()
	return func(p geom.Point2) float64 {
		i := clamp((p.X-lo.X)/dx, g.Cols)
		j := clamp((p.Y-lo.Y)/dy, g.Rows)
		return g.Heights[j*(g.Cols+1)+i]
	}, nil
}
