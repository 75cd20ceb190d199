package main

import (
	"context"
	"slices"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/beetlebugorg/xestopo/internal/geom"
	"github.com/beetlebugorg/xestopo/pkg/mapio"
	"github.com/beetlebugorg/xestopo/pkg/network"
	"github.com/beetlebugorg/xestopo/pkg/pmwx"
	"github.com/beetlebugorg/xestopo/pkg/terrain"
)

// processor runs the per-tile pipeline. Everything it holds is safe to share
// between workers; everything a tile builds stays with that tile.
type processor struct {
	store     *mapio.Store
	reg       *mapio.Registry
	reps      network.RepTable
	mergeDist float64

	drapePower bool
	promote    bool
	checkGeom  bool
}

type tileOutput struct {
	Tile      string           `json:"tile"`
	Counts    countsOutput     `json:"counts"`
	Junctions []junctionOutput `json:"junctions"`
	Chains    []chainOutput    `json:"chains"`
	Problems  []string         `json:"problems,omitempty"`
}

type countsOutput struct {
	Junctions int `json:"junctions"`
	Chains    int `json:"chains"`
	Segs      int `json:"segs"`
}

type junctionOutput struct {
	Location [3]float64 `json:"location"`
	AGL      float64    `json:"agl"`
}

type chainOutput struct {
	Start      int          `json:"start"`
	End        int          `json:"end"`
	Rep        string       `json:"rep"`
	Export     string       `json:"export"`
	OverWater  bool         `json:"over_water,omitempty"`
	StartLayer int          `json:"start_layer"`
	EndLayer   int          `json:"end_layer"`
	Shape      [][3]float64 `json:"shape,omitempty"`
	AGL        []float64    `json:"agl,omitempty"`
}

func (p *processor) processTile(ctx context.Context, t tileSpec) (tileOutput, error) {
	m, err := p.buildMap(t)
	if err != nil {
		return tileOutput{}, err
	}
	if err := m.Validate(); err != nil {
		return tileOutput{}, errors.Wrap(err, "validating map")
	}
	if err := p.store.Put(t.Name, m); err != nil {
		return tileOutput{}, err
	}

	var mesh *terrain.Mesh
	if t.Terrain != nil {
		heightFn, err := t.Terrain.heightFn(t.bbox())
		if err != nil {
			return tileOutput{}, err
		}
		if mesh, err = terrain.NewGridMesh(t.bbox(), t.Terrain.Cols, t.Terrain.Rows, heightFn); err != nil {
			return tileOutput{}, errors.Wrap(err, "building terrain")
		}
	}
	if err := ctx.Err(); err != nil {
		return tileOutput{}, err
	}

	net := network.BuildNetworkTopology(m, p.reps)
	defer network.CleanupNetworkTopology(net)

	if p.mergeDist > 0 {
		network.MergeNearJunctions(net, p.mergeDist)
	}
	if mesh != nil {
		var keep func(*network.Chain) bool
		if p.drapePower {
			keep = p.reps.PowerLines()
		}
		network.DrapeRoadsWhere(net, mesh, keep)
	}
	if p.promote {
		network.PromoteShapePoints(net)
	}
	network.VerticalPartitionRoads(net, p.reps)
	network.AssignExportTypes(net, p.reps)
	if n := network.DeleteBlankChains(net); n > 0 {
		klog.Warningf("tile %s: dropped %d chains with no export type", t.Name, n)
	}

	out := p.export(t.Name, net)
	out.Problems = network.ValidateNetworkTopology(net)
	return out, nil
}

// buildMap lays the tile's areas and roads into a new map. The tile bounds
// become a natural face so only areas marked water, or land outside the
// tile, count as water.
func (p *processor) buildMap(t tileSpec) (*pmwx.Pmwx, error) {
	opts := pmwx.DefaultOptions()
	opts.CheckGeometry = p.checkGeom
	m := pmwx.New(opts)
	b := t.bbox()
	lo, hi := b.Min(), b.Max()
	bounds := []geom.Point2{
		{X: lo.X, Y: lo.Y},
		{X: hi.X, Y: lo.Y},
		{X: hi.X, Y: hi.Y},
		{X: lo.X, Y: hi.Y},
	}
	m.InsertRing(pmwx.Unbounded, bounds)

	for i, a := range t.Areas {
		ring := toPoints(a.Ring)
		if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
			ring = ring[:len(ring)-1]
		}
		area, err := geom.RingArea(ring)
		if err != nil {
			return nil, errors.Wrapf(err, "area %d", i)
		}
		for _, pt := range ring {
			in, err := geom.RingContains(bounds, pt)
			if err != nil {
				return nil, errors.Wrapf(err, "area %d", i)
			}
			if !in {
				return nil, errors.Errorf("area %d: point %v is outside the tile", i, pt)
			}
		}
		if area < 0 {
			slices.Reverse(ring)
		}
		var inside []pmwx.HalfedgeID
		for k := range ring {
			inside = append(inside, insertPath(m, ring[k], ring[(k+1)%len(ring)])...)
		}
		// The ring runs counter-clockwise, so its inside is on the left of
		// every piece.
		terrainType := p.reg.Register(a.Terrain)
		for _, h := range inside {
			m.FaceData(m.Face(h)).TerrainType = terrainType
		}
	}

	for i, r := range t.Roads {
		rep, ok := p.reg.Lookup(r.Rep)
		if !ok {
			return nil, errors.Errorf("road %d: unknown rep %q", i, r.Rep)
		}
		pts := toPoints(r.Points)
		if len(pts) < 2 {
			return nil, errors.Errorf("road %d: needs at least 2 points", i)
		}
		for k := 1; k < len(pts); k++ {
			for _, h := range insertPath(m, pts[k-1], pts[k]) {
				d := m.EdgeData(m.Dominant(h))
				d.Segments = append(d.Segments, pmwx.NetworkSegment{
					FeatType:     rep,
					RepType:      rep,
					SourceHeight: r.Level,
					TargetHeight: r.Level,
				})
			}
		}
	}
	if n := m.DedupSegments(); n > 0 {
		klog.V(2).Infof("tile %s: %d repeated road segments", t.Name, n)
	}
	return m, nil
}

// insertPath inserts p1-p2 and returns the half-edges of the inserted path,
// each running from p1 towards p2.
func insertPath(m *pmwx.Pmwx, p1, p2 geom.Point2) []pmwx.HalfedgeID {
	var path []pmwx.HalfedgeID
	m.InsertEdge(p1, p2, func(old, added pmwx.HalfedgeID) {
		switch {
		case old == pmwx.NoHalfedge:
			path = append(path, added)
		case added == pmwx.NoHalfedge:
			path = append(path, old)
		}
	})
	return path
}

func (p *processor) export(name string, net *network.Network) tileOutput {
	counts := network.CountNetwork(net)
	out := tileOutput{
		Tile: name,
		Counts: countsOutput{
			Junctions: counts.Junctions,
			Chains:    counts.Chains,
			Segs:      counts.Segs,
		},
	}

	index := make(map[*network.Junction]int, net.NumJunctions())
	for i, j := range net.Junctions() {
		index[j] = i
		out.Junctions = append(out.Junctions, junctionOutput{
			Location: [3]float64{j.Location.X, j.Location.Y, j.Location.Z},
			AGL:      j.AGL,
		})
	}
	for _, c := range net.Chains() {
		rep, _ := p.reg.Name(c.RepType)
		export, _ := p.reg.Name(c.ExportType)
		co := chainOutput{
			Start:      index[c.Start],
			End:        index[c.End],
			Rep:        rep,
			Export:     export,
			OverWater:  c.OverWater,
			StartLayer: c.StartLayer,
			EndLayer:   c.EndLayer,
			AGL:        slices.Clone(c.AGL),
		}
		for _, s := range c.Shape {
			co.Shape = append(co.Shape, [3]float64{s.X, s.Y, s.Z})
		}
		out.Chains = append(out.Chains, co)
	}
	return out
}
