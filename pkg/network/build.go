package network

import (
	"github.com/plan-systems/klog"

	"github.com/beetlebugorg/xestopo/pkg/pmwx"
)

// BuildNetworkTopology extracts the road and rail network carried by the
// dominant half-edges of m. Each network segment with a representation type
// becomes a chain oriented like its half-edge, between junctions at the
// half-edge's end vertices. The result is optimized once and has its nearly
// straight shape points removed.
//
// The network copies what it needs; m may change afterwards.
func BuildNetworkTopology(m *pmwx.Pmwx, reps RepTable) *Network {
	net := New()
	junctions := make(map[pmwx.VertexID]*Junction)
	junctionAt := func(v pmwx.VertexID) *Junction {
		j, ok := junctions[v]
		if !ok {
			j = net.AddJunction(m.Point(v).Lift(0))
			junctions[v] = j
		}
		return j
	}

	built := 0
	for _, h := range m.DominantHalfedges() {
		segs := m.EdgeData(h).Segments
		if len(segs) == 0 {
			continue
		}
		overWater := m.IsWater(m.Face(h)) && m.IsWater(m.Face(m.Twin(h)))
		for _, s := range segs {
			if s.RepType == pmwx.NoValue {
				continue
			}
			c := net.AddChain(junctionAt(m.Source(h)), junctionAt(m.Target(h)), s.RepType)
			c.OverWater = overWater
			c.StartLayer = int(s.SourceHeight)
			c.EndLayer = int(s.TargetHeight)
			built++
		}
	}
	chainsBuilt.Add(float64(built))
	klog.V(2).Infof("network: built %d junctions, %d chains", net.NumJunctions(), net.NumChains())

	OptimizeNetwork(net, reps, DefaultOptimizeOptions())
	NukeStraightShapePoints(net)
	return net
}
