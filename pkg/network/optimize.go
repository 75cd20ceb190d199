package network

import (
	"math"

	"github.com/plan-systems/klog"

	"github.com/beetlebugorg/xestopo/internal/geom"
)

// OptimizeNetwork merges pairs of chains that meet at a junction of degree 2
// into one chain, keeping the junction's location as a shape point. Two
// chains merge when they share representation type, export type and
// over-water state, neither is a loop, and their far junctions differ. The
// merged chain must run through the junction; a one-way chain is never
// reversed to achieve that.
//
// Passes repeat until nothing merges, then every junction left without
// chains is removed. It returns the number of merges.
func OptimizeNetwork(net *Network, reps RepTable, opts OptimizeOptions) int {
	merged := 0
	for {
		pass := 0
		for _, j := range net.Junctions() {
			if mergeAt(net, j, reps, opts) {
				pass++
			}
		}
		merged += pass
		if pass == 0 {
			break
		}
	}
	removed := net.sweepJunctions()

	chainsMerged.Add(float64(merged))
	klog.V(2).Infof("network: optimize merged %d chains, removed %d junctions", merged, removed)
	return merged
}

func mergeAt(net *Network, me *Junction, reps RepTable, opts OptimizeOptions) bool {
	if me.Degree() != 2 {
		return false
	}
	v := me.chains.Values()
	sc, ec := v[0].(*Chain), v[1].(*Chain)

	if opts.WaterOnly && !sc.OverWater {
		return false
	}
	if sc == ec || sc.RepType != ec.RepType || sc.ExportType != ec.ExportType ||
		sc.OverWater != ec.OverWater || sc.IsLoop() || ec.IsLoop() ||
		sc.OtherJunction(me) == ec.OtherJunction(me) {
		return false
	}

	// Arrange sc to flow into ec through me.
	if sc.Start == me && ec.End == me {
		sc, ec = ec, sc
	}
	if !reps.IsOneWay(sc.RepType) && sc.End != me {
		sc.Reverse()
	}
	if !reps.IsOneWay(ec.RepType) && ec.Start != me {
		ec.Reverse()
	}
	if sc.End != me || ec.Start != me {
		return false
	}

	ej := ec.End
	sc.Shape = append(append(sc.Shape, me.Location), ec.Shape...)
	sc.AGL = append(append(sc.AGL, me.AGL), ec.AGL...)
	sc.EndLayer = ec.EndLayer

	me.chains.Clear()
	ej.chains.Remove(ec)
	ej.chains.Add(sc)
	sc.End = ej
	net.chains.Remove(ec)
	return true
}

// NukeStraightShapePoints removes shape points where a chain turns by less
// than ten degrees, provided both segments touching the point are shorter
// than MaxCutDist. Coordinates are degrees of longitude and latitude. It
// returns the number of points removed.
func NukeStraightShapePoints(net *Network) int {
	removed := 0
	for _, c := range net.Chains() {
		for v := 0; v < len(c.Shape); {
			p1 := c.NthPoint(v).XY()
			p2 := c.Shape[v].XY()
			p3 := c.NthPoint(v + 2).XY()

			scale := geom.DegToMtrLat * math.Cos(p2.Y*math.Pi/180.0)
			v1 := geom.Vector2{DX: (p2.X - p1.X) * scale, DY: (p2.Y - p1.Y) * geom.DegToMtrLat}
			v2 := geom.Vector2{DX: (p3.X - p2.X) * scale, DY: (p3.Y - p2.Y) * geom.DegToMtrLat}
			d1 := math.Sqrt(v1.SquaredLength())
			d2 := math.Sqrt(v2.SquaredLength())

			if v1.Normalize().Dot(v2.Normalize()) > ReduceShapeAngle && d1 < MaxCutDist && d2 < MaxCutDist {
				c.Shape = append(c.Shape[:v], c.Shape[v+1:]...)
				c.AGL = append(c.AGL[:v], c.AGL[v+1:]...)
				removed++
			} else {
				v++
			}
		}
	}
	shapePointsNuked.Add(float64(removed))
	return removed
}
