package network

import (
	"github.com/plan-systems/klog"

	"github.com/beetlebugorg/xestopo/internal/geom"
)

// Terrain walks the ground between two points, returning the start, every
// point where the ground's slope changes, and the end, each with its height.
// *terrain.Mesh implements it.
type Terrain interface {
	March(from, to geom.Point2) []geom.Point3
}

// DrapeRoads lays every chain on the ground. Each segment is walked over the
// terrain and every slope change becomes a shape point, so the chain follows
// the ground exactly. Junctions take the ground height at their location and
// every point ends up with zero AGL. It returns the number of points added.
func DrapeRoads(net *Network, ground Terrain) int {
	return DrapeRoadsWhere(net, ground, nil)
}

// DrapeRoadsWhere is DrapeRoads limited to the chains keep accepts. A nil
// keep drapes everything.
func DrapeRoadsWhere(net *Network, ground Terrain, keep func(*Chain) bool) int {
	added := 0
	for _, c := range net.Chains() {
		if keep != nil && !keep(c) {
			continue
		}
		before := len(c.Shape)
		var all []geom.Point3
		for n := 0; n+1 < c.PointCount(); n++ {
			walk := ground.March(c.NthPoint(n).XY(), c.NthPoint(n+1).XY())
			if len(all) > 0 && len(walk) > 0 {
				walk = walk[1:]
			}
			all = append(all, walk...)
		}
		if len(all) < 2 {
			// A chain whose ends coincide walks to a single point.
			all = append(all, all...)
		}

		c.Start.Location = all[0]
		c.End.Location = all[len(all)-1]
		c.Start.AGL = 0
		c.End.AGL = 0
		c.Shape = append(c.Shape[:0], all[1:len(all)-1]...)
		c.AGL = make([]float64, len(c.Shape))
		added += len(c.Shape) - before
	}

	drapePoints.Add(float64(added))
	klog.V(2).Infof("network: drape added %d shape points", added)
	return added
}
