package network

import (
	"math"
	"sort"

	"github.com/plan-systems/klog"

	"github.com/beetlebugorg/xestopo/internal/geom"
)

// layer is a group of chains that share a level at a junction.
type layer struct {
	chains  []*Chain
	dirs    []geom.Vector2
	surface bool
}

// directionDeviation returns the angle in degrees between two directions,
// from 0 (same way) to 180 (opposite).
func directionDeviation(a, b geom.Vector2) float64 {
	d := math.Abs(a.Angle()-b.Angle()) * 180 / math.Pi
	if d > 180 {
		d = 360 - d
	}
	return d
}

// lineDeviation is the acute angle between the lines through two directions.
func lineDeviation(a, b geom.Vector2) float64 {
	d := directionDeviation(a, b)
	return math.Min(d, 180-d)
}

// fit returns how far a chain leaving in dir deviates from the closest member
// of l it may share a level with.
func (l *layer) fit(c *Chain, dir geom.Vector2, reps RepTable) (float64, bool) {
	la := reps.IsLimitedAccess(c.RepType)
	best, ok := math.Inf(1), false
	for i, m := range l.chains {
		dev := lineDeviation(dir, l.dirs[i])
		switch mla := reps.IsLimitedAccess(m.RepType); {
		case la != mla:
			// A ramp joins a highway running alongside it.
			if directionDeviation(dir, l.dirs[i]) > ParallelTolerance {
				continue
			}
		case la:
			if dev > LayerTolerance {
				continue
			}
		}
		if dev < best {
			best, ok = dev, true
		}
	}
	return best, ok
}

// VerticalPartitionRoads splits junctions where roads cross at different
// levels. At each junction with more than two chains the chains are grouped
// into layers: limited access chains first, then the rest, each in order of
// departure angle, join the layer they fit best or start a new one. Surface
// roads always share a level. Limited access roads share a level with each
// other when their lines are within LayerTolerance, and with surface roads
// only when leaving in nearly the same direction.
//
// The first layer holding a surface road keeps the junction. Every further
// layer k moves its chains to a new junction at the same place, LayerHeight*k
// higher. It returns the number of junctions added.
func VerticalPartitionRoads(net *Network, reps RepTable) int {
	added := 0
	for _, j := range net.Junctions() {
		if j.Degree() <= 2 {
			continue
		}

		type departing struct {
			c     *Chain
			dir   geom.Vector2
			la    bool
			angle float64
		}
		var ds []departing
		for _, c := range j.Chains() {
			dir := c.departure(j)
			a := dir.Angle()
			if a < 0 {
				a += 2 * math.Pi
			}
			ds = append(ds, departing{c: c, dir: dir, la: reps.IsLimitedAccess(c.RepType), angle: a})
		}
		sort.SliceStable(ds, func(a, b int) bool {
			if ds[a].la != ds[b].la {
				return ds[a].la
			}
			return ds[a].angle < ds[b].angle
		})

		var layers []*layer
		for _, d := range ds {
			best, bestDev := -1, math.Inf(1)
			for i, l := range layers {
				if dev, ok := l.fit(d.c, d.dir, reps); ok && dev < bestDev {
					best, bestDev = i, dev
				}
			}
			if best < 0 {
				layers = append(layers, &layer{})
				best = len(layers) - 1
			}
			l := layers[best]
			l.chains = append(l.chains, d.c)
			l.dirs = append(l.dirs, d.dir)
			l.surface = l.surface || !d.la
		}
		sort.SliceStable(layers, func(a, b int) bool { return layers[a].surface && !layers[b].surface })

		for k := 1; k < len(layers); k++ {
			nj := net.AddJunction(j.Location)
			nj.Location.Z += LayerHeight * float64(k)
			nj.AGL = j.AGL + LayerHeight*float64(k)
			for _, c := range layers[k].chains {
				migrate(c, j, nj)
				nj.SetLayerFor(c, k)
			}
			added++
		}
	}

	junctionsSynthesized.Add(float64(added))
	klog.V(2).Infof("network: vertical partition added %d junctions", added)
	return added
}
