package network

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/plan-systems/klog"

	"github.com/beetlebugorg/xestopo/internal/geom"
)

// indexedJunction files a junction in the R-tree.
type indexedJunction struct {
	j     *Junction
	order int
}

// Bounds implements rtreego.Spatial. Junctions are points, so the box gets a
// tiny extent.
func (ij *indexedJunction) Bounds() rtreego.Rect {
	const epsilon = 1e-12
	rect, _ := rtreego.NewRect(rtreego.Point{ij.j.Location.X, ij.j.Location.Y}, []float64{epsilon, epsilon})
	return rect
}

func indexJunctions(juncs []*Junction) (*rtreego.Rtree, []*indexedJunction) {
	tree := rtreego.NewTree(2, 25, 50)
	indexed := make([]*indexedJunction, len(juncs))
	for i, j := range juncs {
		indexed[i] = &indexedJunction{j: j, order: i}
		tree.Insert(indexed[i])
	}
	return tree, indexed
}

// NearestJunction returns the junction closest to p, or nil if net has none.
func NearestJunction(net *Network, p Point2) *Junction {
	juncs := net.Junctions()
	if len(juncs) == 0 {
		return nil
	}
	tree, _ := indexJunctions(juncs)
	s := tree.NearestNeighbor(rtreego.Point{p.X, p.Y})
	if s == nil {
		return nil
	}
	return s.(*indexedJunction).j
}

func withinBox(p1, p2 geom.Point3, d float64) bool {
	return math.Abs(p1.X-p2.X) <= d && math.Abs(p1.Y-p2.Y) <= d
}

type junctionPair struct {
	a, b   *Junction
	ai, bi int
	dist   float64
}

// MergeNearJunctions merges junctions that lie within dist of each other on
// both axes, closest pairs first. The survivor moves to the midpoint, chains
// between the two are dropped, and the other junction's chains move to the
// survivor. Passes repeat until nothing merges. It returns the number of
// junctions removed.
func MergeNearJunctions(net *Network, dist float64) int {
	klog.V(2).Infof("network: before merge: %d junctions, %d chains", net.NumJunctions(), net.NumChains())
	merged := 0
	for {
		pairs := nearPairs(net, dist)
		pass := 0
		for _, p := range pairs {
			if !net.HasJunction(p.a) || !net.HasJunction(p.b) || !withinBox(p.a.Location, p.b.Location, dist) {
				continue
			}
			mergeJunctions(net, p.a, p.b)
			pass++
		}
		merged += pass
		if pass == 0 {
			break
		}
		klog.V(2).Infof("network: after merge: %d junctions, %d chains", net.NumJunctions(), net.NumChains())
	}
	junctionsMerged.Add(float64(merged))
	return merged
}

// nearPairs lists every pair of junctions within dist, nearest first. Each
// pair appears once, with the earlier junction first.
func nearPairs(net *Network, dist float64) []junctionPair {
	juncs := net.Junctions()
	if len(juncs) < 2 {
		return nil
	}
	tree, indexed := indexJunctions(juncs)

	pad := dist + 1e-9
	var pairs []junctionPair
	for _, ij := range indexed {
		loc := ij.j.Location
		query, err := rtreego.NewRect(rtreego.Point{loc.X - pad, loc.Y - pad}, []float64{2 * pad, 2 * pad})
		if err != nil {
			continue
		}
		for _, s := range tree.SearchIntersect(query) {
			other := s.(*indexedJunction)
			if other.order <= ij.order || !withinBox(loc, other.j.Location, dist) {
				continue
			}
			pairs = append(pairs, junctionPair{
				a:    ij.j,
				b:    other.j,
				ai:   ij.order,
				bi:   other.order,
				dist: loc.XY().SquaredDistance(other.j.Location.XY()),
			})
		}
	}
	sort.Slice(pairs, func(i, k int) bool {
		p, q := pairs[i], pairs[k]
		if p.dist != q.dist {
			return p.dist < q.dist
		}
		if p.ai != q.ai {
			return p.ai < q.ai
		}
		return p.bi < q.bi
	})
	return pairs
}

func mergeJunctions(net *Network, a, b *Junction) {
	for _, c := range a.Chains() {
		if c.OtherJunction(a) == b {
			net.RemoveChain(c)
		}
	}
	a.Location = geom.Point3{
		X: (a.Location.X + b.Location.X) * 0.5,
		Y: (a.Location.Y + b.Location.Y) * 0.5,
		Z: (a.Location.Z + b.Location.Z) * 0.5,
	}
	for _, c := range b.Chains() {
		migrate(c, b, a)
	}
	net.RemoveJunction(b)
}
