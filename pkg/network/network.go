package network

import (
	"math"
	"slices"

	"github.com/emirpasic/gods/sets/linkedhashset"

	"github.com/beetlebugorg/xestopo/internal/geom"
	"github.com/beetlebugorg/xestopo/pkg/pmwx"
)

// Coordinate types of the network, re-exported for callers outside this
// module.
type (
	Point2 = geom.Point2
	Point3 = geom.Point3
)

// Junction is a node of the network graph: a point where chains meet.
type Junction struct {
	Location Point3
	// AGL is the junction's height above the ground.
	AGL float64

	chains *linkedhashset.Set
}

func newJunction(loc Point3) *Junction {
	return &Junction{Location: loc, chains: linkedhashset.New()}
}

// Chains returns the chains meeting at j in the order they were attached.
func (j *Junction) Chains() []*Chain {
	out := make([]*Chain, 0, j.chains.Size())
	for _, v := range j.chains.Values() {
		out = append(out, v.(*Chain))
	}
	return out
}

// Degree returns the number of chains meeting at j. A loop counts once.
func (j *Junction) Degree() int { return j.chains.Size() }

// HasChain reports whether c is attached to j.
func (j *Junction) HasChain(c *Chain) bool { return j.chains.Contains(c) }

// OtherChain returns the chain at a degree-2 junction that is not c, or nil
// if j does not have exactly two chains or c is not one of them.
func (j *Junction) OtherChain(c *Chain) *Chain {
	if j.chains.Size() != 2 {
		return nil
	}
	v := j.chains.Values()
	one, two := v[0].(*Chain), v[1].(*Chain)
	switch c {
	case one:
		return two
	case two:
		return one
	}
	return nil
}

// LayerFor returns the layer c has at j.
func (j *Junction) LayerFor(c *Chain) int {
	if c.Start == j {
		return c.StartLayer
	}
	return c.EndLayer
}

// SetLayerFor sets the layer c has at j.
func (j *Junction) SetLayerFor(c *Chain, l int) {
	if c.Start == j {
		c.StartLayer = l
	}
	if c.End == j {
		c.EndLayer = l
	}
}

// Chain is an edge of the network graph: a polyline between two junctions
// carrying one representation type. Shape holds the interior points only.
type Chain struct {
	Start, End *Junction
	Shape      []Point3
	// AGL is the height above ground of each shape point.
	AGL []float64

	RepType    int
	ExportType int
	OverWater  bool
	StartLayer int
	EndLayer   int
}

// Reverse flips the chain's direction.
func (c *Chain) Reverse() {
	c.Start, c.End = c.End, c.Start
	c.StartLayer, c.EndLayer = c.EndLayer, c.StartLayer
	slices.Reverse(c.Shape)
	slices.Reverse(c.AGL)
}

// IsLoop reports whether the chain starts and ends at the same junction.
func (c *Chain) IsLoop() bool { return c.Start == c.End }

// OtherJunction returns the end of c that is not j.
func (c *Chain) OtherJunction(j *Junction) *Junction {
	if j == c.Start {
		return c.End
	}
	return c.Start
}

// PointCount returns the number of points including both junctions.
func (c *Chain) PointCount() int { return len(c.Shape) + 2 }

// NthPoint returns point n of the chain, counting the start junction as 0.
func (c *Chain) NthPoint(n int) Point3 {
	if n <= 0 {
		return c.Start.Location
	}
	if n > len(c.Shape) {
		return c.End.Location
	}
	return c.Shape[n-1]
}

// NthAGL returns the height above ground of point n.
func (c *Chain) NthAGL(n int) float64 {
	if n <= 0 {
		return c.Start.AGL
	}
	if n > len(c.Shape) {
		return c.End.AGL
	}
	return c.AGL[n-1]
}

// Meters returns the ground length of the chain between points from and to,
// treating coordinates as degrees of longitude and latitude.
func (c *Chain) Meters(from, to int) float64 {
	var total float64
	for n := from; n < to; n++ {
		v := geom.MetricVector(c.NthPoint(n).XY(), c.NthPoint(n+1).XY())
		total += math.Sqrt(v.SquaredLength())
	}
	return total
}

// Length returns the ground length of the whole chain in metres.
func (c *Chain) Length() float64 { return c.Meters(0, c.PointCount()-1) }

// departure returns the direction c leaves j in.
func (c *Chain) departure(j *Junction) geom.Vector2 {
	if c.Start == j {
		return geom.NewVector(c.NthPoint(0).XY(), c.NthPoint(1).XY())
	}
	n := c.PointCount()
	return geom.NewVector(c.NthPoint(n-1).XY(), c.NthPoint(n-2).XY())
}

// Network is a graph of junctions and chains. Iteration follows insertion
// order. A Network is not safe for concurrent use.
type Network struct {
	junctions *linkedhashset.Set
	chains    *linkedhashset.Set
}

// New returns an empty network.
func New() *Network {
	return &Network{junctions: linkedhashset.New(), chains: linkedhashset.New()}
}

// AddJunction adds a junction with no chains.
func (n *Network) AddJunction(loc Point3) *Junction {
	j := newJunction(loc)
	n.junctions.Add(j)
	return j
}

// AddChain adds a straight chain from start to end and attaches it to both.
func (n *Network) AddChain(start, end *Junction, repType int) *Chain {
	c := &Chain{Start: start, End: end, RepType: repType, ExportType: pmwx.NoValue}
	start.chains.Add(c)
	end.chains.Add(c)
	n.chains.Add(c)
	return c
}

// RemoveChain detaches c from its junctions and drops it.
func (n *Network) RemoveChain(c *Chain) {
	if c.Start != nil {
		c.Start.chains.Remove(c)
	}
	if c.End != nil {
		c.End.chains.Remove(c)
	}
	n.chains.Remove(c)
}

// RemoveJunction drops j. Its chains must already be gone.
func (n *Network) RemoveJunction(j *Junction) { n.junctions.Remove(j) }

// HasJunction reports whether j belongs to n.
func (n *Network) HasJunction(j *Junction) bool { return n.junctions.Contains(j) }

// HasChain reports whether c belongs to n.
func (n *Network) HasChain(c *Chain) bool { return n.chains.Contains(c) }

func (n *Network) NumJunctions() int { return n.junctions.Size() }
func (n *Network) NumChains() int    { return n.chains.Size() }

// Junctions returns every junction in insertion order.
func (n *Network) Junctions() []*Junction {
	out := make([]*Junction, 0, n.junctions.Size())
	for _, v := range n.junctions.Values() {
		out = append(out, v.(*Junction))
	}
	return out
}

// Chains returns every chain in insertion order.
func (n *Network) Chains() []*Chain {
	out := make([]*Chain, 0, n.chains.Size())
	for _, v := range n.chains.Values() {
		out = append(out, v.(*Chain))
	}
	return out
}

// migrate moves the ends of c at from over to to.
func migrate(c *Chain, from, to *Junction) {
	from.chains.Remove(c)
	to.chains.Add(c)
	if c.Start == from {
		c.Start = to
	}
	if c.End == from {
		c.End = to
	}
}

// sweepJunctions drops every junction without chains and returns how many.
func (n *Network) sweepJunctions() int {
	removed := 0
	for _, j := range n.Junctions() {
		if j.Degree() == 0 {
			n.junctions.Remove(j)
			removed++
		}
	}
	return removed
}
