package network

import (
	"fmt"

	"github.com/plan-systems/klog"

	"github.com/beetlebugorg/xestopo/pkg/pmwx"
)

// ValidateNetworkTopology checks that junctions and chains refer to each
// other consistently. Every problem found is logged and returned; nothing is
// repaired.
func ValidateNetworkTopology(net *Network) []string {
	var problems []string
	report := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		klog.Errorf("network: validation: %s", msg)
		problems = append(problems, msg)
	}

	for ji, j := range net.Junctions() {
		for _, c := range j.Chains() {
			if c.Start != j && c.End != j {
				report("junction %d has a chain not pointing back at the junction", ji)
			}
			if !net.HasChain(c) {
				report("junction %d has a chain missing from the network", ji)
			}
		}
	}
	for ci, c := range net.Chains() {
		for _, end := range []*Junction{c.Start, c.End} {
			switch {
			case end == nil:
				report("chain %d has no junction at one end", ci)
			case !end.HasChain(c):
				report("chain %d refers to a junction not pointing back at the chain", ci)
			case !net.HasJunction(end):
				report("chain %d refers to a junction missing from the network", ci)
			}
		}
		if len(c.AGL) != len(c.Shape) {
			report("chain %d has %d shape points but %d heights", ci, len(c.Shape), len(c.AGL))
		}
	}

	validationProblems.Add(float64(len(problems)))
	return problems
}

// Counts summarizes the size of a network.
type Counts struct {
	Junctions int
	Chains    int
	// Segs is the number of straight segments over all chains.
	Segs int
}

func (c Counts) String() string {
	return fmt.Sprintf("Junctions: %d, Chains: %d, Segs: %d", c.Junctions, c.Chains, c.Segs)
}

// CountNetwork returns the size of net.
func CountNetwork(net *Network) Counts {
	counts := Counts{Junctions: net.NumJunctions(), Chains: net.NumChains()}
	for _, c := range net.Chains() {
		counts.Segs += 1 + len(c.Shape)
	}
	klog.V(2).Infof("network: %v", counts)
	return counts
}

// AssignExportTypes gives every chain without an export type the one its
// representation type exports as.
func AssignExportTypes(net *Network, reps RepTable) {
	for _, c := range net.Chains() {
		if c.ExportType != pmwx.NoValue {
			continue
		}
		if info, ok := reps[c.RepType]; ok {
			c.ExportType = info.ExportType
		}
	}
}

// DeleteBlankChains removes chains with no export type and then any junction
// left without chains. It returns the number of chains removed.
func DeleteBlankChains(net *Network) int {
	removed := 0
	for _, c := range net.Chains() {
		if c.ExportType == pmwx.NoValue {
			net.RemoveChain(c)
			removed++
		}
	}
	net.sweepJunctions()
	return removed
}

// CleanupNetworkTopology empties net and breaks every reference between its
// junctions and chains.
func CleanupNetworkTopology(net *Network) {
	for _, c := range net.Chains() {
		c.Start, c.End = nil, nil
		c.Shape, c.AGL = nil, nil
	}
	for _, j := range net.Junctions() {
		j.chains.Clear()
	}
	net.chains.Clear()
	net.junctions.Clear()
}
