package network

import "github.com/plan-systems/klog"

// PromoteShapePoints turns every shape point of a chain on land into a
// junction, so each chain becomes a run of straight pieces. The pieces keep
// the chain's rep, export type and water flag, and each new junction takes
// the height above ground of the point it replaces. Pieces cut from the far
// end take the chain's end layer at both ends. Chains over water are left
// alone. It returns the number of junctions added.
func PromoteShapePoints(net *Network) int {
	klog.V(2).Infof("network: before promote: %d junctions, %d chains", net.NumJunctions(), net.NumChains())
	added := 0
	for _, c := range net.Chains() {
		if c.OverWater {
			continue
		}
		for len(c.Shape) > 0 {
			last := len(c.Shape) - 1
			j := net.AddJunction(c.Shape[last])
			if last < len(c.AGL) {
				j.AGL = c.AGL[last]
			}

			piece := net.AddChain(j, c.End, c.RepType)
			piece.ExportType = c.ExportType
			piece.OverWater = c.OverWater
			piece.StartLayer = c.EndLayer
			piece.EndLayer = c.EndLayer

			// A loop still needs its start junction.
			if !c.IsLoop() {
				c.End.chains.Remove(c)
			}
			c.End = j
			j.chains.Add(c)

			c.Shape = c.Shape[:last]
			if last < len(c.AGL) {
				c.AGL = c.AGL[:last]
			}
			added++
		}
	}
	junctionsPromoted.Add(float64(added))
	klog.V(2).Infof("network: after promote: %d junctions, %d chains", net.NumJunctions(), net.NumChains())
	return added
}
