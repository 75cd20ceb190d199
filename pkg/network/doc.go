// Package network derives a junction and chain graph from the road and rail
// segments carried by a planar map.
//
// # Building
//
// BuildNetworkTopology makes a chain for every network segment on a map edge
// and a junction at every vertex such a chain touches. The raw result has one
// chain per map edge, so it is optimized straight away: chains meeting
// end-to-end at a junction of degree 2 are merged, and shape points that
// barely bend are removed.
//
// # Later passes
//
// The export pipeline then runs, in roughly this order:
//
//	MergeNearJunctions      collapse junctions closer than a tolerance
//	DrapeRoads              follow the terrain mesh
//	PromoteShapePoints      optionally make every land shape point a junction
//	VerticalPartitionRoads  separate grade-separated crossings
//	AssignExportTypes       map representation types to export types
//	DeleteBlankChains       drop chains that export as nothing
//
// DrapeRoadsWhere drapes a subset of chains; RepTable.PowerLines selects the
// power lines.
//
// ValidateNetworkTopology can be run between passes; it reports problems
// without fixing them.
//
// A Network is owned by one goroutine. It holds no references into the map it
// was built from.
package network
