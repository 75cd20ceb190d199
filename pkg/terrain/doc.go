// Package terrain holds a triangulated height field used to drape network
// chains over the ground.
//
// Triangles are filed in an R-tree so point location and line walks only
// look at the triangles near the query.
package terrain
