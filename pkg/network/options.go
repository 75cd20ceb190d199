package network

// Shape point reduction thresholds.
const (
	// ReduceShapeAngle is the cosine of the largest turn removed, 10 degrees.
	ReduceShapeAngle = 0.984807753012208
	// MaxCutDist is the longest segment, in metres, on either side of a shape
	// point that may be removed.
	MaxCutDist = 2000.0
)

// Vertical partition thresholds, in degrees, and the height step between
// levels.
const (
	ParallelTolerance = 10.0
	LayerTolerance    = 30.0
	LayerHeight       = 5.0
)

// OptimizeOptions configures OptimizeNetwork.
type OptimizeOptions struct {
	// WaterOnly limits merging to chains over water.
	WaterOnly bool
}

// DefaultOptimizeOptions returns options that merge everywhere.
func DefaultOptimizeOptions() OptimizeOptions {
	return OptimizeOptions{}
}
