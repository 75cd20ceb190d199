package pmwx

// Options configures a map's spatial index.
type Options struct {
	// IndexDepth is the deepest level elements are filed at below the root.
	IndexDepth int
	// IndexMargin grows the index extent by this fraction of the vertex
	// bounds on every side.
	IndexMargin float64
	// MaxIndexNodes bounds each quad-tree's node arena. Zero means no limit.
	MaxIndexNodes int
	// CheckGeometry makes Validate also run ValidateGeometry.
	CheckGeometry bool
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		IndexDepth:    8,
		IndexMargin:   0.001,
		MaxIndexNodes: 0,
	}
}
