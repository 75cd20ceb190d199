package quadtree

// Options bounds the resources a tree may use.
type Options struct {
	// MaxNodes caps the node arena. Zero means unbounded.
	MaxNodes int
}

// DefaultOptions returns options with no node limit.
func DefaultOptions() Options {
	return Options{MaxNodes: 0}
}
