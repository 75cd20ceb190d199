package tiles

import "runtime"

// Options controls how tiles are processed and how failures are handled.
type Options struct {
	// Parallel enables concurrent processing.
	Parallel bool

	// Workers is the number of worker goroutines. If 0, defaults to
	// runtime.NumCPU(). Only used when Parallel is true.
	Workers int

	// SkipErrors keeps going when a tile fails; failures are collected. When
	// false the first failure cancels the remaining tiles and is returned
	// alone.
	SkipErrors bool

	// Progress is called after each tile finishes, successfully or not, with
	// the number finished so far.
	Progress func(done, total int)
}

// DefaultOptions returns options that use every CPU and skip failed tiles.
func DefaultOptions() Options {
	return Options{
		Parallel:   true,
		Workers:    runtime.NumCPU(),
		SkipErrors: true,
	}
}
