// Package tiles runs independent per-tile passes over a worker pool.
//
// Planar maps and networks are single-threaded; the unit of parallelism is
// the tile. Each tile's work builds and owns its own map, so workers never
// share state. Results come back in input order whatever order the workers
// finish in.
//
// Example:
//
//	results, errs := tiles.ProcessTiles(ctx, specs, buildTile, tiles.Options{
//	    Parallel:   true,
//	    Workers:    8,
//	    SkipErrors: true,
//	    Progress: func(done, total int) {
//	        fmt.Printf("\rTiles: %d/%d", done, total)
//	    },
//	})
package tiles
