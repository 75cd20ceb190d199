package tiles

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// Tile is one independent unit of work.
type Tile interface {
	TileName() string
}

// Func processes one tile. Each call owns everything it builds; nothing is
// shared between calls.
type Func[T Tile, R any] func(ctx context.Context, tile T) (R, error)

// ProcessTiles runs fn over every tile and returns the results of the tiles
// that succeeded, in input order, and the errors of those that failed, each
// wrapped with its tile's name.
//
// With SkipErrors unset, the first failure cancels the tiles not yet started
// and ProcessTiles returns no results and just that error. Cancelling ctx
// stops tiles not yet started; they fail with the context's error.
func ProcessTiles[T Tile, R any](ctx context.Context, tiles []T, fn Func[T, R], opts Options) ([]R, []error) {
	if len(tiles) == 0 {
		return []R{}, nil
	}
	if !opts.Parallel {
		return processSerial(ctx, tiles, fn, opts)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(tiles) {
		workers = len(tiles)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type tileResult struct {
		index  int
		result R
		err    error
	}
	jobs := make(chan int, len(tiles))
	results := make(chan tileResult, len(tiles))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				r, err := run(ctx, tiles[index], fn)
				results <- tileResult{index: index, result: r, err: err}
			}
		}()
	}

	for i := range tiles {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	byIndex := make(map[int]R, len(tiles))
	var errs []error
	done := 0
	for r := range results {
		done++
		if opts.Progress != nil {
			opts.Progress(done, len(tiles))
		}
		if r.err != nil {
			if !opts.SkipErrors {
				// Workers drain the buffered jobs against a cancelled
				// context and exit.
				cancel()
				return nil, []error{r.err}
			}
			errs = append(errs, r.err)
			continue
		}
		byIndex[r.index] = r.result
	}

	out := make([]R, 0, len(byIndex))
	for i := range tiles {
		if r, ok := byIndex[i]; ok {
			out = append(out, r)
		}
	}
	return out, errs
}

func processSerial[T Tile, R any](ctx context.Context, tiles []T, fn Func[T, R], opts Options) ([]R, []error) {
	out := make([]R, 0, len(tiles))
	var errs []error
	for i, tile := range tiles {
		r, err := run(ctx, tile, fn)
		if opts.Progress != nil {
			opts.Progress(i+1, len(tiles))
		}
		if err != nil {
			if !opts.SkipErrors {
				return nil, []error{err}
			}
			errs = append(errs, err)
			continue
		}
		out = append(out, r)
	}
	return out, errs
}

// run processes one tile, recording metrics and logging failures.
func run[T Tile, R any](ctx context.Context, tile T, fn Func[T, R]) (R, error) {
	var zero R
	if err := ctx.Err(); err != nil {
		return zero, errors.Wrapf(err, "tile %s", tile.TileName())
	}

	start := time.Now()
	r, err := fn(ctx, tile)
	tileSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		tilesFailed.Inc()
		err = errors.Wrapf(err, "tile %s", tile.TileName())
		klog.Errorf("tiles: %v", err)
		return zero, err
	}
	tilesProcessed.Inc()
	klog.V(2).Infof("tiles: %s done in %v", tile.TileName(), time.Since(start))
	return r, nil
}
