package tiles

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type testTile int

func (t testTile) TileName() string { return fmt.Sprintf("+%02d", int(t)) }

func makeTiles(n int) []testTile {
	out := make([]testTile, n)
	for i := range out {
		out[i] = testTile(i)
	}
	return out
}

var errOdd = errors.New("odd tile")

func square(_ context.Context, t testTile) (int, error) { return int(t) * int(t), nil }

func failOdd(_ context.Context, t testTile) (int, error) {
	if t%2 == 1 {
		return 0, errOdd
	}
	return int(t), nil
}

func TestProcessTiles(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		t.Run(fmt.Sprintf("parallel=%v", parallel), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Parallel = parallel
			opts.Workers = 4

			var calls []int
			var mu sync.Mutex
			opts.Progress = func(done, total int) {
				mu.Lock()
				defer mu.Unlock()
				require.Equal(t, 20, total)
				calls = append(calls, done)
			}

			results, errs := ProcessTiles(context.Background(), makeTiles(20), square, opts)
			require.Empty(t, errs)
			require.Len(t, results, 20)
			for i, r := range results {
				require.Equal(t, i*i, r)
			}
			require.Len(t, calls, 20)
			require.Equal(t, 20, calls[len(calls)-1])
		})
	}
}

func TestProcessTilesEmpty(t *testing.T) {
	results, errs := ProcessTiles(context.Background(), nil, square, DefaultOptions())
	require.Empty(t, results)
	require.Nil(t, errs)
}

func TestProcessTilesSkipErrors(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		t.Run(fmt.Sprintf("parallel=%v", parallel), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Parallel = parallel

			results, errs := ProcessTiles(context.Background(), makeTiles(10), failOdd, opts)
			require.Equal(t, []int{0, 2, 4, 6, 8}, results)
			require.Len(t, errs, 5)
			for _, err := range errs {
				require.True(t, errors.Is(err, errOdd))
				require.Contains(t, err.Error(), "tile +")
			}
		})
	}
}

func TestProcessTilesStopOnError(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		t.Run(fmt.Sprintf("parallel=%v", parallel), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Parallel = parallel
			opts.SkipErrors = false

			results, errs := ProcessTiles(context.Background(), makeTiles(10), failOdd, opts)
			require.Nil(t, results)
			require.Len(t, errs, 1)
			require.True(t, errors.Is(errs[0], errOdd))
		})
	}
}

func TestProcessTilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int32
	fn := func(_ context.Context, t testTile) (int, error) {
		atomic.AddInt32(&ran, 1)
		return int(t), nil
	}
	results, errs := ProcessTiles(ctx, makeTiles(5), fn, DefaultOptions())
	require.Empty(t, results)
	require.Len(t, errs, 5)
	require.True(t, errors.Is(errs[0], context.Canceled))
	require.Zero(t, atomic.LoadInt32(&ran))
}

func TestProcessTilesWorkersNeverShare(t *testing.T) {
	var active, peak int32
	fn := func(_ context.Context, t testTile) (int, error) {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		defer atomic.AddInt32(&active, -1)
		return int(t), nil
	}

	opts := DefaultOptions()
	opts.Workers = 3
	results, errs := ProcessTiles(context.Background(), makeTiles(50), fn, opts)
	require.Empty(t, errs)
	require.Len(t, results, 50)
	require.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}
