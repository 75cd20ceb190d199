package mapio

import "github.com/beetlebugorg/xestopo/pkg/pmwx"

// ProgressRatio is the number of elements between progress reports.
const ProgressRatio = 5000

// ProgressFunc reports progress through a long pass. It is called with
// fraction 0 when a stage starts, 1 when it ends, and every ProgressRatio
// elements in between.
type ProgressFunc func(stage, stageCount int, name string, fraction float64)

// progress counts elements and reports every ProgressRatio of them.
type progress struct {
	fn    ProgressFunc
	name  string
	total float64
	count int
}

func newProgress(fn ProgressFunc, name string, total int) *progress {
	p := &progress{fn: fn, name: name, total: float64(total)}
	if fn != nil {
		fn(0, 1, name, 0)
	}
	return p
}

func (p *progress) step() {
	p.count++
	if p.fn != nil && p.total > 0 && p.count%ProgressRatio == 0 {
		p.fn(0, 1, p.name, float64(p.count)/p.total)
	}
}

func (p *progress) done() {
	if p.fn != nil {
		p.fn(0, 1, p.name, 1)
	}
}

// WriteOptions configures map encoding.
type WriteOptions struct {
	Progress ProgressFunc

	// Registry, when set, is written as a token table so readers can build
	// a conversion map by name.
	Registry *Registry
}

// DefaultWriteOptions returns default options.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{}
}

// ReadOptions configures map decoding.
type ReadOptions struct {
	Progress ProgressFunc

	// MapOptions configures maps created by Decode.
	MapOptions pmwx.Options
}

// DefaultReadOptions returns default options.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{
		MapOptions: pmwx.DefaultOptions(),
	}
}
