package tiles

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tilesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "xestopo",
		Subsystem: "tiles",
		Name:      "processed_total",
		Help:      "Tiles processed successfully.",
	})

	tilesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "xestopo",
		Subsystem: "tiles",
		Name:      "failed_total",
		Help:      "Tiles whose processing returned an error.",
	})

	tileSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "xestopo",
		Subsystem: "tiles",
		Name:      "duration_seconds",
		Help:      "Time spent processing one tile.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	})
)
