package pmwx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "xestopo"

var (
	inserts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "pmwx",
		Name:      "edge_inserts_total",
		Help:      "Segments inserted with InsertEdge.",
	})

	splits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "pmwx",
		Name:      "edge_splits_total",
		Help:      "Edges split.",
	})

	merges = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "pmwx",
		Name:      "edge_merges_total",
		Help:      "Edge pairs merged.",
	})

	removals = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "pmwx",
		Name:      "edge_removals_total",
		Help:      "Edges removed.",
	})

	indexedMaps = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "pmwx",
		Name:      "index_builds_total",
		Help:      "Full spatial index builds.",
	})

	validationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "pmwx",
		Name:      "validation_failures_total",
		Help:      "Maps that failed IsValid.",
	})

	geometryFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "pmwx",
		Name:      "geometry_failures_total",
		Help:      "Maps that failed ValidateGeometry.",
	})

	contractViolations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "pmwx",
		Name:      "contract_violations_total",
		Help:      "Topology edits called with arguments that broke their preconditions.",
	})
)
