package network

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "xestopo"

var (
	chainsBuilt = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "network",
		Name:      "chains_built_total",
		Help:      "Chains created from map edges.",
	})

	chainsMerged = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "network",
		Name:      "chains_merged_total",
		Help:      "Chain pairs merged through a degree-2 junction.",
	})

	shapePointsNuked = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "network",
		Name:      "shape_points_removed_total",
		Help:      "Nearly straight shape points removed.",
	})

	junctionsMerged = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "network",
		Name:      "junctions_merged_total",
		Help:      "Junction pairs merged for being too close.",
	})

	junctionsSynthesized = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "network",
		Name:      "junctions_synthesized_total",
		Help:      "Junctions added for grade-separated layers.",
	})

	drapePoints = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "network",
		Name:      "drape_points_added_total",
		Help:      "Shape points added where chains cross terrain triangle edges.",
	})

	junctionsPromoted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "network",
		Name:      "junctions_promoted_total",
		Help:      "Shape points turned into junctions.",
	})

	validationProblems = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "network",
		Name:      "validation_problems_total",
		Help:      "Back-reference mismatches found by ValidateNetworkTopology.",
	})
)
