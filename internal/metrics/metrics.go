// Package metrics holds the Prometheus collectors for the catalog store.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Mutations counts tree mutations.
	// Labels: op = add|edit|remove|move|toggle, result = ok|not_found
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_mutations_total",
		Help: "Tree mutations by operation and result",
	}, []string{"op", "result"})

	HistoryCommits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_history_commits_total",
		Help: "Snapshots appended to the undo history",
	})

	// HistoryNavigations counts successful undo/redo steps. Labels: dir = undo|redo
	HistoryNavigations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_history_navigations_total",
		Help: "Undo and redo steps taken",
	}, []string{"dir"})

	HistoryDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_history_depth",
		Help: "Current number of snapshots in the undo history",
	})

	// Fetches counts source fetches. Labels: result = ok|error|stale
	Fetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_fetch_total",
		Help: "Catalog fetches by result",
	}, []string{"result"})

	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_fetch_duration_seconds",
		Help:    "Catalog fetch duration",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})
)

// MutationResult is the result label for an operation's error.
func MutationResult(err error) string {
	if err != nil {
		return "not_found"
	}
	return "ok"
}
