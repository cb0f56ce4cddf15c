package similarity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// runsTotal counts engine runs by mode and result
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "neighborsim_similarity_runs_total",
		Help: "Total similarity engine runs by mode and result",
	}, []string{"mode", "result"})

	// runDuration tracks the compute phase of a run
	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "neighborsim_similarity_run_duration_seconds",
		Help:    "Similarity engine compute duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 12),
	}, []string{"mode"})

	// pairsTotal counts scored candidate pairs
	pairsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "neighborsim_similarity_pairs_total",
		Help: "Candidate pairs scored by the similarity engine",
	}, []string{"mode"})

	// prunedScansTotal counts adjacency scans cut short by the degree ratio
	prunedScansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "neighborsim_similarity_pruned_scans_total",
		Help: "Adjacency scans stopped early by the degree-ratio threshold",
	})
)
