package exact

import (
	"github.com/mundrapranay/neighborsim/algorithms/common"
	"github.com/mundrapranay/neighborsim/algorithms/similarity"
)

// NewHubFiltered returns the unpruned algorithm that computes cosine,
// Jaccard and F1 by default. With hub_cap set, vertices of higher degree
// are not used as common neighbors.
//
// Parameters: hub_cap (optional), metric (default all), num_workers.
func NewHubFiltered() common.GraphAlgorithm {
	return &SimilarityAlgorithm{
		name:          "similarity-hubfiltered",
		mode:          similarity.ModeHubFiltered,
		defaultMetric: "all",
	}
}

func init() {
	Register("similarity-hubfiltered", NewHubFiltered)
}
