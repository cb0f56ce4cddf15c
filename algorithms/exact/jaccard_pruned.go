package exact

import (
	"github.com/mundrapranay/neighborsim/algorithms/common"
	"github.com/mundrapranay/neighborsim/algorithms/similarity"
)

// NewJaccardPruned returns the ratio-pruned algorithm. Vertices are ranked
// by degree and a pair (u, w) is skipped once deg(u)/deg(w) falls below
// the threshold parameter; histogram buckets above the threshold are exact.
//
// Parameters: threshold (default 0), hub_cap (optional), metric
// (jaccard, cosine or all; default jaccard), num_workers.
func NewJaccardPruned() common.GraphAlgorithm {
	return &SimilarityAlgorithm{
		name:          "jaccard-pruned",
		mode:          similarity.ModePruned,
		defaultMetric: "jaccard",
	}
}

func init() {
	Register("jaccard-pruned", NewJaccardPruned)
}
