package similarity

import (
	"math"

	"github.com/mundrapranay/neighborsim/algorithms/common"
)

// measure computes a similarity from the common-neighbor count and the two degrees.
type measure func(inter, du, dw uint32) float64

// Jaccard returns |N(u) ∩ N(w)| / |N(u) ∪ N(w)|.
func Jaccard(inter, du, dw uint32) float64 {
	return float64(inter) / (float64(du) + float64(dw) - float64(inter))
}

// Cosine returns |N(u) ∩ N(w)| / sqrt(|N(u)| |N(w)|).
func Cosine(inter, du, dw uint32) float64 {
	return float64(inter) / math.Sqrt(float64(du)*float64(dw))
}

// F1 returns 2 |N(u) ∩ N(w)| / (|N(u)| + |N(w)|).
func F1(inter, du, dw uint32) float64 {
	return 2 * float64(inter) / (float64(du) + float64(dw))
}

func measureFor(m common.Metric) measure {
	switch m {
	case common.MetricJaccard:
		return Jaccard
	case common.MetricCosine:
		return Cosine
	case common.MetricF1:
		return F1
	default:
		return nil
	}
}
