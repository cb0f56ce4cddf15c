package common

import (
	"fmt"
	"math"
	"slices"
)

// Metric names a neighborhood similarity measure.
type Metric string

const (
	MetricCosine  Metric = "cosine"
	MetricJaccard Metric = "jaccard"
	MetricF1      Metric = "f1"
)

// BucketsPerMetric is the number of deciles tracked for each metric.
const BucketsPerMetric = 10

// Histogram counts similarity values per decile for one or more metrics.
// Bucket k of a metric holds values v with floor(10v) == k; bucket 9
// also holds everything above 0.9. Counts is laid out
// metric-major: metric i owns Counts[i*10 : i*10+10].
type Histogram struct {
	Metrics []Metric `json:"metrics"`
	Counts  []uint64 `json:"counts"`
}

// NewHistogram returns a zeroed histogram for the given metrics.
func NewHistogram(metrics ...Metric) *Histogram {
	return &Histogram{
		Metrics: slices.Clone(metrics),
		Counts:  make([]uint64, len(metrics)*BucketsPerMetric),
	}
}

// BucketIndex maps a similarity value to its decile bucket.
func BucketIndex(val float64) int {
	if !(val > 0) {
		return 0
	}
	if val > 0.9 {
		return BucketsPerMetric - 1
	}
	return int(math.Floor(val * 10))
}

// Add records one value for the metric at position metricIdx.
func (h *Histogram) Add(metricIdx int, val float64) {
	h.Counts[metricIdx*BucketsPerMetric+BucketIndex(val)]++
}

// Bucket returns the count of bucket k for the metric at position metricIdx.
func (h *Histogram) Bucket(metricIdx, k int) uint64 {
	return h.Counts[metricIdx*BucketsPerMetric+k]
}

// MetricCounts returns the ten buckets of one metric. The slice aliases h.
func (h *Histogram) MetricCounts(metricIdx int) []uint64 {
	lo := metricIdx * BucketsPerMetric
	return h.Counts[lo : lo+BucketsPerMetric : lo+BucketsPerMetric]
}

// Index returns the position of m, or -1.
func (h *Histogram) Index(m Metric) int {
	return slices.Index(h.Metrics, m)
}

// Total returns the number of values recorded for one metric.
func (h *Histogram) Total(metricIdx int) uint64 {
	var t uint64
	for _, c := range h.MetricCounts(metricIdx) {
		t += c
	}
	return t
}

// IsZero reports whether no value has been recorded.
func (h *Histogram) IsZero() bool {
	for _, c := range h.Counts {
		if c != 0 {
			return false
		}
	}
	return true
}

// Merge adds the counts of other into h. Merging is associative and
// commutative, so worker results can be combined in any order.
func (h *Histogram) Merge(other *Histogram) error {
	if !slices.Equal(h.Metrics, other.Metrics) || len(h.Counts) != len(other.Counts) {
		return fmt.Errorf("cannot merge histogram of %v into %v", other.Metrics, h.Metrics)
	}
	for i, c := range other.Counts {
		h.Counts[i] += c
	}
	return nil
}

// MergeAll sums histograms into a new one. All inputs must share a layout.
func MergeAll(hs ...*Histogram) (*Histogram, error) {
	if len(hs) == 0 {
		return nil, fmt.Errorf("no histograms to merge")
	}
	out := NewHistogram(hs[0].Metrics...)
	for _, h := range hs {
		if err := out.Merge(h); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Clone returns a deep copy.
func (h *Histogram) Clone() *Histogram {
	return &Histogram{
		Metrics: slices.Clone(h.Metrics),
		Counts:  slices.Clone(h.Counts),
	}
}

// Equal reports whether both histograms have the same layout and counts.
func (h *Histogram) Equal(other *Histogram) bool {
	return slices.Equal(h.Metrics, other.Metrics) && slices.Equal(h.Counts, other.Counts)
}
