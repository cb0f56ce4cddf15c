package common

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
)

// displayName is how a metric appears in the textual report.
func displayName(m Metric) string {
	if m == MetricF1 {
		return "F1"
	}
	return string(m)
}

// metricList joins metric names as "a", "a and b" or "a, b and c".
func metricList(metrics []Metric) string {
	names := make([]string, len(metrics))
	for i, m := range metrics {
		names[i] = displayName(m)
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}

// FormatReport writes the per-decile counts of a run. Ratio-pruned runs with
// a positive threshold carry a caveat line: buckets at or below the
// threshold are under-populated by construction.
func FormatReport(w io.Writer, result *AlgorithmResult) error {
	if result == nil || result.Histogram == nil {
		return fmt.Errorf("no histogram to report")
	}
	h := result.Histogram
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Run %s: %s (%s, mode=%s", result.RunID, result.AlgorithmName, result.AlgorithmType, result.Mode)
	if result.Mode == "pruned" {
		fmt.Fprintf(bw, ", threshold=%g", result.Threshold)
	}
	if result.HubFiltered {
		fmt.Fprintf(bw, ", hub_cap=%d", result.HubCap)
	}
	fmt.Fprintf(bw, ")\n")
	fmt.Fprintf(bw, "Number of nodes: %d\n", result.NumVertices)
	fmt.Fprintf(bw, "Number of edges: %d\n", result.NumEdges)

	if result.Mode == "pruned" && result.Threshold > 0 {
		for _, m := range h.Metrics {
			fmt.Fprintf(bw, "ONLY %s SIMILARITIES GREATER THAN %f ARE CORRECT\n",
				strings.ToUpper(displayName(m)), math.Ceil(result.Threshold*10)/10)
		}
	}
	if lambda, ok := result.Metadata["noise_lambda"]; ok {
		fmt.Fprintf(bw, "COUNTS PERTURBED WITH TWO-SIDED GEOMETRIC NOISE (lambda=%v), NOT A PRIVACY GUARANTEE\n", lambda)
	}

	fmt.Fprintf(bw, "Number of %s similarities in\n", metricList(h.Metrics))
	for k := 0; k < BucketsPerMetric; k++ {
		if k == BucketsPerMetric-1 {
			fmt.Fprintf(bw, "]0.9, 1.0] = ")
		} else {
			fmt.Fprintf(bw, "]0.%d, 0.%d] = ", k, k+1)
		}
		for i := range h.Metrics {
			if i > 0 {
				fmt.Fprintf(bw, ", ")
			}
			fmt.Fprintf(bw, "%d", h.Bucket(i, k))
		}
		fmt.Fprintf(bw, "\n")
	}

	var total uint64
	if len(h.Metrics) > 0 {
		total = h.Total(0)
	}
	if len(h.Metrics) == 1 {
		fmt.Fprintf(bw, "Number of non-zero %s similarities = %d\n", displayName(h.Metrics[0]), total)
	} else {
		fmt.Fprintf(bw, "Number of non-zero similarities = %d\n", total)
	}

	return bw.Flush()
}

// MarshalReport serializes a result for the report store.
func MarshalReport(result *AlgorithmResult) ([]byte, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return data, nil
}

// UnmarshalReport decodes and sanity-checks a stored report.
func UnmarshalReport(data []byte) (*AlgorithmResult, error) {
	var result AlgorithmResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode report: %v", ErrMalformedInput, err)
	}
	if result.RunID == "" {
		return nil, fmt.Errorf("%w: report has no run_id", ErrMalformedInput)
	}
	if result.Histogram == nil {
		return nil, fmt.Errorf("%w: report %s has no histogram", ErrMalformedInput, result.RunID)
	}
	if want := len(result.Histogram.Metrics) * BucketsPerMetric; len(result.Histogram.Counts) != want {
		return nil, fmt.Errorf("%w: report %s has %d buckets, want %d",
			ErrMalformedInput, result.RunID, len(result.Histogram.Counts), want)
	}
	return &result, nil
}
