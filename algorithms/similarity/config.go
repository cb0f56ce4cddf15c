package similarity

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mundrapranay/neighborsim/algorithms/common"
)

// Mode selects how common neighbors are enumerated.
type Mode int

const (
	// ModePruned walks ascending adjacency slices of a degree-ranked graph
	// and stops a slice as soon as the degree ratio drops below Threshold.
	ModePruned Mode = iota

	// ModeHubFiltered walks descending adjacency slices of the unranked graph
	// and stops each slice at u itself, so every pair is seen from its lower id.
	ModeHubFiltered
)

func (m Mode) String() string {
	switch m {
	case ModePruned:
		return "pruned"
	case ModeHubFiltered:
		return "hubfiltered"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts the names used in configs and on the command line.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pruned", "ratio-pruned", "a":
		return ModePruned, nil
	case "hubfiltered", "hub-filtered", "unpruned", "b":
		return ModeHubFiltered, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode %q (want pruned or hubfiltered)", common.ErrInvalidConfig, s)
	}
}

var (
	// MetricsJaccard computes Jaccard only (10 buckets).
	MetricsJaccard = []common.Metric{common.MetricJaccard}
	// MetricsCosine computes cosine only (10 buckets).
	MetricsCosine = []common.Metric{common.MetricCosine}
	// MetricsAll computes cosine, Jaccard and F1 (30 buckets, in that order).
	MetricsAll = []common.Metric{common.MetricCosine, common.MetricJaccard, common.MetricF1}
)

// ParseMetricSet maps a metric option to the metrics it computes.
func ParseMetricSet(s string) ([]common.Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jaccard":
		return MetricsJaccard, nil
	case "cosine":
		return MetricsCosine, nil
	case "all", "jaccard+cosine+f1", "cosine+jaccard+f1":
		return MetricsAll, nil
	default:
		return nil, fmt.Errorf("%w: unknown metric %q (want jaccard, cosine or all)", common.ErrInvalidConfig, s)
	}
}

// Config parameterizes one engine run.
type Config struct {
	// Workers is the pool size; 0 means one per CPU.
	Workers int

	Mode Mode

	// Threshold is the minimum degree ratio for ModePruned. Only buckets
	// above it are exact.
	Threshold float64

	// HubCap excludes vertices of total degree above it as 2-hop
	// intermediates when HubFiltered is set.
	HubCap      uint32
	HubFiltered bool

	Metrics []common.Metric

	Logger zerolog.Logger
}

// DefaultConfig returns an unpruned, unfiltered Jaccard configuration.
func DefaultConfig() Config {
	return Config{
		Workers: runtime.NumCPU(),
		Mode:    ModePruned,
		Metrics: MetricsJaccard,
		Logger:  zerolog.Nop(),
	}
}

// Validate rejects configurations the engine cannot run.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", common.ErrInvalidConfig, c.Workers)
	}
	if c.Mode != ModePruned && c.Mode != ModeHubFiltered {
		return fmt.Errorf("%w: unknown mode %v", common.ErrInvalidConfig, c.Mode)
	}
	if !(c.Threshold >= 0 && c.Threshold <= 1) {
		return fmt.Errorf("%w: threshold must be in [0, 1], got %v", common.ErrInvalidConfig, c.Threshold)
	}
	if len(c.Metrics) == 0 {
		return fmt.Errorf("%w: no metric selected", common.ErrInvalidConfig)
	}
	for _, m := range c.Metrics {
		if measureFor(m) == nil {
			return fmt.Errorf("%w: unknown metric %q", common.ErrInvalidConfig, m)
		}
	}
	return nil
}

func (c *Config) workers() int {
	if c.Workers == 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}
