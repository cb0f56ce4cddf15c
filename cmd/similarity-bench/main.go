package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mundrapranay/neighborsim/algorithms/common"
	"github.com/mundrapranay/neighborsim/algorithms/similarity"
	"github.com/mundrapranay/neighborsim/internal/telemetry"
)

var (
	nodes       int
	avgDegree   float64
	seed        uint64
	threads     []int
	modeName    string
	metric      string
	threshold   float64
	hubCap      uint32
	metricsAddr string
	pushURL     string
	logging     common.LoggingConfig
)

var rootCmd = &cobra.Command{
	Use:           "similarity-bench",
	Short:         "Time the similarity engine on a synthetic graph across worker counts",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	f := rootCmd.Flags()
	f.IntVar(&nodes, "nodes", 100000, "Number of vertices")
	f.Float64Var(&avgDegree, "avg-degree", 20, "Average vertex degree")
	f.Uint64Var(&seed, "seed", 1, "Random seed")
	f.IntSliceVar(&threads, "threads", []int{1, 2, 4}, "Worker counts to time")
	f.StringVar(&modeName, "mode", "pruned", "Enumeration mode: pruned or hubfiltered")
	f.StringVar(&metric, "metric", "all", "Metrics to compute: jaccard, cosine or all")
	f.Float64Var(&threshold, "threshold", 0, "Degree ratio pruning threshold (pruned mode)")
	f.Uint32Var(&hubCap, "hub-cap", 0, "Hub cap (0 disables hub filtering)")
	f.StringVar(&logging.Level, "log-level", "info", "Log level: trace, debug, info, warn, error")
	f.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while benchmarking")
	f.StringVar(&pushURL, "pushgateway", "", "Push metrics to this Pushgateway URL when done")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := common.NewLogger(logging, "similarity-bench", os.Stderr)

	if metricsAddr != "" {
		ms, err := telemetry.Serve(metricsAddr, logger)
		if err != nil {
			return err
		}
		defer ms.Shutdown(context.Background())
	}

	mode, err := similarity.ParseMode(modeName)
	if err != nil {
		return err
	}
	metrics, err := similarity.ParseMetricSet(metric)
	if err != nil {
		return err
	}
	if nodes < 0 || avgDegree < 0 {
		return fmt.Errorf("%w: nodes and avg-degree must be >= 0", common.ErrInvalidConfig)
	}

	start := time.Now()
	g := randomGraph(seed, nodes, avgDegree)
	logger.Info().Int("vertices", g.NumVertices).Int("edges", g.NumEdges).Dur("elapsed", time.Since(start)).Msg("graph generated")

	base := similarity.Config{
		Mode:        mode,
		Threshold:   threshold,
		HubCap:      hubCap,
		HubFiltered: hubCap > 0,
		Metrics:     metrics,
		Logger:      logger,
	}

	start = time.Now()
	prepared, err := similarity.Prepare(g, base)
	if err != nil {
		return err
	}
	logger.Info().Dur("elapsed", time.Since(start)).Msg("graph prepared")

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "workers\tcompute\tspeedup\tpairs\ttwo-hop steps\tpruned scans")

	ctx := logger.WithContext(context.Background())
	var (
		reference *common.Histogram
		baseline  time.Duration
	)
	for _, w := range threads {
		cfg := base
		cfg.Workers = w
		engine, err := similarity.NewEngine(cfg)
		if err != nil {
			return err
		}
		hist, stats, err := engine.Run(ctx, prepared)
		if err != nil {
			return err
		}

		if reference == nil {
			reference, baseline = hist, stats.ComputeTime
		} else if !hist.Equal(reference) {
			return fmt.Errorf("histogram with %d workers differs from the %d-worker run", w, threads[0])
		}

		speedup := float64(baseline) / float64(max(stats.ComputeTime, 1))
		fmt.Fprintf(tw, "%d\t%v\t%.2fx\t%d\t%d\t%d\n",
			stats.Workers, stats.ComputeTime.Round(time.Microsecond), speedup,
			hist.Total(0), stats.TwoHopSteps, stats.PrunedScans)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if pushURL != "" {
		return telemetry.Push(pushURL, "similarity-bench", map[string]string{"mode": mode.String()})
	}
	return nil
}
