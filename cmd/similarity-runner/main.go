package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mundrapranay/neighborsim/algorithms"
	"github.com/mundrapranay/neighborsim/algorithms/common"
	"github.com/mundrapranay/neighborsim/internal/telemetry"
	"github.com/mundrapranay/neighborsim/pkg/client"
)

var opts runOptions

var rootCmd = &cobra.Command{
	Use:   "similarity-runner [flags] [edge-list]",
	Short: "Compute neighborhood similarity histograms of an undirected graph",
	Long: `similarity-runner counts, for every pair of vertices that share a
neighbor, the decile of their Jaccard, cosine or F1 similarity.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered algorithms",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exactAlgs, ledpAlgs := algorithms.ListAllAlgorithms()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "exact:")
		for _, name := range exactAlgs {
			fmt.Fprintf(out, "  %s\n", name)
		}
		fmt.Fprintln(out, "ledp:")
		for _, name := range ledpAlgs {
			fmt.Fprintf(out, "  %s\n", name)
		}
	},
}

var exampleConfigCmd = &cobra.Command{
	Use:   "example-config",
	Short: "Print an example YAML configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), exampleConfig)
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&opts.configFile, "config", "c", "", "Path to YAML configuration file")
	f.IntVarP(&opts.threads, "threads", "t", 0, "Number of workers (0 = one per CPU)")
	f.Float64Var(&opts.threshold, "threshold", 0, "Degree ratio pruning threshold in [0, 1] (pruned mode)")
	f.Int64Var(&opts.hubCap, "hub-cap", 0, "Ignore neighbors with degree above this cap")
	f.StringVar(&opts.metric, "metric", "jaccard", "Metrics to compute: jaccard, cosine or all")
	f.StringVar(&opts.mode, "mode", "pruned", "Enumeration mode: pruned or hubfiltered")
	f.StringVar(&opts.algorithm, "algorithm", "", "Algorithm name (overrides --mode)")
	f.StringVar(&opts.algType, "type", string(common.AlgorithmTypeExact), "Algorithm type: exact or ledp")
	f.Float64Var(&opts.epsilon, "epsilon", 1.0, "Geometric noise parameter (lambda) for ledp algorithms")
	f.StringVar(&opts.server, "server", "", "Publish the report to this report-server address")
	f.StringVar(&opts.logLevel, "log-level", "info", "Log level: trace, debug, info, warn, error")
	f.BoolVar(&opts.json, "json", false, "Log JSON lines instead of console output")
	f.StringVar(&opts.metrics, "metrics-addr", "", "Serve Prometheus metrics on this address while running")
	f.DurationVar(&opts.linger, "metrics-linger", 0, "Keep serving metrics this long after the run")
	f.StringVar(&opts.pushURL, "pushgateway", "", "Push metrics to this Pushgateway URL when the run ends")

	rootCmd.AddCommand(listCmd, exampleConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	config, err := resolveConfig(opts, cmd.Flags().Changed, args)
	if err != nil {
		return err
	}

	logger := common.NewLogger(config.Logging, "similarity-runner", os.Stderr)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	if opts.metrics != "" {
		ms, err := telemetry.Serve(opts.metrics, logger)
		if err != nil {
			return err
		}
		defer func() {
			if opts.linger > 0 {
				logger.Info().Dur("linger", opts.linger).Msg("run finished, still serving metrics")
				select {
				case <-time.After(opts.linger):
				case <-ctx.Done():
				}
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = ms.Shutdown(shutdownCtx)
		}()
	}

	logger.Debug().
		Str("algorithm", config.AlgorithmName).
		Str("type", string(config.AlgorithmType)).
		Int("workers", config.WorkerConfig.NumWorkers).
		Interface("parameters", config.Parameters).
		Msg("configuration loaded")

	start := time.Now()
	graphData, err := common.LoadGraphData(&config.GraphConfig)
	if err != nil {
		return fmt.Errorf("failed to load graph data: %w", err)
	}
	logger.Info().
		Int("vertices", graphData.NumVertices).
		Int("edges", graphData.NumEdges).
		Dur("elapsed", time.Since(start)).
		Msg("graph loaded")

	result, err := algorithms.Run(ctx, config, graphData)
	if err != nil {
		return err
	}

	if err := common.FormatReport(cmd.OutOrStdout(), result); err != nil {
		return err
	}

	if opts.pushURL != "" {
		grouping := map[string]string{"run_id": result.RunID}
		if err := telemetry.Push(opts.pushURL, "similarity-runner", grouping); err != nil {
			return err
		}
		logger.Info().Str("pushgateway", opts.pushURL).Msg("metrics pushed")
	}

	if config.ServerAddress != "" {
		return publish(ctx, config.ServerAddress, result)
	}
	return nil
}

func publish(ctx context.Context, addr string, result *common.AlgorithmResult) error {
	c, err := client.NewClient(addr)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	runID, err := c.PublishReport(ctx, result)
	if err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Str("run_id", runID).Str("server", addr).Msg("report published")
	return nil
}
