package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mundrapranay/neighborsim/algorithms/common"
)

var (
	maxDegree uint32
	logging   common.LoggingConfig
)

var rootCmd = &cobra.Command{
	Use:   "rmhub --max-degree N <in> <out>",
	Short: "Remove every edge touching a vertex of degree >= N",
	Long: `rmhub rewrites an edge list without the edges incident to hubs. A hub
is a vertex whose degree in the input is at least --max-degree.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().Uint32Var(&maxDegree, "max-degree", 0, "Degree at which a vertex counts as a hub (required)")
	rootCmd.Flags().StringVar(&logging.Level, "log-level", "info", "Log level: trace, debug, info, warn, error")
	_ = rootCmd.MarkFlagRequired("max-degree")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := common.NewLogger(logging, "rmhub", os.Stderr)

	g, err := common.LoadGraphData(&common.GraphInputConfig{FilePath: args[0]})
	if err != nil {
		return err
	}

	filtered := common.FilterHubs(g, maxDegree)

	out, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := common.WriteEdgeList(out, filtered.Edges); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}

	logger.Info().
		Int("vertices", g.NumVertices).
		Int("edges_in", g.NumEdges).
		Int("edges_out", filtered.NumEdges).
		Uint32("max_degree", maxDegree).
		Msg("hub edges removed")
	return nil
}
