package exact

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mundrapranay/neighborsim/algorithms/common"
	"github.com/mundrapranay/neighborsim/algorithms/similarity"
)

// SimilarityAlgorithm runs the similarity engine in one fixed enumeration
// mode. The registered algorithms differ only in mode and default metric.
type SimilarityAlgorithm struct {
	name          string
	mode          similarity.Mode
	defaultMetric string

	graphData *common.GraphData
	cfg       similarity.Config
	result    *common.AlgorithmResult
}

func (a *SimilarityAlgorithm) Name() string {
	return a.name
}

func (a *SimilarityAlgorithm) Type() common.AlgorithmType {
	return common.AlgorithmTypeExact
}

// Mode returns the enumeration mode the algorithm runs.
func (a *SimilarityAlgorithm) Mode() similarity.Mode {
	return a.mode
}

// Initialize validates the parameters and the graph. The logger is taken
// from ctx (see zerolog.Logger.WithContext).
func (a *SimilarityAlgorithm) Initialize(ctx context.Context, graphData *common.GraphData, config map[string]interface{}) error {
	if graphData == nil {
		return fmt.Errorf("%w: no graph data", common.ErrMalformedInput)
	}
	if err := graphData.Validate(); err != nil {
		return err
	}

	cfg, err := similarity.ConfigFromParams(config, a.mode, a.defaultMetric)
	if err != nil {
		return fmt.Errorf("%s: %w", a.name, err)
	}
	cfg.Logger = *zerolog.Ctx(ctx)

	a.graphData = graphData
	a.cfg = cfg
	a.result = nil
	return nil
}

func (a *SimilarityAlgorithm) Execute(ctx context.Context) (*common.AlgorithmResult, error) {
	if a.graphData == nil {
		return nil, fmt.Errorf("%s: not initialized", a.name)
	}
	log := zerolog.Ctx(ctx).With().Str("algorithm", a.name).Logger()

	engine, err := similarity.NewEngine(a.cfg)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	prepared, err := similarity.Prepare(a.graphData, a.cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.name, err)
	}
	prepareTime := time.Since(start)
	log.Info().
		Int("vertices", a.graphData.NumVertices).
		Int("edges", a.graphData.NumEdges).
		Dur("elapsed", prepareTime).
		Msg("graph prepared")

	hist, stats, err := engine.Run(ctx, prepared)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.name, err)
	}
	stats.PrepareTime = prepareTime
	log.Info().
		Uint64("pairs", stats.CandidatePairs).
		Int("workers", stats.Workers).
		Dur("elapsed", stats.ComputeTime).
		Msg("similarities computed")

	summary := common.SummarizeDegrees(prepared.Degrees.Total)
	a.result = &common.AlgorithmResult{
		RunID:         uuid.NewString(),
		AlgorithmName: a.name,
		AlgorithmType: common.AlgorithmTypeExact,
		Mode:          a.mode.String(),
		Threshold:     a.cfg.Threshold,
		HubCap:        a.cfg.HubCap,
		HubFiltered:   a.cfg.HubFiltered,
		Exact:         a.mode == similarity.ModeHubFiltered || a.cfg.Threshold == 0,
		NumVertices:   a.graphData.NumVertices,
		NumEdges:      a.graphData.NumEdges,
		Histogram:     hist,
		Stats:         *stats,
		Metadata: map[string]interface{}{
			"degree_max":    summary.Max,
			"degree_mean":   summary.Mean,
			"degree_stddev": summary.StdDev,
		},
	}
	return a.result, nil
}

func (a *SimilarityAlgorithm) GetResult() *common.AlgorithmResult {
	return a.result
}
