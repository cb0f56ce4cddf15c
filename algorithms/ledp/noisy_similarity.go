package ledp

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mundrapranay/neighborsim/algorithms/common"
	"github.com/mundrapranay/neighborsim/algorithms/exact"
	"github.com/mundrapranay/neighborsim/algorithms/noise"
	"github.com/mundrapranay/neighborsim/algorithms/similarity"
)

// NoisySimilarity perturbs a similarity histogram: every bucket gets
// independent two-sided geometric noise with lambda = epsilon and is
// clamped at zero. The result is a perturbed count, not a differential
// privacy release: one edge changes the degrees of both endpoints and can
// move every pair touching them, so a bucket's sensitivity is not bounded
// by one.
//
// Parameters: mode (pruned or hubfiltered, default hubfiltered),
// epsilon (noise parameter, > 0, required), noise (default true), plus the
// parameters of the underlying exact algorithm.
type NoisySimilarity struct {
	inner   common.GraphAlgorithm
	epsilon float64
	noisy   bool
	sampler *noise.Geometric
	result  *common.AlgorithmResult
}

// NewNoisySimilarity creates a new noisy similarity algorithm instance
func NewNoisySimilarity() common.GraphAlgorithm {
	return &NoisySimilarity{}
}

func (a *NoisySimilarity) Name() string {
	return "noisy-similarity"
}

func (a *NoisySimilarity) Type() common.AlgorithmType {
	return common.AlgorithmTypeLEDP
}

func (a *NoisySimilarity) Initialize(ctx context.Context, graphData *common.GraphData, config map[string]interface{}) error {
	modeName, err := common.ParamString(config, "mode", "hubfiltered")
	if err != nil {
		return err
	}
	mode, err := similarity.ParseMode(modeName)
	if err != nil {
		return err
	}

	if a.epsilon, err = common.ParamFloat(config, "epsilon", 0); err != nil {
		return err
	}
	if a.noisy, err = common.ParamBool(config, "noise", true); err != nil {
		return err
	}
	if a.sampler, err = noise.NewGeometric(a.epsilon); err != nil {
		return fmt.Errorf("%w: epsilon: %v", common.ErrInvalidConfig, err)
	}

	inner := exact.NewHubFiltered()
	if mode == similarity.ModePruned {
		inner = exact.NewJaccardPruned()
	}

	params := make(map[string]interface{}, len(config))
	for k, v := range config {
		switch k {
		case "mode", "epsilon", "noise":
		default:
			params[k] = v
		}
	}
	if err := inner.Initialize(ctx, graphData, params); err != nil {
		return err
	}
	a.inner = inner
	a.result = nil
	return nil
}

func (a *NoisySimilarity) Execute(ctx context.Context) (*common.AlgorithmResult, error) {
	if a.inner == nil {
		return nil, fmt.Errorf("noisy-similarity: not initialized")
	}
	res, err := a.inner.Execute(ctx)
	if err != nil {
		return nil, err
	}

	out := *res
	out.AlgorithmName = a.Name()
	out.AlgorithmType = common.AlgorithmTypeLEDP
	out.Exact = false
	out.Histogram = res.Histogram.Clone()
	out.Metadata = make(map[string]interface{}, len(res.Metadata)+2)
	for k, v := range res.Metadata {
		out.Metadata[k] = v
	}
	out.Metadata["base_algorithm"] = a.inner.Name()

	if a.noisy {
		a.sampler.PerturbCounts(out.Histogram.Counts)
		out.Metadata["noise_lambda"] = a.sampler.Lambda()
		zerolog.Ctx(ctx).Info().
			Float64("lambda", a.sampler.Lambda()).
			Int("buckets", len(out.Histogram.Counts)).
			Msg("histogram perturbed")
	}

	a.result = &out
	return a.result, nil
}

func (a *NoisySimilarity) GetResult() *common.AlgorithmResult {
	return a.result
}

func init() {
	Register("noisy-similarity", NewNoisySimilarity)
}
