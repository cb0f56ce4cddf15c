package algorithms

import (
	"context"
	"fmt"
	"maps"

	"github.com/mundrapranay/neighborsim/algorithms/common"
	"github.com/mundrapranay/neighborsim/algorithms/exact"
	"github.com/mundrapranay/neighborsim/algorithms/ledp"
)

// GetAlgorithm returns a new instance of the named algorithm of the given type.
func GetAlgorithm(algorithmType common.AlgorithmType, name string) (common.GraphAlgorithm, error) {
	var (
		alg common.GraphAlgorithm
		err error
	)
	switch algorithmType {
	case common.AlgorithmTypeExact:
		alg, err = exact.Get(name)
	case common.AlgorithmTypeLEDP:
		alg, err = ledp.Get(name)
	default:
		return nil, fmt.Errorf("%w: unknown algorithm type %q", common.ErrInvalidConfig, algorithmType)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	return alg, nil
}

// ListAlgorithms returns the registered algorithm names of one type
func ListAlgorithms(algorithmType common.AlgorithmType) []string {
	switch algorithmType {
	case common.AlgorithmTypeExact:
		return exact.List()
	case common.AlgorithmTypeLEDP:
		return ledp.List()
	default:
		return []string{}
	}
}

// ListAllAlgorithms returns the registered algorithm names for both types
func ListAllAlgorithms() (exactAlgs []string, ledpAlgs []string) {
	return exact.List(), ledp.List()
}

// Run creates, initializes and executes the algorithm cfg names on g.
// The configured worker count is passed as the num_workers parameter
// unless the parameters already set it.
func Run(ctx context.Context, cfg *common.AlgorithmConfig, g *common.GraphData) (*common.AlgorithmResult, error) {
	alg, err := GetAlgorithm(cfg.AlgorithmType, cfg.AlgorithmName)
	if err != nil {
		return nil, err
	}

	params := maps.Clone(cfg.Parameters)
	if params == nil {
		params = make(map[string]interface{})
	}
	if _, ok := params["num_workers"]; !ok {
		params["num_workers"] = cfg.WorkerConfig.NumWorkers
	}

	if err := alg.Initialize(ctx, g, params); err != nil {
		return nil, fmt.Errorf("failed to initialize %s: %w", alg.Name(), err)
	}
	result, err := alg.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s: %w", alg.Name(), err)
	}
	return result, nil
}
