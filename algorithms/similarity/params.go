package similarity

import (
	"fmt"

	"github.com/mundrapranay/neighborsim/algorithms/common"
)

// Parameter keys understood by ConfigFromParams.
const (
	ParamThreshold  = "threshold"
	ParamHubCap     = "hub_cap"
	ParamMetric     = "metric"
	ParamNumWorkers = "num_workers"
)

// ConfigFromParams builds an engine configuration for mode from an
// algorithm parameter map. hub_cap enables hub filtering when present.
func ConfigFromParams(params map[string]interface{}, mode Mode, defaultMetric string) (Config, error) {
	cfg := Config{Mode: mode}

	workers, err := common.ParamInt(params, ParamNumWorkers, 0)
	if err != nil {
		return cfg, err
	}
	cfg.Workers = workers

	threshold, err := common.ParamFloat(params, ParamThreshold, 0)
	if err != nil {
		return cfg, err
	}
	if mode != ModePruned && threshold != 0 {
		return cfg, fmt.Errorf("%w: threshold only applies to pruned mode", common.ErrInvalidConfig)
	}
	cfg.Threshold = threshold

	hubCap, err := common.ParamInt(params, ParamHubCap, -1)
	if err != nil {
		return cfg, err
	}
	if raw, set := params[ParamHubCap]; set && raw != nil {
		if hubCap < 0 || uint64(hubCap) > uint64(^uint32(0)) {
			return cfg, fmt.Errorf("%w: hub_cap must be in [0, 2^32), got %d", common.ErrInvalidConfig, hubCap)
		}
		cfg.HubCap = uint32(hubCap)
		cfg.HubFiltered = true
	}

	metric, err := common.ParamString(params, ParamMetric, defaultMetric)
	if err != nil {
		return cfg, err
	}
	if cfg.Metrics, err = ParseMetricSet(metric); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}
