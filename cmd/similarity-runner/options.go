package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mundrapranay/neighborsim/algorithms/common"
	"github.com/mundrapranay/neighborsim/algorithms/similarity"
)

// runOptions mirrors the command line flags. Only flags the user actually
// set override the config file.
type runOptions struct {
	configFile string
	algorithm  string
	algType    string
	mode       string
	metric     string
	server     string
	logLevel   string
	metrics    string
	pushURL    string
	linger     time.Duration
	threads    int
	threshold  float64
	hubCap     int64
	epsilon    float64
	json       bool
}

// algorithmForMode names the exact algorithm that runs mode.
func algorithmForMode(mode string) (string, error) {
	m, err := similarity.ParseMode(mode)
	if err != nil {
		return "", err
	}
	if m == similarity.ModePruned {
		return "jaccard-pruned", nil
	}
	return "similarity-hubfiltered", nil
}

// resolveConfig merges the config file, the positional edge list and the
// flags reported by changed into one validated configuration.
func resolveConfig(opts runOptions, changed func(string) bool, args []string) (*common.AlgorithmConfig, error) {
	config := &common.AlgorithmConfig{}
	if opts.configFile != "" {
		data, err := os.ReadFile(opts.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if config, err = common.DecodeConfig(data); err != nil {
			return nil, err
		}
	}
	if config.Parameters == nil {
		config.Parameters = make(map[string]interface{})
	}

	if len(args) > 0 {
		config.GraphConfig.FilePath = args[0]
	}
	if changed("type") {
		config.AlgorithmType = common.AlgorithmType(opts.algType)
	}
	if changed("threads") {
		config.WorkerConfig.NumWorkers = opts.threads
	}
	if changed("threshold") {
		config.Parameters[similarity.ParamThreshold] = opts.threshold
	}
	if changed("hub-cap") {
		config.Parameters[similarity.ParamHubCap] = int(opts.hubCap)
	}
	if changed("metric") {
		config.Parameters[similarity.ParamMetric] = opts.metric
	}
	if changed("epsilon") {
		config.Parameters["epsilon"] = opts.epsilon
	}
	if changed("server") {
		config.ServerAddress = opts.server
	}
	if changed("log-level") {
		config.Logging.Level = opts.logLevel
	}
	if changed("json") {
		config.Logging.JSON = opts.json
	}

	ledp := config.AlgorithmType == common.AlgorithmTypeLEDP
	switch {
	case changed("algorithm"):
		config.AlgorithmName = opts.algorithm
	case ledp:
		if config.AlgorithmName == "" {
			config.AlgorithmName = "noisy-similarity"
		}
	case changed("mode") || config.AlgorithmName == "":
		name, err := algorithmForMode(opts.mode)
		if err != nil {
			return nil, err
		}
		config.AlgorithmName = name
	}
	// The noisy wrapper picks its inner mode from a parameter.
	if ledp && changed("mode") {
		config.Parameters["mode"] = opts.mode
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

const exampleConfig = `algorithm_name: jaccard-pruned   # or similarity-hubfiltered, noisy-similarity
algorithm_type: exact            # or 'ledp'
server_address: ""               # optional: publish the report to a report-server

worker_config:
  num_workers: 8                 # 0 means one per CPU

graph_config:
  format: edgelist
  file_path: /path/to/graph.txt  # "u v" per line, '#' comments
  # OR specify edges directly:
  # num_vertices: 4
  # edges:
  #   - u: 0
  #     v: 1

parameters:
  threshold: 0.3                 # pruned mode only
  hub_cap: 1000                  # omit to disable hub filtering
  metric: jaccard                # jaccard, cosine or all
  # epsilon: 1.0                 # noisy-similarity only

logging:
  level: info
  json: false
`
