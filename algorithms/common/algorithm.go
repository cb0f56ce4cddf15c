package common

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"
)

// AlgorithmType represents the type of algorithm
type AlgorithmType string

const (
	AlgorithmTypeExact AlgorithmType = "exact"
	AlgorithmTypeLEDP  AlgorithmType = "ledp"
)

var (
	// ErrInvalidConfig is wrapped by every configuration validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMalformedInput is wrapped by every edge list parse failure.
	ErrMalformedInput = errors.New("malformed input")
)

// GraphAlgorithm is the interface that all similarity algorithms must implement.
// An algorithm is initialized once with the graph and its parameters, then
// executed exactly once.
type GraphAlgorithm interface {
	// Name returns the name of the algorithm
	Name() string

	// Type returns the algorithm type (exact or LEDP)
	Type() AlgorithmType

	// Initialize prepares the algorithm with graph data and configuration.
	// Parameter validation happens here so that configuration errors surface
	// before any graph work begins.
	Initialize(ctx context.Context, graphData *GraphData, config map[string]interface{}) error

	// Execute runs the similarity computation and returns its result.
	Execute(ctx context.Context) (*AlgorithmResult, error)

	// GetResult returns the result of the last Execute call, or nil.
	GetResult() *AlgorithmResult
}

// GraphData represents the input graph for algorithms
type GraphData struct {
	// Number of vertices. Ids in [0, NumVertices) that never appear in an
	// edge are isolated vertices.
	NumVertices int

	// Number of undirected edges (duplicates and self-loops included)
	NumEdges int

	// Edges: list of (u, v) pairs where u and v are vertex IDs
	Edges []Edge
}

// Edge represents a single undirected edge in the graph
type Edge struct {
	U uint32
	V uint32
}

// Validate checks that every endpoint lies in [0, NumVertices).
func (g *GraphData) Validate() error {
	if g.NumEdges != len(g.Edges) {
		return fmt.Errorf("%w: num_edges %d does not match %d edges", ErrMalformedInput, g.NumEdges, len(g.Edges))
	}
	n := uint64(g.NumVertices)
	for i, e := range g.Edges {
		if uint64(e.U) >= n || uint64(e.V) >= n {
			return fmt.Errorf("%w: edge %d (%d, %d) out of range for %d vertices", ErrMalformedInput, i, e.U, e.V, g.NumVertices)
		}
	}
	return nil
}

// RunStats holds execution counters gathered by the similarity engine.
type RunStats struct {
	Workers        int           `json:"workers" yaml:"workers"`
	NodesProcessed uint64        `json:"nodes_processed" yaml:"nodes_processed"`
	CandidatePairs uint64        `json:"candidate_pairs" yaml:"candidate_pairs"`
	TwoHopSteps    uint64        `json:"two_hop_steps" yaml:"two_hop_steps"`
	PrunedScans    uint64        `json:"pruned_scans" yaml:"pruned_scans"`
	SkippedHubs    uint64        `json:"skipped_hubs" yaml:"skipped_hubs"`
	MaxDegree      uint32        `json:"max_degree" yaml:"max_degree"`
	PrepareTime    time.Duration `json:"prepare_time" yaml:"prepare_time"`
	ComputeTime    time.Duration `json:"compute_time" yaml:"compute_time"`
}

// AlgorithmResult represents the final output of an algorithm execution
type AlgorithmResult struct {
	RunID         string        `json:"run_id"`
	AlgorithmName string        `json:"algorithm_name"`
	AlgorithmType AlgorithmType `json:"algorithm_type"`

	// Mode is "pruned" or "hubfiltered".
	Mode        string  `json:"mode"`
	Threshold   float64 `json:"threshold"`
	HubCap      uint32  `json:"hub_cap,omitempty"`
	HubFiltered bool    `json:"hub_filtered"`

	// Exact is false when some buckets are known to be under-counted: the
	// ratio-pruned mode with a positive threshold, or a noisy release.
	Exact bool `json:"exact"`

	NumVertices int `json:"num_vertices"`
	NumEdges    int `json:"num_edges"`

	Histogram *Histogram `json:"histogram"`
	Stats     RunStats   `json:"stats"`

	// Metadata: algorithm-specific extras (noise parameters, degree summary, ...)
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// AlgorithmConfig represents the configuration for an algorithm
type AlgorithmConfig struct {
	// Algorithm name (must match an available algorithm)
	AlgorithmName string `yaml:"algorithm_name" json:"algorithm_name"`

	// Algorithm type
	AlgorithmType AlgorithmType `yaml:"algorithm_type" json:"algorithm_type"`

	// Report server address. Empty means the report is only printed.
	ServerAddress string `yaml:"server_address" json:"server_address"`

	// Worker configuration
	WorkerConfig WorkerConfig `yaml:"worker_config" json:"worker_config"`

	// Algorithm-specific parameters
	Parameters map[string]interface{} `yaml:"parameters" json:"parameters"`

	// Graph input configuration
	GraphConfig GraphInputConfig `yaml:"graph_config" json:"graph_config"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// WorkerConfig specifies the size of the local worker pool
type WorkerConfig struct {
	// Number of workers; 0 means one per CPU
	NumWorkers int `yaml:"num_workers" json:"num_workers"`
}

// LoggingConfig controls the zerolog logger built by the CLIs
type LoggingConfig struct {
	// Level: trace, debug, info, warn, error
	Level string `yaml:"level" json:"level"`

	// JSON switches from the console writer to raw JSON lines
	JSON bool `yaml:"json" json:"json"`
}

// GraphInputConfig specifies how to load the graph
type GraphInputConfig struct {
	// Input format: only "edgelist" is supported
	Format string `yaml:"format" json:"format"`

	// Input file path (if loading from file)
	FilePath string `yaml:"file_path" json:"file_path"`

	// Or: direct specification in config
	Edges []struct {
		U uint32 `yaml:"u" json:"u"`
		V uint32 `yaml:"v" json:"v"`
	} `yaml:"edges" json:"edges"`

	// Number of vertices (if not inferable from edges)
	NumVertices int `yaml:"num_vertices" json:"num_vertices"`
}

// ApplyDefaults fills in zero values that have a sensible default.
func (c *AlgorithmConfig) ApplyDefaults() {
	if c.AlgorithmType == "" {
		c.AlgorithmType = AlgorithmTypeExact
	}
	if c.WorkerConfig.NumWorkers == 0 {
		c.WorkerConfig.NumWorkers = runtime.NumCPU()
	}
	if c.GraphConfig.Format == "" {
		c.GraphConfig.Format = "edgelist"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Parameters == nil {
		c.Parameters = make(map[string]interface{})
	}
}

// Validate checks if the algorithm config is valid
func (c *AlgorithmConfig) Validate() error {
	if c.AlgorithmName == "" {
		return fmt.Errorf("%w: algorithm_name is required", ErrInvalidConfig)
	}

	if c.AlgorithmType != AlgorithmTypeExact && c.AlgorithmType != AlgorithmTypeLEDP {
		return fmt.Errorf("%w: algorithm_type must be 'exact' or 'ledp', got: %s", ErrInvalidConfig, c.AlgorithmType)
	}

	if c.WorkerConfig.NumWorkers <= 0 {
		return fmt.Errorf("%w: num_workers must be > 0, got: %d", ErrInvalidConfig, c.WorkerConfig.NumWorkers)
	}

	switch c.GraphConfig.Format {
	case "edgelist", "edge_list":
	default:
		return fmt.Errorf("%w: unsupported graph format: %s", ErrInvalidConfig, c.GraphConfig.Format)
	}

	if c.GraphConfig.FilePath == "" && len(c.GraphConfig.Edges) == 0 && c.GraphConfig.NumVertices == 0 {
		return fmt.Errorf("%w: graph_config needs file_path, edges or num_vertices", ErrInvalidConfig)
	}

	if c.GraphConfig.NumVertices < 0 {
		return fmt.Errorf("%w: num_vertices must be >= 0, got: %d", ErrInvalidConfig, c.GraphConfig.NumVertices)
	}

	return nil
}
