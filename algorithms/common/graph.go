package common

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// maxLineBytes bounds a single edge list line; real lines are a few dozen bytes.
const maxLineBytes = 1 << 20

// LoadGraphData loads graph data from the configuration, either from
// graph_config.file_path or from edges listed inline.
func LoadGraphData(config *GraphInputConfig) (*GraphData, error) {
	var graphData *GraphData

	switch {
	case config.FilePath != "":
		switch config.Format {
		case "", "edgelist", "edge_list":
		default:
			return nil, fmt.Errorf("unsupported graph format: %s", config.Format)
		}
		g, err := loadEdgeListFromFile(config.FilePath)
		if err != nil {
			return nil, err
		}
		graphData = g

	case len(config.Edges) > 0 || config.NumVertices > 0:
		graphData = &GraphData{Edges: make([]Edge, len(config.Edges))}
		maxID := -1
		for i, e := range config.Edges {
			graphData.Edges[i] = Edge{U: e.U, V: e.V}
			maxID = max(maxID, int(e.U), int(e.V))
		}
		graphData.NumVertices = maxID + 1
		graphData.NumEdges = len(config.Edges)

	default:
		return nil, fmt.Errorf("no graph data provided: specify either file_path or edges")
	}

	// An explicit vertex count may add trailing isolated vertices, never drop ids.
	if config.NumVertices > 0 {
		if config.NumVertices < graphData.NumVertices {
			return nil, fmt.Errorf("%w: num_vertices %d is smaller than max id + 1 (%d)",
				ErrInvalidConfig, config.NumVertices, graphData.NumVertices)
		}
		graphData.NumVertices = config.NumVertices
	}

	return graphData, nil
}

// loadEdgeListFromFile loads an edge list from a file
func loadEdgeListFromFile(filePath string) (*GraphData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph file: %w", err)
	}
	defer file.Close()

	g, err := ReadEdgeList(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file %s: %w", filePath, err)
	}
	return g, nil
}

// ReadEdgeList parses an undirected edge list: one edge per line as two
// whitespace-separated non-negative integers. Blank lines and lines starting
// with '#' or '%' are skipped, extra columns are ignored. The vertex count is
// max(id)+1; duplicates and self-loops are kept as they are.
func ReadEdgeList(r io.Reader) (*GraphData, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	edges := []Edge{}
	var maxID int64 = -1
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == '%' {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: line %d: need 2 vertex ids (u v), got: %q", ErrMalformedInput, lineNo, line)
		}

		u, err := parseVertexID(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedInput, lineNo, err)
		}
		v, err := parseVertexID(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedInput, lineNo, err)
		}

		edges = append(edges, Edge{U: u, V: v})
		maxID = max(maxID, int64(u), int64(v))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan edge list: %w", err)
	}

	return &GraphData{
		NumVertices: int(maxID + 1),
		NumEdges:    len(edges),
		Edges:       edges,
	}, nil
}

// parseVertexID accepts ids in [0, MaxUint32) so that max(id)+1 still fits.
func parseVertexID(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid vertex ID: %s", s)
	}
	if id == math.MaxUint32 {
		return 0, fmt.Errorf("vertex ID out of range: %s", s)
	}
	return uint32(id), nil
}

// WriteEdgeList writes edges as "u v" lines.
func WriteEdgeList(w io.Writer, edges []Edge) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 24)
	for _, e := range edges {
		buf = strconv.AppendUint(buf[:0], uint64(e.U), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendUint(buf, uint64(e.V), 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("failed to write edge list: %w", err)
		}
	}
	return bw.Flush()
}

// FilterHubs drops every edge with an endpoint whose total degree in g is
// at least maxDegree. The vertex count is unchanged; vertices that lose all
// their edges become isolated.
func FilterHubs(g *GraphData, maxDegree uint32) *GraphData {
	degree := TotalDegrees(g)

	kept := make([]Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if degree[e.U] < maxDegree && degree[e.V] < maxDegree {
			kept = append(kept, e)
		}
	}

	return &GraphData{
		NumVertices: g.NumVertices,
		NumEdges:    len(kept),
		Edges:       kept,
	}
}
