package similarity

import (
	"fmt"

	"github.com/mundrapranay/neighborsim/algorithms/common"
)

// Graph is the engine-ready form of an edge list: a CSR in the layout the
// mode requires and the degree arrays indexed in the CSR's id space.
type Graph struct {
	CSR     *common.CSR
	Degrees *common.Degrees

	// Perm is the degree ranking applied in ModePruned, nil otherwise.
	Perm *common.Permutation

	Mode Mode
}

// NumVertices returns the number of vertices in the prepared graph.
func (g *Graph) NumVertices() int {
	return g.CSR.NumVertices()
}

// Prepare computes degrees and builds the CSR for cfg.Mode. ModePruned
// relabels vertices by ascending effective degree and sorts slices
// ascending; ModeHubFiltered keeps original ids and sorts descending.
func Prepare(g *common.GraphData, cfg Config) (*Graph, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	deg := common.ComputeDegrees(g, cfg.HubCap, cfg.HubFiltered)

	switch cfg.Mode {
	case ModePruned:
		perm := common.RankByDegree(deg.Effective)
		ranked := deg.Permute(perm)
		csr, err := common.BuildCSR(g.NumVertices, perm.Relabel(g.Edges), ranked.Total, common.Ascending)
		if err != nil {
			return nil, fmt.Errorf("failed to build ranked CSR: %w", err)
		}
		return &Graph{CSR: csr, Degrees: ranked, Perm: perm, Mode: ModePruned}, nil

	case ModeHubFiltered:
		csr, err := common.BuildCSR(g.NumVertices, g.Edges, deg.Total, common.Descending)
		if err != nil {
			return nil, fmt.Errorf("failed to build CSR: %w", err)
		}
		return &Graph{CSR: csr, Degrees: deg, Mode: ModeHubFiltered}, nil

	default:
		return nil, fmt.Errorf("%w: unknown mode %v", common.ErrInvalidConfig, cfg.Mode)
	}
}
