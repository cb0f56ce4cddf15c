package similarity

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mundrapranay/neighborsim/algorithms/common"
)

func graphOf(n int, pairs ...[2]uint32) *common.GraphData {
	edges := make([]common.Edge, len(pairs))
	for i, p := range pairs {
		edges[i] = common.Edge{U: p[0], V: p[1]}
	}
	return &common.GraphData{NumVertices: n, NumEdges: len(edges), Edges: edges}
}

// randomSimpleGraph returns a graph without self-loops or parallel edges.
func randomSimpleGraph(seed uint64, n, m int) *common.GraphData {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	seen := make(map[[2]uint32]bool)
	var pairs [][2]uint32
	for len(pairs) < m {
		u, v := uint32(rng.IntN(n)), uint32(rng.IntN(n))
		if u == v {
			continue
		}
		key := [2]uint32{min(u, v), max(u, v)}
		if seen[key] {
			continue
		}
		seen[key] = true
		pairs = append(pairs, [2]uint32{u, v})
	}
	return graphOf(n, pairs...)
}

// bruteForce scores every pair u < w directly from adjacency sets. Hub
// intermediates never count; in pruned mode neither do intermediates with
// no non-hub neighbor.
func bruteForce(g *common.GraphData, mode Mode, hubCap uint32, filtered bool, metrics []common.Metric) *common.Histogram {
	deg := common.ComputeDegrees(g, hubCap, filtered)
	adj := make([]map[uint32]bool, g.NumVertices)
	for i := range adj {
		adj[i] = make(map[uint32]bool)
	}
	for _, e := range g.Edges {
		adj[e.U][e.V] = true
		adj[e.V][e.U] = true
	}

	h := common.NewHistogram(metrics...)
	for u := 0; u < g.NumVertices; u++ {
		for w := u + 1; w < g.NumVertices; w++ {
			var inter uint32
			for v := range adj[u] {
				if !adj[w][v] || deg.IsHub(v) {
					continue
				}
				if mode == ModeHubFiltered || deg.Effective[v] > 0 {
					inter++
				}
			}
			if inter == 0 {
				continue
			}
			for i, m := range metrics {
				h.Add(i, measureFor(m)(inter, deg.Effective[u], deg.Effective[w]))
			}
		}
	}
	return h
}

func runEngine(t *testing.T, g *common.GraphData, cfg Config) (*common.Histogram, *common.RunStats) {
	t.Helper()
	h, stats, err := Compute(context.Background(), g, cfg)
	require.NoError(t, err)
	return h, stats
}

func TestCompute_FourNodeScenario(t *testing.T) {
	g := graphOf(4, [2]uint32{0, 1}, [2]uint32{0, 2}, [2]uint32{1, 2}, [2]uint32{2, 3})

	for _, mode := range []Mode{ModePruned, ModeHubFiltered} {
		t.Run(mode.String(), func(t *testing.T) {
			h, stats := runEngine(t, g, Config{Workers: 2, Mode: mode, Metrics: MetricsAll})

			cos, jac, f1 := h.Index(common.MetricCosine), h.Index(common.MetricJaccard), h.Index(common.MetricF1)
			assert.Equal(t, []uint64{0, 0, 2, 1, 0, 2, 0, 0, 0, 0}, h.MetricCounts(jac))
			assert.Equal(t, []uint64{0, 0, 0, 0, 2, 1, 0, 2, 0, 0}, h.MetricCounts(cos))
			assert.Equal(t, []uint64{0, 0, 0, 0, 2, 1, 2, 0, 0, 0}, h.MetricCounts(f1))
			assert.Equal(t, uint64(5), stats.CandidatePairs)
			assert.Equal(t, uint64(4), stats.NodesProcessed)
		})
	}
}

func TestJaccard_SharedNeighborBucket(t *testing.T) {
	// Vertices 0 and 2 of the four-node scenario: one common neighbor, degrees 2 and 3.
	val := Jaccard(1, 2, 3)
	assert.InDelta(t, 0.25, val, 1e-12)
	assert.Equal(t, 2, common.BucketIndex(val))
}

func TestCompute_MatchesBruteForce(t *testing.T) {
	cases := []struct {
		name     string
		n, m     int
		hubCap   uint32
		filtered bool
	}{
		{name: "sparse", n: 60, m: 120},
		{name: "dense", n: 40, m: 400},
		{name: "hub-filtered", n: 80, m: 300, hubCap: 8, filtered: true},
		{name: "tight-cap", n: 50, m: 200, hubCap: 4, filtered: true},
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := randomSimpleGraph(uint64(i+1), tc.n, tc.m)
			for _, mode := range []Mode{ModePruned, ModeHubFiltered} {
				want := bruteForce(g, mode, tc.hubCap, tc.filtered, MetricsAll)
				got, _ := runEngine(t, g, Config{
					Workers:     4,
					Mode:        mode,
					HubCap:      tc.hubCap,
					HubFiltered: tc.filtered,
					Metrics:     MetricsAll,
				})
				assert.Truef(t, want.Equal(got), "mode %v: want %v, got %v", mode, want.Counts, got.Counts)
			}
		})
	}
}

func TestCompute_HubFilteredKeepsAllHubIntermediate(t *testing.T) {
	// 0 and 1 are hubs (degree 3, cap 2) sharing vertex 2, whose only
	// neighbors are those hubs, so its effective degree is 0.
	g := graphOf(7, [2]uint32{0, 2}, [2]uint32{1, 2}, [2]uint32{0, 3}, [2]uint32{0, 4}, [2]uint32{1, 5}, [2]uint32{1, 6})
	cfg := Config{Workers: 2, Mode: ModeHubFiltered, HubCap: 2, HubFiltered: true, Metrics: MetricsAll}

	h, _ := runEngine(t, g, cfg)
	assert.Equal(t, uint64(1), h.Total(0))
	// I = 1, d0 = d1 = 3: cosine 1/3, Jaccard 1/5, F1 1/3.
	assert.Equal(t, uint64(1), h.Bucket(h.Index(common.MetricCosine), 3))
	assert.Equal(t, uint64(1), h.Bucket(h.Index(common.MetricJaccard), 2))
	assert.Equal(t, uint64(1), h.Bucket(h.Index(common.MetricF1), 3))
	assert.True(t, bruteForce(g, ModeHubFiltered, 2, true, MetricsAll).Equal(h))

	// The pruned walk skips intermediates without a non-hub neighbor.
	cfg.Mode = ModePruned
	h, _ = runEngine(t, g, cfg)
	assert.True(t, h.IsZero())
	assert.True(t, bruteForce(g, ModePruned, 2, true, MetricsAll).Equal(h))
}

func TestCompute_DeterministicAcrossWorkerCounts(t *testing.T) {
	g := randomSimpleGraph(42, 500, 4000)
	for _, mode := range []Mode{ModePruned, ModeHubFiltered} {
		base, _ := runEngine(t, g, Config{Workers: 1, Mode: mode, Threshold: 0.3, Metrics: MetricsAll})
		for _, workers := range []int{2, 3, 8, 64} {
			got, stats := runEngine(t, g, Config{Workers: workers, Mode: mode, Threshold: 0.3, Metrics: MetricsAll})
			assert.Truef(t, base.Equal(got), "mode %v with %d workers diverged", mode, workers)
			assert.Equal(t, uint64(500), stats.NodesProcessed)
		}
	}
}

func TestCompute_ThresholdPruning(t *testing.T) {
	g := randomSimpleGraph(7, 300, 2500)
	exact, _ := runEngine(t, g, Config{Workers: 4, Mode: ModePruned, Metrics: MetricsJaccard})

	prevTotal := exact.Total(0)
	prevSteps := uint64(math.MaxUint64)
	for _, threshold := range []float64{0.1, 0.25, 0.5, 0.8, 1} {
		h, stats := runEngine(t, g, Config{Workers: 4, Mode: ModePruned, Threshold: threshold, Metrics: MetricsJaccard})

		total := h.Total(0)
		assert.LessOrEqual(t, total, prevTotal, "threshold %v", threshold)
		prevTotal = total
		assert.LessOrEqual(t, stats.TwoHopSteps, prevSteps, "threshold %v", threshold)
		prevSteps = stats.TwoHopSteps

		// Jaccard never exceeds the degree ratio, so buckets starting at or
		// above the threshold are unaffected by pruning.
		for k := 0; k < common.BucketsPerMetric; k++ {
			if float64(k)/10 >= threshold {
				assert.Equal(t, exact.Bucket(0, k), h.Bucket(0, k), "threshold %v bucket %d", threshold, k)
			}
		}
		if threshold > 0.5 {
			assert.Positive(t, stats.PrunedScans)
		}
	}
}

func TestCompute_StarWithHubCap(t *testing.T) {
	pairs := make([][2]uint32, 0, 1000)
	for i := uint32(1); i <= 1000; i++ {
		pairs = append(pairs, [2]uint32{0, i})
	}
	g := graphOf(1001, pairs...)

	for _, mode := range []Mode{ModePruned, ModeHubFiltered} {
		t.Run(mode.String(), func(t *testing.T) {
			h, stats := runEngine(t, g, Config{Workers: 4, Mode: mode, HubCap: 10, HubFiltered: true, Metrics: MetricsJaccard})
			assert.True(t, h.IsZero())
			assert.Equal(t, uint64(0), stats.CandidatePairs)
			assert.Equal(t, uint64(1000), stats.SkippedHubs)

			h, _ = runEngine(t, g, Config{Workers: 4, Mode: mode, Metrics: MetricsJaccard})
			assert.Equal(t, uint64(1000*999/2), h.Bucket(0, 9))
			assert.Equal(t, uint64(1000*999/2), h.Total(0))
		})
	}
}

func TestCompute_EmptyGraphs(t *testing.T) {
	for _, g := range []*common.GraphData{
		{NumVertices: 0},
		{NumVertices: 10},
	} {
		for _, mode := range []Mode{ModePruned, ModeHubFiltered} {
			h, stats := runEngine(t, g, Config{Workers: 4, Mode: mode, Metrics: MetricsAll})
			assert.True(t, h.IsZero())
			assert.Len(t, h.Counts, 30)
			assert.Equal(t, uint64(g.NumVertices), stats.NodesProcessed)
		}
	}
}

func TestCompute_ParallelEdgesCountTwice(t *testing.T) {
	g := graphOf(7, [2]uint32{5, 6}, [2]uint32{5, 6}, [2]uint32{4, 5})
	prepared, err := Prepare(g, Config{Mode: ModeHubFiltered, Metrics: MetricsJaccard})
	require.NoError(t, err)
	assert.Equal(t, uint32(3), prepared.Degrees.Total[5])
	assert.Equal(t, uint32(2), prepared.Degrees.Total[6])
	assert.Equal(t, []uint32{6, 6, 4}, prepared.CSR.Adjacent(5))
}

func TestRun_Cancelled(t *testing.T) {
	g := randomSimpleGraph(3, 100, 300)
	cfg := Config{Workers: 2, Mode: ModePruned, Metrics: MetricsJaccard}
	prepared, err := Prepare(g, cfg)
	require.NoError(t, err)
	engine, err := NewEngine(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = engine.Run(ctx, prepared)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRun_ModeMismatch(t *testing.T) {
	g := randomSimpleGraph(5, 20, 40)
	prepared, err := Prepare(g, Config{Mode: ModeHubFiltered, Metrics: MetricsJaccard})
	require.NoError(t, err)
	engine, err := NewEngine(Config{Mode: ModePruned, Metrics: MetricsJaccard})
	require.NoError(t, err)

	_, _, err = engine.Run(context.Background(), prepared)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestPrepare_PrunedLayout(t *testing.T) {
	g := graphOf(4, [2]uint32{0, 1}, [2]uint32{0, 2}, [2]uint32{1, 2}, [2]uint32{2, 3})
	prepared, err := Prepare(g, Config{Mode: ModePruned, Metrics: MetricsJaccard})
	require.NoError(t, err)
	require.NoError(t, prepared.Perm.Validate())

	// Degrees 2, 2, 3, 1 rank as 3, 0, 1, 2.
	assert.Equal(t, []uint32{1, 2, 3, 0}, prepared.Perm.Rank)
	assert.Equal(t, []uint32{1, 2, 2, 3}, prepared.Degrees.Total)
	assert.Equal(t, common.Ascending, prepared.CSR.Order)
	for v := 0; v < prepared.NumVertices(); v++ {
		adj := prepared.CSR.Adjacent(uint32(v))
		for i := 1; i < len(adj); i++ {
			assert.LessOrEqual(t, adj[i-1], adj[i])
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	bad := []Config{
		{Workers: -1, Metrics: MetricsJaccard},
		{Mode: Mode(9), Metrics: MetricsJaccard},
		{Threshold: 1.5, Metrics: MetricsJaccard},
		{Threshold: -0.1, Metrics: MetricsJaccard},
		{},
		{Metrics: []common.Metric{"dice"}},
	}
	for i, cfg := range bad {
		assert.ErrorIs(t, cfg.Validate(), common.ErrInvalidConfig, "case %d", i)
	}

	good := DefaultConfig()
	assert.NoError(t, good.Validate())
}

func TestParseModeAndMetrics(t *testing.T) {
	m, err := ParseMode("hub-filtered")
	require.NoError(t, err)
	assert.Equal(t, ModeHubFiltered, m)
	m, err = ParseMode("Pruned")
	require.NoError(t, err)
	assert.Equal(t, ModePruned, m)
	_, err = ParseMode("fast")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	ms, err := ParseMetricSet("all")
	require.NoError(t, err)
	assert.Equal(t, MetricsAll, ms)
	_, err = ParseMetricSet("dice")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}
