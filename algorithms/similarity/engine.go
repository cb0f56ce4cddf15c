package similarity

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mundrapranay/neighborsim/algorithms/common"
)

// ctxCheckInterval is how many source vertices a worker processes between
// cancellation checks.
const ctxCheckInterval = 1024

// Engine computes similarity histograms over prepared graphs.
type Engine struct {
	cfg      Config
	measures []measure
}

// NewEngine validates cfg and returns an engine for it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ms := make([]measure, len(cfg.Metrics))
	for i, m := range cfg.Metrics {
		ms[i] = measureFor(m)
	}
	return &Engine{cfg: cfg, measures: ms}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Run scores every unordered pair of vertices that shares at least one
// admissible common neighbor and returns the merged histogram. Source
// vertices are handed out one at a time from a shared counter, so skewed
// degree distributions balance across workers. The histogram does not
// depend on the worker count.
func (e *Engine) Run(ctx context.Context, g *Graph) (*common.Histogram, *common.RunStats, error) {
	if g.Mode != e.cfg.Mode {
		return nil, nil, fmt.Errorf("%w: graph prepared for mode %v, engine runs %v", common.ErrInvalidConfig, g.Mode, e.cfg.Mode)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	n := g.NumVertices()
	workers := max(1, min(e.cfg.workers(), n))
	mode := e.cfg.Mode.String()
	log := e.cfg.Logger.With().Str("mode", mode).Logger()

	hist := common.NewHistogram(e.cfg.Metrics...)
	stats := &common.RunStats{Workers: workers, MaxDegree: g.CSR.MaxDegree()}

	log.Debug().
		Int("vertices", n).
		Int("entries", g.CSR.NumEntries()).
		Int("workers", workers).
		Float64("threshold", e.cfg.Threshold).
		Bool("hub_filtered", e.cfg.HubFiltered).
		Uint32("hub_cap", e.cfg.HubCap).
		Msg("similarity run started")

	start := time.Now()
	var (
		next uint64
		mu   sync.Mutex
	)
	grp, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		grp.Go(func() error {
			w := e.newWorker(g)
			for {
				u := atomic.AddUint64(&next, 1) - 1
				if u >= uint64(n) {
					break
				}
				if u%ctxCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				w.process(uint32(u))
			}

			mu.Lock()
			defer mu.Unlock()
			if err := hist.Merge(w.hist); err != nil {
				return err
			}
			addStats(stats, &w.stats)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		runsTotal.WithLabelValues(mode, "error").Inc()
		log.Warn().Err(err).Msg("similarity run aborted")
		return nil, nil, err
	}

	stats.ComputeTime = time.Since(start)
	runsTotal.WithLabelValues(mode, "success").Inc()
	runDuration.WithLabelValues(mode).Observe(stats.ComputeTime.Seconds())
	pairsTotal.WithLabelValues(mode).Add(float64(stats.CandidatePairs))
	prunedScansTotal.Add(float64(stats.PrunedScans))

	log.Debug().
		Uint64("pairs", stats.CandidatePairs).
		Uint64("two_hop_steps", stats.TwoHopSteps).
		Uint64("pruned_scans", stats.PrunedScans).
		Uint64("skipped_hubs", stats.SkippedHubs).
		Dur("elapsed", stats.ComputeTime).
		Msg("similarity run finished")

	return hist, stats, nil
}

func addStats(dst, src *common.RunStats) {
	dst.NodesProcessed += src.NodesProcessed
	dst.CandidatePairs += src.CandidatePairs
	dst.TwoHopSteps += src.TwoHopSteps
	dst.PrunedScans += src.PrunedScans
	dst.SkippedHubs += src.SkippedHubs
}

// worker owns a scratch area and a local histogram; nothing in it is shared.
type worker struct {
	g         *Graph
	eff       []uint32
	threshold float64
	measures  []measure
	scratch   *scratch
	hist      *common.Histogram
	stats     common.RunStats
}

func (e *Engine) newWorker(g *Graph) *worker {
	return &worker{
		g:         g,
		eff:       g.Degrees.Effective,
		threshold: e.cfg.Threshold,
		measures:  e.measures,
		scratch:   newScratch(g.NumVertices()),
		hist:      common.NewHistogram(e.cfg.Metrics...),
	}
}

func (w *worker) process(u uint32) {
	w.stats.NodesProcessed++
	switch w.g.Mode {
	case ModePruned:
		w.expandPruned(u)
	case ModeHubFiltered:
		w.expandHubFiltered(u)
	}
	w.score(u)
	w.scratch.reset()
}

// expandPruned counts 2-hop paths u-v-w with w ranked after u. Slices are
// ascending in ranked id, hence in effective degree, so once
// eff[u]/eff[w] drops below the threshold it stays below for the rest of
// the slice.
func (w *worker) expandPruned(u uint32) {
	g := w.g
	du := float64(w.eff[u])
	for _, v := range g.CSR.Adjacent(u) {
		if w.eff[v] == 0 {
			continue
		}
		if g.Degrees.IsHub(v) {
			w.stats.SkippedHubs++
			continue
		}
		adj := g.CSR.Adjacent(v)
		for _, x := range adj[searchAfter(adj, u):] {
			if du/float64(w.eff[x]) < w.threshold {
				w.stats.PrunedScans++
				break
			}
			w.scratch.visit(x)
			w.stats.TwoHopSteps++
		}
	}
}

// expandHubFiltered counts 2-hop paths u-v-w with w > u. Slices are
// descending, so the scan stops when it reaches u. Only hub intermediates
// are skipped: a non-hub v whose neighbors are all hubs still links them.
func (w *worker) expandHubFiltered(u uint32) {
	g := w.g
	for _, v := range g.CSR.Adjacent(u) {
		if g.Degrees.IsHub(v) {
			w.stats.SkippedHubs++
			continue
		}
		for _, x := range g.CSR.Adjacent(v) {
			if x == u {
				break
			}
			w.scratch.visit(x)
			w.stats.TwoHopSteps++
		}
	}
}

func (w *worker) score(u uint32) {
	du := w.eff[u]
	for _, x := range w.scratch.candidates {
		inter := w.scratch.inter[x]
		dw := w.eff[x]
		for i, m := range w.measures {
			w.hist.Add(i, m(inter, du, dw))
		}
	}
	w.stats.CandidatePairs += uint64(len(w.scratch.candidates))
}

// Compute prepares g and runs the engine once.
func Compute(ctx context.Context, g *common.GraphData, cfg Config) (*common.Histogram, *common.RunStats, error) {
	engine, err := NewEngine(cfg)
	if err != nil {
		return nil, nil, err
	}
	start := time.Now()
	prepared, err := Prepare(g, cfg)
	if err != nil {
		return nil, nil, err
	}
	prepareTime := time.Since(start)

	hist, stats, err := engine.Run(ctx, prepared)
	if err != nil {
		return nil, nil, err
	}
	stats.PrepareTime = prepareTime
	return hist, stats, nil
}
