package similarity

import (
	"context"
	"fmt"
	"testing"
)

func BenchmarkEngineRun(b *testing.B) {
	g := randomSimpleGraph(11, 20000, 200000)
	for _, mode := range []Mode{ModePruned, ModeHubFiltered} {
		for _, workers := range []int{1, 4} {
			cfg := Config{Workers: workers, Mode: mode, Threshold: 0.5, Metrics: MetricsAll}
			prepared, err := Prepare(g, cfg)
			if err != nil {
				b.Fatalf("prepare: %v", err)
			}
			engine, err := NewEngine(cfg)
			if err != nil {
				b.Fatalf("engine: %v", err)
			}
			b.Run(fmt.Sprintf("%v/workers=%d", mode, workers), func(b *testing.B) {
				for i := 0; i < b.N; i++ {
					if _, _, err := engine.Run(context.Background(), prepared); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
