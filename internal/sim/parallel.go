package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/backdrop/internal/metrics"
)

// Ensemble runs the same configuration over consecutive seeds concurrently.
// Each run gets its own simulator and metric set.
type Ensemble struct {
	build     Builder
	metrics   func() []metrics.Metric
	numRuns   int
	seedStart int64
}

func NewEnsemble(build Builder, newMetrics func() []metrics.Metric, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, metrics: newMetrics, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		i := i
		g.Go(func() error {
			run := cfg
			run.Seed = e.seedStart + int64(i)

			s := New(e.build)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, run)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// MeanMetrics averages each metric across results.
func MeanMetrics(results []*Result) map[string]float64 {
	out := make(map[string]float64)
	if len(results) == 0 {
		return out
	}
	for _, r := range results {
		for k, v := range r.Metrics {
			out[k] += v
		}
	}
	for k := range out {
		out[k] /= float64(len(results))
	}
	return out
}
