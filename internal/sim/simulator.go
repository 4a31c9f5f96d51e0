package sim

import (
	"context"
	"fmt"
	"sort"

	"github.com/san-kum/backdrop/internal/metrics"
	"github.com/san-kum/backdrop/internal/world"
)

// Simulator ticks worlds without a display. Metrics and observers see every
// tick in order.
type Simulator struct {
	build     Builder
	metrics   []metrics.Metric
	observers []Observer
}

func New(build Builder) *Simulator {
	return &Simulator{
		build:     build,
		metrics:   make([]metrics.Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m metrics.Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)     { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Seed:      cfg.Seed,
		Particles: make([]float64, 0, cfg.Ticks),
		Metrics:   make(map[string]float64),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	err := s.RunWithCallback(ctx, cfg, func(tick int, w *world.World) bool {
		st := w.Stats()
		for _, m := range s.metrics {
			m.Observe(st)
		}
		for _, obs := range s.observers {
			obs.OnTick(tick, w)
		}
		result.Particles = append(result.Particles, float64(st.Particles))
		result.Final = st
		result.Ticks++
		return true
	})

	for k, v := range metrics.Snapshot(s.metrics) {
		result.Metrics[k] = v
	}
	return result, err
}

// RunWithCallback ticks a fresh world and calls fn after each tick. Returning
// false from fn ends the run early without error.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, fn func(tick int, w *world.World) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	resizes := append([]Resize(nil), cfg.Resizes...)
	sort.SliceStable(resizes, func(i, j int) bool { return resizes[i].At < resizes[j].At })

	b := cfg.Bounds
	w := s.build(b, cfg.Seed)
	for tick := 0; tick < cfg.Ticks; tick++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		for len(resizes) > 0 && resizes[0].At <= tick {
			b = resizes[0].Bounds
			resizes = resizes[1:]
		}

		w.Tick(b)
		if !fn(tick, w) {
			return nil
		}
	}
	return nil
}

func validateConfig(cfg Config) error {
	if cfg.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive, got %d", ErrInvalidRun, cfg.Ticks)
	}
	if err := cfg.Bounds.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRun, err)
	}
	for _, r := range cfg.Resizes {
		if err := r.Bounds.Validate(); err != nil {
			return fmt.Errorf("%w: resize at tick %d: %w", ErrInvalidRun, r.At, err)
		}
	}
	return nil
}
