package metrics

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/san-kum/backdrop/internal/scene"
	"github.com/san-kum/backdrop/internal/world"
)

func TestSpawnRate(t *testing.T) {
	m := NewSpawnRate()
	for _, n := range []int{0, 2, 1, 1} {
		m.Observe(world.Stats{LastSpawns: n})
	}
	if m.Value() != 1 {
		t.Errorf("expected 1 spawn per tick, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero rate after reset")
	}
}

func TestParticles(t *testing.T) {
	peak, mean := NewPeakParticles(), NewMeanParticles()
	for _, n := range []int{1, 5, 3, 3} {
		peak.Observe(world.Stats{Particles: n})
		mean.Observe(world.Stats{Particles: n})
	}
	if peak.Value() != 5 {
		t.Errorf("expected peak 5, got %f", peak.Value())
	}
	if mean.Value() != 3 {
		t.Errorf("expected mean 3, got %f", mean.Value())
	}
}

func TestChurn(t *testing.T) {
	c := NewChurn()
	if c.Value() != 0 {
		t.Error("expected zero churn before any tick")
	}
	c.Observe(world.Stats{Ticks: 10, Respawns: 4, Wraps: 1})
	if math.Abs(c.Value()-0.5) > 1e-12 {
		t.Errorf("expected churn 0.5, got %f", c.Value())
	}
}

func TestStandardOverWorld(t *testing.T) {
	opts := world.DefaultOptions()
	opts.Rand = rand.New(rand.NewSource(11))
	opts.Clock = scene.NewMockClock(time.Unix(0, 0))
	b := scene.Bounds{Width: 800, Height: 600}
	w := world.New(b, opts)

	ms := Standard()
	for i := 0; i < 500; i++ {
		w.Tick(b)
		for _, m := range ms {
			m.Observe(w.Stats())
		}
	}

	snap := Snapshot(ms)
	names := Names(snap)
	want := []string{"churn", "mean_particles", "peak_particles", "spawn_rate"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("expected %v, got %v", want, names)
		}
	}

	st := w.Stats()
	if got, exp := snap["spawn_rate"], float64(st.Spawns)/500; math.Abs(got-exp) > 1e-12 {
		t.Errorf("expected spawn rate %f, got %f", exp, got)
	}
	if snap["peak_particles"] < snap["mean_particles"] {
		t.Errorf("peak %f below mean %f", snap["peak_particles"], snap["mean_particles"])
	}
}
