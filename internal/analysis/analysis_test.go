package analysis

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/backdrop/internal/scene"
	"github.com/san-kum/backdrop/internal/sim"
	"github.com/san-kum/backdrop/internal/world"
)

func TestPowerSpectrumPeak(t *testing.T) {
	data := make([]float64, 128)
	for i := range data {
		data[i] = 5 + math.Sin(2*math.Pi*float64(i)/16)
	}

	ps := PowerSpectrum(data)
	if len(ps) != 64 {
		t.Fatalf("expected 64 bins, got %d", len(ps))
	}
	if ps[0] > 1e-6 {
		t.Errorf("expected mean removed, got dc %v", ps[0])
	}

	period, ok := DominantPeriod(data)
	if !ok {
		t.Fatal("expected a dominant period")
	}
	if math.Abs(period-16) > 1e-9 {
		t.Errorf("expected period 16, got %v", period)
	}
}

func TestDominantPeriodFlat(t *testing.T) {
	tests := [][]float64{
		nil,
		{1},
		{3, 3, 3, 3, 3, 3, 3, 3},
	}
	for _, data := range tests {
		if _, ok := DominantPeriod(data); ok {
			t.Errorf("expected no period for %v", data)
		}
	}
}

func TestHeatmapAdd(t *testing.T) {
	h := NewHeatmap(scene.Bounds{Width: 100, Height: 50}, 10, 5)

	h.Add(scene.Point{X: 0, Y: 0})
	h.Add(scene.Point{X: 5, Y: 5})
	h.Add(scene.Point{X: 100, Y: 50})
	h.Add(scene.Point{X: 101, Y: 10})
	h.Add(scene.Point{X: -1, Y: 10})

	if h.Count(0, 0) != 2 {
		t.Errorf("expected 2 in first cell, got %d", h.Count(0, 0))
	}
	if h.Count(4, 9) != 1 {
		t.Errorf("expected far edge clamped into last cell, got %d", h.Count(4, 9))
	}
	if h.Total() != 3 || h.Dropped() != 2 {
		t.Errorf("expected 3 kept and 2 dropped, got %d and %d", h.Total(), h.Dropped())
	}
}

func TestHeatmapASCII(t *testing.T) {
	h := NewHeatmap(scene.Bounds{Width: 40, Height: 20}, 4, 2)
	for i := 0; i < 9; i++ {
		h.Add(scene.Point{X: 5, Y: 5})
	}
	h.Add(scene.Point{X: 35, Y: 15})

	lines := strings.Split(strings.TrimSuffix(h.ASCII(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if lines[0] != "+----+" || lines[3] != "+----+" {
		t.Errorf("unexpected border %q", lines[0])
	}
	if lines[1] != "|@   |" {
		t.Errorf("expected busiest cell at top left, got %q", lines[1])
	}
	if lines[2] != "|   .|" {
		t.Errorf("expected faint cell at bottom right, got %q", lines[2])
	}
}

func TestHeatmapObservesRun(t *testing.T) {
	b := scene.Bounds{Width: 400, Height: 300}
	h := NewHeatmap(b, 20, 10)

	s := sim.New(func(b scene.Bounds, seed int64) *world.World {
		opts := world.DefaultOptions()
		opts.SpawnChance = 1
		opts.Rand = rand.New(rand.NewSource(seed))
		opts.Clock = scene.NewMockClock(time.Unix(0, 0))
		return world.New(b, opts)
	})
	s.AddObserver(h)

	res, err := s.Run(context.Background(), sim.Config{Ticks: 1500, Bounds: b, Seed: 11})
	if err != nil {
		t.Fatal(err)
	}
	if res.Final.Spawns == 0 {
		t.Skip("no encounters for this seed")
	}
	if h.Total()+h.Dropped() == 0 {
		t.Error("expected heatmap to record particles")
	}
}
