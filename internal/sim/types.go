package sim

import (
	"errors"

	"github.com/san-kum/backdrop/internal/scene"
	"github.com/san-kum/backdrop/internal/world"
)

var ErrInvalidRun = errors.New("sim: invalid run configuration")

// Builder creates the world for one run from its seed.
type Builder func(b scene.Bounds, seed int64) *world.World

type Observer interface {
	OnTick(tick int, w *world.World)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(tick int, w *world.World)

func (f ObserverFunc) OnTick(tick int, w *world.World) { f(tick, w) }

// Resize replaces the bounds before tick At (zero based).
type Resize struct {
	At     int
	Bounds scene.Bounds
}

type Config struct {
	Ticks   int
	Bounds  scene.Bounds
	Seed    int64
	Resizes []Resize
}

type Result struct {
	Seed      int64
	Ticks     int
	Particles []float64
	Final     world.Stats
	Metrics   map[string]float64
}
