package metrics

import (
	"sort"

	"github.com/san-kum/backdrop/internal/world"
)

// Metric folds per-tick world stats into one number.
type Metric interface {
	Name() string
	Observe(s world.Stats)
	Value() float64
	Reset()
}

func Standard() []Metric {
	return []Metric{
		NewSpawnRate(),
		NewPeakParticles(),
		NewMeanParticles(),
		NewChurn(),
	}
}

// Snapshot collects the current value of each metric by name.
func Snapshot(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Names returns the keys of a snapshot in stable order.
func Names(snap map[string]float64) []string {
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
