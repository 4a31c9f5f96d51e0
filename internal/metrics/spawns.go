package metrics

import "github.com/san-kum/backdrop/internal/world"

// SpawnRate is the mean number of emoji spawns per tick.
type SpawnRate struct {
	name    string
	spawns  int
	samples int
}

func NewSpawnRate() *SpawnRate {
	return &SpawnRate{name: "spawn_rate"}
}

func (s *SpawnRate) Name() string { return s.name }

func (s *SpawnRate) Observe(st world.Stats) {
	s.spawns += st.LastSpawns
	s.samples++
}

func (s *SpawnRate) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.spawns) / float64(s.samples)
}

func (s *SpawnRate) Reset() {
	s.spawns = 0
	s.samples = 0
}
