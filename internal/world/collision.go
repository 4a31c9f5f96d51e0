package world

import (
	"math"

	"github.com/san-kum/backdrop/internal/agents"
	"github.com/san-kum/backdrop/internal/scene"
)

const (
	DefaultEngageDistance    = 10.0
	DefaultDisengageDistance = 20.0
	DefaultSpawnChance       = 0.5

	// spawnLift places a reaction glyph above the taller of the two heads.
	spawnLift = 20.0
)

// PairKey packs an unordered silhouette index pair, smaller index high.
type PairKey uint64

func MakePairKey(i, j int) PairKey {
	if i > j {
		i, j = j, i
	}
	return PairKey(uint64(uint32(i))<<32 | uint64(uint32(j)))
}

func (k PairKey) Indices() (int, int) {
	return int(k >> 32), int(uint32(k))
}

// Tracker detects opposite-moving silhouettes passing each other. A pair that
// fired stays engaged until it separates past the disengage distance.
type Tracker struct {
	Engage    float64
	Disengage float64
	Chance    float64

	engaged map[PairKey]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{
		Engage:    DefaultEngageDistance,
		Disengage: DefaultDisengageDistance,
		Chance:    DefaultSpawnChance,
		engaged:   make(map[PairKey]struct{}),
	}
}

func (t *Tracker) Engaged(k PairKey) bool {
	_, ok := t.engaged[k]
	return ok
}

func (t *Tracker) EngagedCount() int { return len(t.engaged) }

// Scan evaluates every opposite-direction pair once and calls spawn with the
// reaction point for each new engagement. It returns the number of spawns.
func (t *Tracker) Scan(figs []*agents.Silhouette, rng scene.Rand, spawn func(at scene.Point, pair PairKey)) int {
	spawned := 0
	for i := 0; i < len(figs); i++ {
		a := figs[i]
		for j := i + 1; j < len(figs); j++ {
			b := figs[j]
			if a.Direction == b.Direction {
				continue
			}
			d := math.Abs(a.X - b.X)
			switch {
			case d < t.Engage:
				key := MakePairKey(i, j)
				if t.Engaged(key) || rng.Float64() >= t.Chance {
					continue
				}
				spawn(scene.Point{X: (a.X + b.X) / 2, Y: math.Min(a.Y, b.Y) - spawnLift}, key)
				t.engaged[key] = struct{}{}
				spawned++
			case d > t.Disengage:
				delete(t.engaged, MakePairKey(i, j))
			}
		}
	}
	return spawned
}
