package metrics

import "github.com/san-kum/backdrop/internal/world"

// Churn is line respawns plus silhouette wraps per tick over the world's life.
type Churn struct {
	name string
	last world.Stats
}

func NewChurn() *Churn {
	return &Churn{name: "churn"}
}

func (c *Churn) Name() string { return c.name }

func (c *Churn) Observe(st world.Stats) { c.last = st }

func (c *Churn) Value() float64 {
	if c.last.Ticks == 0 {
		return 0
	}
	return float64(c.last.Respawns+c.last.Wraps) / float64(c.last.Ticks)
}

func (c *Churn) Reset() { c.last = world.Stats{} }
