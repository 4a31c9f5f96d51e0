package world

// Stats is a snapshot of world activity. Counters are cumulative since New;
// Particles and Engaged are current values.
type Stats struct {
	Ticks     int `json:"ticks"`
	Spawns    int `json:"spawns"`
	Respawns  int `json:"respawns"`
	Wraps     int `json:"wraps"`
	Particles int `json:"particles"`
	Engaged   int `json:"engaged"`

	// LastSpawns is the number of spawns during the most recent tick.
	LastSpawns int `json:"last_spawns"`
}
