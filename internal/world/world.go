package world

import (
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/backdrop/internal/agents"
	"github.com/san-kum/backdrop/internal/scene"
)

const (
	DefaultLines = 40

	silhouetteBase  = 30
	silhouetteScale = 1.25
)

// DefaultSilhouettes is floor(30 × 1.25).
var DefaultSilhouettes = int(math.Floor(silhouetteBase * silhouetteScale))

type Options struct {
	Lines       int
	Silhouettes int
	Line        agents.LineOptions
	FadeSteps   int

	EngageDistance    float64
	DisengageDistance float64
	// SpawnChance is used as given when in [0, 1]; zero disables spawning.
	SpawnChance float64

	Palette agents.Palette
	Rand    scene.Rand
	Clock   scene.Clock
}

func DefaultOptions() Options {
	return Options{
		Lines:             DefaultLines,
		Silhouettes:       DefaultSilhouettes,
		Line:              agents.DefaultLineOptions(),
		FadeSteps:         agents.DefaultFadeSteps,
		EngageDistance:    DefaultEngageDistance,
		DisengageDistance: DefaultDisengageDistance,
		SpawnChance:       DefaultSpawnChance,
		Palette:           agents.DefaultPalette(),
		Rand:              rand.New(rand.NewSource(time.Now().UnixNano())),
		Clock:             scene.SystemClock{},
	}
}

// World owns every entity plus the collision tracker. It is not safe for
// concurrent use; one owner ticks and renders it.
type World struct {
	lines   []*agents.Line
	figs    []*agents.Silhouette
	emojis  []agents.Emoji
	tracker *Tracker

	bounds    scene.Bounds
	palette   agents.Palette
	fadeSteps int
	rng       scene.Rand
	clock     scene.Clock
	start     time.Time
	stats     Stats
}

func New(b scene.Bounds, opts Options) *World {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Clock == nil {
		opts.Clock = scene.SystemClock{}
	}

	tracker := NewTracker()
	if opts.EngageDistance > 0 {
		tracker.Engage = opts.EngageDistance
	}
	if opts.DisengageDistance > 0 {
		tracker.Disengage = opts.DisengageDistance
	}
	if opts.SpawnChance >= 0 && opts.SpawnChance <= 1 {
		tracker.Chance = opts.SpawnChance
	}

	w := &World{
		lines:     make([]*agents.Line, 0, max(opts.Lines, 0)),
		figs:      make([]*agents.Silhouette, 0, max(opts.Silhouettes, 0)),
		emojis:    make([]agents.Emoji, 0, 16),
		tracker:   tracker,
		bounds:    b,
		palette:   opts.Palette,
		fadeSteps: opts.FadeSteps,
		rng:       opts.Rand,
		clock:     opts.Clock,
		start:     opts.Clock.Now(),
	}
	for i := 0; i < opts.Lines; i++ {
		w.lines = append(w.lines, agents.NewLine(b, w.rng, w.palette.Color(w.rng), opts.Line))
	}
	for i := 0; i < opts.Silhouettes; i++ {
		w.figs = append(w.figs, agents.NewSilhouette(b, w.rng))
	}
	return w
}

// Tick advances one frame against b: lines, then figures, then the collision
// scan, then particles. Particles that faded out are dropped before returning.
func (w *World) Tick(b scene.Bounds) {
	w.bounds = b
	for _, l := range w.lines {
		if l.Step(b) {
			w.stats.Respawns++
		}
	}
	for _, f := range w.figs {
		if f.Step(b) {
			w.stats.Wraps++
		}
	}

	spawned := w.tracker.Scan(w.figs, w.rng, w.spawn)

	alive := w.emojis[:0]
	for i := range w.emojis {
		e := w.emojis[i]
		e.Step()
		if e.Alive() {
			alive = append(alive, e)
		}
	}
	clear(w.emojis[len(alive):])
	w.emojis = alive

	w.stats.Ticks++
	w.stats.Spawns += spawned
	w.stats.LastSpawns = spawned
}

func (w *World) spawn(at scene.Point, _ PairKey) {
	glyph := w.palette.Glyph(w.rng)
	w.emojis = append(w.emojis, agents.NewEmoji(at, glyph, w.rng, w.fadeSteps))
}

// Render clears the last ticked bounds and draws trails, figures and glyphs in
// that order.
func (w *World) Render(s scene.Surface) {
	s.Clear(0, 0, w.bounds.Width, w.bounds.Height)
	for _, l := range w.lines {
		l.Draw(s)
	}
	phase := agents.LegPhase(w.clock.Now().Sub(w.start))
	for _, f := range w.figs {
		f.Draw(s, phase)
	}
	for i := range w.emojis {
		w.emojis[i].Draw(s)
	}
}

func (w *World) Bounds() scene.Bounds              { return w.bounds }
func (w *World) Lines() []*agents.Line             { return w.lines }
func (w *World) Silhouettes() []*agents.Silhouette { return w.figs }
func (w *World) Emojis() []agents.Emoji            { return w.emojis }
func (w *World) Tracker() *Tracker                 { return w.tracker }

func (w *World) Stats() Stats {
	s := w.stats
	s.Particles = len(w.emojis)
	s.Engaged = w.tracker.EngagedCount()
	return s
}
