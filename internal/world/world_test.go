package world

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/san-kum/backdrop/internal/agents"
	"github.com/san-kum/backdrop/internal/scene"
)

type constRand float64

func (c constRand) Float64() float64 { return float64(c) }

var testBounds = scene.Bounds{Width: 800, Height: 600}

func seeded(seed int64) Options {
	opts := DefaultOptions()
	opts.Rand = rand.New(rand.NewSource(seed))
	opts.Clock = scene.NewMockClock(time.Unix(0, 0))
	return opts
}

func figure(x, y float64, dir int) *agents.Silhouette {
	return &agents.Silhouette{X: x, Y: y, Speed: float64(dir), Size: 30, Direction: dir}
}

func TestNewPopulation(t *testing.T) {
	w := New(testBounds, seeded(1))

	if n := len(w.Lines()); n != 40 {
		t.Errorf("expected 40 lines, got %d", n)
	}
	if n := len(w.Silhouettes()); n != 37 {
		t.Errorf("expected 37 silhouettes, got %d", n)
	}
	if n := len(w.Emojis()); n != 0 {
		t.Errorf("expected no emojis, got %d", n)
	}
	for i, l := range w.Lines() {
		if len(l.Points) != 1 || !testBounds.Contains(l.Head()) {
			t.Errorf("line %d: expected one in-bounds point, got %v", i, l.Points)
		}
	}
}

func TestPairKeyUnordered(t *testing.T) {
	if MakePairKey(3, 9) != MakePairKey(9, 3) {
		t.Fatal("expected pair key to ignore order")
	}
	i, j := MakePairKey(9, 3).Indices()
	if i != 3 || j != 9 {
		t.Errorf("expected (3, 9), got (%d, %d)", i, j)
	}
	if MakePairKey(1, 2) == MakePairKey(2, 3) {
		t.Error("expected distinct pairs to have distinct keys")
	}
}

func TestScanSameDirectionIgnored(t *testing.T) {
	tr := NewTracker()
	figs := []*agents.Silhouette{figure(100, 500, 1), figure(102, 500, 1)}

	n := tr.Scan(figs, constRand(0), func(scene.Point, PairKey) {
		t.Fatal("unexpected spawn for same-direction pair")
	})
	if n != 0 || tr.EngagedCount() != 0 {
		t.Errorf("expected no engagement, got %d spawns and %d engaged", n, tr.EngagedCount())
	}
}

func TestScanCoinFlip(t *testing.T) {
	tr := NewTracker()
	figs := []*agents.Silhouette{figure(100, 500, 1), figure(105, 500, -1)}

	if n := tr.Scan(figs, constRand(0.5), func(scene.Point, PairKey) {}); n != 0 {
		t.Errorf("expected losing roll to skip spawn, got %d", n)
	}
	if tr.Engaged(MakePairKey(0, 1)) {
		t.Error("expected pair to stay disengaged after losing roll")
	}
}

func TestScanHysteresis(t *testing.T) {
	tr := NewTracker()
	a, b := figure(100, 500, 1), figure(105, 480, -1)
	figs := []*agents.Silhouette{a, b}

	var spawns []scene.Point
	record := func(at scene.Point, _ PairKey) { spawns = append(spawns, at) }

	steps := []struct {
		bx      float64
		spawned int
		engaged bool
	}{
		{105, 1, true},  // close: fires
		{105, 0, true},  // still close: engaged pairs never refire
		{115, 0, true},  // between thresholds: no change
		{125, 0, false}, // beyond disengage: released
		{115, 0, false}, // between thresholds again: not close enough
		{108, 1, true},  // close again: fires a second time
	}
	for i, s := range steps {
		b.X = s.bx
		if n := tr.Scan(figs, constRand(0), record); n != s.spawned {
			t.Errorf("step %d: expected %d spawns, got %d", i, s.spawned, n)
		}
		if got := tr.Engaged(MakePairKey(0, 1)); got != s.engaged {
			t.Errorf("step %d: expected engaged=%v, got %v", i, s.engaged, got)
		}
	}

	if len(spawns) != 2 {
		t.Fatalf("expected 2 spawns, got %d", len(spawns))
	}
	if p := spawns[0]; p.X != 102.5 || p.Y != 460 {
		t.Errorf("expected first spawn at (102.5, 460), got (%v, %v)", p.X, p.Y)
	}
}

func TestRenderOrder(t *testing.T) {
	w := New(testBounds, seeded(2))
	for i := 0; i < 200 && len(w.Emojis()) == 0; i++ {
		w.Tick(testBounds)
	}
	if len(w.Emojis()) == 0 {
		// force one so the overlay layer is exercised
		w.spawn(scene.Point{X: 10, Y: 10}, MakePairKey(0, 1))
	}

	rec := scene.NewRecorder()
	w.Render(rec)

	ops := rec.Ops
	if ops[0].Kind != scene.OpClear || ops[0].W != 800 || ops[0].H != 600 {
		t.Fatalf("expected full clear first, got %+v", ops[0])
	}
	ops = ops[1:]

	nl := len(w.Lines())
	for i := 0; i < nl; i++ {
		if ops[i].Kind != scene.OpStroke {
			t.Fatalf("op %d: expected line stroke, got %s", i, ops[i].Kind)
		}
	}
	ops = ops[nl:]

	want := []scene.OpKind{scene.OpFillCircle, scene.OpFillRect, scene.OpStroke, scene.OpStroke}
	for i := range w.Silhouettes() {
		for j, k := range want {
			if got := ops[i*4+j].Kind; got != k {
				t.Fatalf("silhouette %d op %d: expected %s, got %s", i, j, k, got)
			}
		}
	}
	ops = ops[len(w.Silhouettes())*4:]

	if len(ops) != len(w.Emojis()) {
		t.Fatalf("expected %d trailing text ops, got %d", len(w.Emojis()), len(ops))
	}
	for i, op := range ops {
		if op.Kind != scene.OpFillText {
			t.Errorf("overlay op %d: expected text, got %s", i, op.Kind)
		}
	}
}

func TestRenderAnimatesLegs(t *testing.T) {
	opts := seeded(3)
	clock := opts.Clock.(*scene.MockClock)
	w := New(testBounds, opts)

	legs := func() scene.Point {
		rec := scene.NewRecorder()
		w.Render(rec)
		for _, op := range rec.Ops {
			if op.Kind == scene.OpStroke && op.Width == agents.LegWidth {
				return op.Path[1]
			}
		}
		t.Fatal("expected a leg stroke")
		return scene.Point{}
	}

	first := legs()
	clock.Advance(100 * time.Millisecond)
	if second := legs(); first == second {
		t.Errorf("expected leg pose to change with time, stayed at %v", first)
	}
}

func TestLongRunStaysFinite(t *testing.T) {
	w := New(testBounds, seeded(4))
	window := agents.DefaultFadeSteps - 1
	var history []int

	for tick := 0; tick < 2000; tick++ {
		w.Tick(testBounds)

		st := w.Stats()
		history = append(history, st.LastSpawns)
		if len(history) > window {
			history = history[1:]
		}
		recent := 0
		for _, n := range history {
			recent += n
		}
		if st.Particles != recent {
			t.Fatalf("tick %d: expected %d live emojis, got %d", tick, recent, st.Particles)
		}

		for i, l := range w.Lines() {
			if n := len(l.Points); n < 1 || n > agents.DefaultTrailLength {
				t.Fatalf("tick %d line %d: trail length %d", tick, i, n)
			}
			for _, p := range l.Points {
				if !p.IsFinite() || !testBounds.Contains(p) {
					t.Fatalf("tick %d line %d: bad point %v", tick, i, p)
				}
			}
		}
		for i, f := range w.Silhouettes() {
			if math.IsNaN(f.X) || f.X < -agents.Margin-1 || f.X > testBounds.Width+agents.Margin+1 {
				t.Fatalf("tick %d silhouette %d: x=%v", tick, i, f.X)
			}
		}
		for i, e := range w.Emojis() {
			if o := e.Opacity(); o <= 0 || o > 1 {
				t.Fatalf("tick %d emoji %d: opacity %v", tick, i, o)
			}
		}
	}

	if st := w.Stats(); st.Ticks != 2000 || st.Respawns == 0 || st.Wraps == 0 {
		t.Errorf("expected counters to advance, got %+v", st)
	}
}

func TestEmojiRemovedAfterFade(t *testing.T) {
	w := New(testBounds, Options{Rand: constRand(0.5), Clock: scene.NewMockClock(time.Unix(0, 0))})
	w.spawn(scene.Point{X: 50, Y: 50}, MakePairKey(0, 1))

	for i := 1; i < agents.DefaultFadeSteps; i++ {
		w.Tick(testBounds)
		if len(w.Emojis()) != 1 {
			t.Fatalf("tick %d: expected emoji alive", i)
		}
	}
	w.Tick(testBounds)
	if len(w.Emojis()) != 0 {
		t.Errorf("expected emoji gone after %d ticks", agents.DefaultFadeSteps)
	}
}

func TestResizeShrink(t *testing.T) {
	small := scene.Bounds{Width: 400, Height: 300}
	w := New(testBounds, seeded(5))

	for i := 0; i < 2000; i++ {
		w.Tick(small)
	}

	if b := w.Bounds(); b != small {
		t.Errorf("expected bounds %v, got %v", small, b)
	}
	for i, l := range w.Lines() {
		for _, p := range l.Points {
			if !small.Contains(p) {
				t.Fatalf("line %d: point %v outside resized bounds", i, p)
			}
		}
	}
	for i, f := range w.Silhouettes() {
		if f.X < -agents.Margin-1 || f.X > small.Width+agents.Margin+1 {
			t.Errorf("silhouette %d: x=%v outside resized margins", i, f.X)
		}
		if f.Y < small.Height/2 || f.Y > small.Height {
			t.Errorf("silhouette %d: y=%v outside lower half", i, f.Y)
		}
	}

	rec := scene.NewRecorder()
	w.Render(rec)
	if op := rec.Ops[0]; op.W != 400 || op.H != 300 {
		t.Errorf("expected clear over 400x300, got %vx%v", op.W, op.H)
	}
}

func TestZeroSpawnChanceNeverSpawns(t *testing.T) {
	opts := seeded(3)
	opts.SpawnChance = 0
	w := New(testBounds, opts)

	if w.Tracker().Chance != 0 {
		t.Fatalf("expected chance 0, got %v", w.Tracker().Chance)
	}
	for i := 0; i < 3000; i++ {
		w.Tick(testBounds)
	}
	if st := w.Stats(); st.Spawns != 0 || st.Particles != 0 {
		t.Errorf("expected no spawns, got %d spawns and %d particles", st.Spawns, st.Particles)
	}
}

func TestOutOfRangeSpawnChanceUsesDefault(t *testing.T) {
	for _, chance := range []float64{-1, 1.5} {
		opts := seeded(1)
		opts.SpawnChance = chance
		if got := New(testBounds, opts).Tracker().Chance; got != DefaultSpawnChance {
			t.Errorf("chance %v: expected default %v, got %v", chance, DefaultSpawnChance, got)
		}
	}
}

func TestResizeMidRun(t *testing.T) {
	small := scene.Bounds{Width: 400, Height: 300}
	w := New(testBounds, seeded(8))

	for i := 0; i < 50; i++ {
		w.Tick(testBounds)
	}

	for i := 0; i < 50; i++ {
		prevX := make([]float64, len(w.Silhouettes()))
		for j, f := range w.Silhouettes() {
			prevX[j] = f.X
		}
		before := w.Stats()

		w.Tick(small)

		// A trail only shrinks to one point when it respawns.
		respawns := 0
		for j, l := range w.Lines() {
			if len(l.Points) != 1 {
				continue
			}
			respawns++
			if !small.Contains(l.Head()) {
				t.Errorf("tick %d: line %d respawned at %v outside %v", i, j, l.Head(), small)
			}
		}

		wraps := 0
		for j, f := range w.Silhouettes() {
			if math.Abs(f.X-prevX[j]) <= math.Abs(f.Speed)+1e-9 {
				continue
			}
			wraps++
			if f.X < -agents.Margin || f.X > small.Width+agents.Margin {
				t.Errorf("tick %d: silhouette %d wrapped to x=%v outside [-50, 450]", i, j, f.X)
			}
		}

		after := w.Stats()
		if got := after.Respawns - before.Respawns; got != respawns {
			t.Errorf("tick %d: expected %d respawns, stats counted %d", i, respawns, got)
		}
		if got := after.Wraps - before.Wraps; got != wraps {
			t.Errorf("tick %d: expected %d wraps, stats counted %d", i, wraps, got)
		}
	}

	if w.Stats().Respawns == 0 {
		t.Error("expected lines to respawn after shrinking")
	}
}
