package agents

import (
	"image/color"
	"math"

	"github.com/san-kum/backdrop/internal/scene"
)

const (
	DefaultTrailLength = 50
	DefaultCurveChance = 0.1
	LineWidth          = 2.0
)

type LineOptions struct {
	TrailLength int
	CurveChance float64
}

func DefaultLineOptions() LineOptions {
	return LineOptions{TrailLength: DefaultTrailLength, CurveChance: DefaultCurveChance}
}

// Line is a random-walk trail. Points are newest last; len is always in
// [1, TrailLength].
type Line struct {
	Points      []scene.Point
	Color       color.Color
	Speed       float64
	Dir         scene.Point
	CurveChance float64
	TrailLength int

	rng scene.Rand
}

func NewLine(b scene.Bounds, rng scene.Rand, c color.Color, opts LineOptions) *Line {
	if opts.TrailLength < 1 {
		opts.TrailLength = DefaultTrailLength
	}
	l := &Line{
		Points:      make([]scene.Point, 0, opts.TrailLength+1),
		Color:       c,
		CurveChance: opts.CurveChance,
		TrailLength: opts.TrailLength,
		rng:         rng,
	}
	l.Points = append(l.Points, b.RandomPoint(rng))
	l.Speed = rng.Float64()*0.5 + 0.1
	l.Dir = randomDirection(rng)
	return l
}

func (l *Line) Head() scene.Point {
	return l.Points[len(l.Points)-1]
}

// Step advances the head. It reports true when the candidate left b and the
// trail was respawned at a single fresh point.
func (l *Line) Step(b scene.Bounds) bool {
	head := l.Head()
	next := scene.Point{X: head.X + l.Dir.X*l.Speed, Y: head.Y + l.Dir.Y*l.Speed}

	if l.rng.Float64() < l.CurveChance {
		l.Dir = randomDirection(l.rng)
	}

	if !b.Contains(next) {
		l.Points = append(l.Points[:0], b.RandomPoint(l.rng))
		l.Dir = randomDirection(l.rng)
		return true
	}

	l.Points = append(l.Points, next)
	if over := len(l.Points) - l.TrailLength; over > 0 {
		n := copy(l.Points, l.Points[over:])
		l.Points = l.Points[:n]
	}
	return false
}

func (l *Line) Draw(s scene.Surface) {
	s.BeginPath()
	s.MoveTo(l.Points[0].X, l.Points[0].Y)
	for _, p := range l.Points[1:] {
		s.LineTo(p.X, p.Y)
	}
	s.Stroke(l.Color, LineWidth)
}

func randomDirection(r scene.Rand) scene.Point {
	angle := r.Float64() * 2 * math.Pi
	return scene.Point{X: math.Cos(angle), Y: math.Sin(angle)}
}
