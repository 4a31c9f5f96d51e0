package agents

import (
	"image/color"
	"math"
	"time"

	"github.com/san-kum/backdrop/internal/scene"
)

const (
	// Margin is how far past either screen edge a figure walks before wrapping.
	Margin = 50.0

	StridePeriod = 400 * time.Millisecond
	MaxLegSwing  = math.Pi / 6
	LegWidth     = 4.0
)

var FigureColor = color.NRGBA{R: 50, G: 50, B: 50, A: 204}

// Silhouette is a walking figure. Direction is -1 (leftward) or +1 (rightward)
// and always matches the sign of Speed.
type Silhouette struct {
	X, Y      float64
	Speed     float64
	Size      float64
	Direction int

	rng scene.Rand
}

func NewSilhouette(b scene.Bounds, rng scene.Rand) *Silhouette {
	s := &Silhouette{Direction: 1, rng: rng}
	if rng.Float64() < 0.5 {
		s.Direction = -1
	}
	if s.Direction == 1 {
		s.X = -Margin
	} else {
		s.X = b.Width + Margin
	}
	s.Y = lowerHalf(b, rng)
	s.Speed = (rng.Float64()*0.5 + 0.5) * float64(s.Direction)
	s.Size = rng.Float64()*15 + 25
	return s
}

// Step moves the figure and wraps it to the opposite margin once it passes the
// far one. It reports whether a wrap happened.
func (s *Silhouette) Step(b scene.Bounds) bool {
	s.X += s.Speed
	switch {
	case s.Direction == 1 && s.X > b.Width+Margin:
		s.X = -Margin
	case s.Direction == -1 && s.X < -Margin:
		s.X = b.Width + Margin
	default:
		return false
	}
	s.Y = lowerHalf(b, s.rng)
	return true
}

// LegPhase maps elapsed time onto one stride in [0, 2π).
func LegPhase(elapsed time.Duration) float64 {
	if elapsed < 0 {
		elapsed = 0
	}
	return 2 * math.Pi * float64(elapsed%StridePeriod) / float64(StridePeriod)
}

// Legs returns hip and foot points for both legs. The legs are half a stride
// apart and never swing more than MaxLegSwing from vertical.
func (s *Silhouette) Legs(phase float64) (leftHip, leftFoot, rightHip, rightFoot scene.Point) {
	hipY := s.Y + s.Size/6
	half := s.Size / 8
	length := s.Size / 3

	leftHip = scene.Point{X: s.X - half, Y: hipY}
	rightHip = scene.Point{X: s.X + half, Y: hipY}
	leftFoot = foot(leftHip, MaxLegSwing*math.Sin(phase), length, s.Direction)
	rightFoot = foot(rightHip, MaxLegSwing*math.Sin(phase+math.Pi), length, s.Direction)
	return
}

func (s *Silhouette) Draw(surf scene.Surface, phase float64) {
	surf.FillCircle(s.X, s.Y-s.Size/2, s.Size/8, FigureColor)
	surf.FillRect(s.X-s.Size/6, s.Y-s.Size/3, s.Size/3, s.Size/2, FigureColor)

	lh, lf, rh, rf := s.Legs(phase)
	for _, leg := range [2][2]scene.Point{{lh, lf}, {rh, rf}} {
		surf.BeginPath()
		surf.MoveTo(leg[0].X, leg[0].Y)
		surf.LineTo(leg[1].X, leg[1].Y)
		surf.Stroke(FigureColor, LegWidth)
	}
}

func foot(hip scene.Point, angle, length float64, dir int) scene.Point {
	return scene.Point{
		X: hip.X + float64(dir)*math.Sin(angle)*length,
		Y: hip.Y + math.Cos(angle)*length,
	}
}

func lowerHalf(b scene.Bounds, rng scene.Rand) float64 {
	return b.Height - rng.Float64()*(b.Height/2)
}
