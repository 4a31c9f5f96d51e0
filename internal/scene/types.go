package scene

import (
	"image/color"
	"math"
	"sync"
	"time"
)

type Point struct {
	X, Y float64
}

func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Bounds is the visible area. Only the resize path writes it.
type Bounds struct {
	Width, Height float64
}

// Contains reports whether p lies in [0,Width]×[0,Height], edges included.
func (b Bounds) Contains(p Point) bool {
	return p.X >= 0 && p.X <= b.Width && p.Y >= 0 && p.Y <= b.Height
}

func (b Bounds) RandomPoint(r Rand) Point {
	return Point{X: r.Float64() * b.Width, Y: r.Float64() * b.Height}
}

func (b Bounds) Validate() error {
	if !(b.Width > 0) || !(b.Height > 0) || math.IsInf(b.Width, 0) || math.IsInf(b.Height, 0) {
		return ErrInvalidBounds
	}
	return nil
}

type Font struct {
	Family string
	Size   float64
}

// Surface is the drawing target. Colours carry their own alpha except for text,
// which takes an extra alpha multiplier.
type Surface interface {
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke(c color.Color, width float64)
	FillCircle(cx, cy, r float64, c color.Color)
	FillRect(x, y, w, h float64, c color.Color)
	FillText(text string, x, y float64, font Font, c color.Color, alpha float64)
	Clear(x, y, w, h float64)
}

// Rand is satisfied by *math/rand.Rand.
type Rand interface {
	Float64() float64
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// MockClock is a controllable Clock for tests and headless runs.
type MockClock struct {
	mu  sync.RWMutex
	now time.Time
}

func NewMockClock(start time.Time) *MockClock {
	return &MockClock{now: start}
}

func (m *MockClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Advance moves the clock forward; negative durations are ignored so the clock
// never runs backwards.
func (m *MockClock) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
