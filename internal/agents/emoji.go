package agents

import (
	"image/color"

	"github.com/san-kum/backdrop/internal/scene"
)

// DefaultFadeSteps gives an opacity drop of 0.02 per step.
const DefaultFadeSteps = 50

var EmojiFont = scene.Font{Family: "sans-serif", Size: 20}

// Emoji is a glyph that rises and fades out linearly. Opacity is kept as a
// whole number of remaining steps so the decrement is exact.
type Emoji struct {
	X, Y  float64
	Glyph string
	Speed float64

	life  int
	steps int
}

func NewEmoji(at scene.Point, glyph string, rng scene.Rand, fadeSteps int) Emoji {
	if fadeSteps < 1 {
		fadeSteps = DefaultFadeSteps
	}
	return Emoji{
		X:     at.X,
		Y:     at.Y,
		Glyph: glyph,
		Speed: rng.Float64()*0.5 + 0.5,
		life:  fadeSteps,
		steps: fadeSteps,
	}
}

func (e *Emoji) Step() {
	e.Y -= e.Speed
	if e.life > 0 {
		e.life--
	}
}

func (e *Emoji) Opacity() float64 {
	if e.steps == 0 {
		return 0
	}
	return float64(e.life) / float64(e.steps)
}

func (e *Emoji) Alive() bool { return e.life > 0 }

func (e *Emoji) Draw(s scene.Surface) {
	s.FillText(e.Glyph, e.X, e.Y, EmojiFont, color.Black, e.Opacity())
}
