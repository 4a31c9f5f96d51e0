package gui

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/backdrop/internal/scene"
)

// Surface issues raylib draw calls. It must be used between BeginDrawing (or
// BeginTextureMode) and the matching End call on the window's thread. Alpha
// scales every colour and drives the intro fade.
type Surface struct {
	Background rl.Color
	Alpha      float32

	// Font draws text; without one, glyphs outside ASCII become discs.
	Font    rl.Font
	HasFont bool

	path []rl.Vector2
}

func NewSurface(background color.Color) *Surface {
	return &Surface{Background: toRL(background, 1), Alpha: 1}
}

func (s *Surface) BeginPath() { s.path = s.path[:0] }

func (s *Surface) MoveTo(x, y float64) { s.path = append(s.path, vec(x, y)) }

func (s *Surface) LineTo(x, y float64) { s.path = append(s.path, vec(x, y)) }

func (s *Surface) Stroke(c color.Color, width float64) {
	col := s.paint(c, 1)
	for i := 1; i < len(s.path); i++ {
		rl.DrawLineEx(s.path[i-1], s.path[i], float32(width), col)
	}
}

func (s *Surface) FillCircle(cx, cy, r float64, c color.Color) {
	rl.DrawCircleV(vec(cx, cy), float32(r), s.paint(c, 1))
}

func (s *Surface) FillRect(x, y, w, h float64, c color.Color) {
	rl.DrawRectangleRec(rl.NewRectangle(float32(x), float32(y), float32(w), float32(h)), s.paint(c, 1))
}

// FillText treats y as the baseline; raylib positions text by its top edge.
func (s *Surface) FillText(text string, x, y float64, f scene.Font, c color.Color, alpha float64) {
	col := s.paint(c, alpha)
	if col.A == 0 {
		return
	}
	top := y - f.Size*0.8
	if s.HasFont {
		rl.DrawTextEx(s.Font, text, vec(x, top), float32(f.Size), 1, col)
		return
	}
	if isASCII(text) {
		rl.DrawTextEx(rl.GetFontDefault(), text, vec(x, top), float32(f.Size), 1, col)
		return
	}
	r := f.Size / 2
	rl.DrawCircleV(vec(x+r, y-r), float32(r), col)
}

func (s *Surface) Clear(x, y, w, h float64) {
	if x <= 0 && y <= 0 && int(math.Ceil(w)) >= rl.GetRenderWidth() && int(math.Ceil(h)) >= rl.GetRenderHeight() {
		rl.ClearBackground(s.Background)
		return
	}
	rl.DrawRectangleRec(rl.NewRectangle(float32(x), float32(y), float32(w), float32(h)), s.Background)
}

func (s *Surface) paint(c color.Color, alpha float64) rl.Color {
	return toRL(c, alpha*float64(s.Alpha))
}

func toRL(c color.Color, alpha float64) rl.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	a := math.Max(0, math.Min(1, float64(n.A)/255*alpha))
	return rl.NewColor(n.R, n.G, n.B, uint8(a*255+0.5))
}

func vec(x, y float64) rl.Vector2 { return rl.NewVector2(float32(x), float32(y)) }

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
