package viz

import (
	"image/color"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/san-kum/backdrop/internal/scene"
)

const (
	// fadeGlyph stands in for a glyph whose alpha dropped below fadeCutoff;
	// terminals cannot draw a translucent emoji.
	fadeGlyph  = "."
	fadeCutoff = 0.2

	// greyCutoff is the HSL saturation below which paint takes the theme ink.
	greyCutoff = 0.05
)

// TermSurface draws scene coordinates onto a braille Canvas. Scale is how many
// scene pixels one braille dot covers.
type TermSurface struct {
	Canvas *Canvas
	Scale  float64
	Theme  Theme

	bg   colorful.Color
	ink  colorful.Color
	path []scene.Point
}

func NewTermSurface(cols, rows int, scale float64, theme Theme) *TermSurface {
	if scale <= 0 {
		scale = 1
	}
	s := &TermSurface{
		Canvas: NewCanvas(max(cols, 1), max(rows, 1)),
		Scale:  scale,
	}
	s.SetTheme(theme)
	return s
}

func (s *TermSurface) SetTheme(t Theme) {
	s.Theme = t
	s.bg = hexOr(t.Background, colorful.Color{R: 1, G: 1, B: 1})
	s.ink = hexOr(t.Ink, colorful.Color{})
}

// Resize replaces the canvas; the next frame redraws everything.
func (s *TermSurface) Resize(cols, rows int) {
	s.Canvas = NewCanvas(max(cols, 1), max(rows, 1))
}

// Bounds is the scene area the canvas covers.
func (s *TermSurface) Bounds() scene.Bounds {
	return scene.Bounds{
		Width:  float64(s.Canvas.Width*2) * s.Scale,
		Height: float64(s.Canvas.Height*4) * s.Scale,
	}
}

func (s *TermSurface) BeginPath() { s.path = s.path[:0] }

func (s *TermSurface) MoveTo(x, y float64) { s.path = append(s.path, scene.Point{X: x, Y: y}) }

func (s *TermSurface) LineTo(x, y float64) { s.path = append(s.path, scene.Point{X: x, Y: y}) }

func (s *TermSurface) Stroke(c color.Color, width float64) {
	if len(s.path) == 0 {
		return
	}
	ink := s.paint(c, 1)
	x0, y0 := s.dot(s.path[0].X), s.dot(s.path[0].Y)
	if len(s.path) == 1 {
		s.Canvas.Set(x0, y0, ink)
		return
	}
	for _, p := range s.path[1:] {
		x1, y1 := s.dot(p.X), s.dot(p.Y)
		s.Canvas.DrawLine(x0, y0, x1, y1, ink)
		x0, y0 = x1, y1
	}
}

func (s *TermSurface) FillCircle(cx, cy, r float64, c color.Color) {
	ink := s.paint(c, 1)
	x0, y0 := s.dot(cx), s.dot(cy)
	rd := int(math.Round(r / s.Scale))
	for dy := -rd; dy <= rd; dy++ {
		for dx := -rd; dx <= rd; dx++ {
			if dx*dx+dy*dy <= rd*rd {
				s.Canvas.Set(x0+dx, y0+dy, ink)
			}
		}
	}
}

func (s *TermSurface) FillRect(x, y, w, h float64, c color.Color) {
	ink := s.paint(c, 1)
	x0, y0 := s.dot(x), s.dot(y)
	x1, y1 := s.dot(x+w), s.dot(y+h)
	for dy := y0; dy <= y1; dy++ {
		for dx := x0; dx <= x1; dx++ {
			s.Canvas.Set(dx, dy, ink)
		}
	}
}

// FillText anchors the glyph's cell at the text's vertical centre.
func (s *TermSurface) FillText(text string, x, y float64, f scene.Font, c color.Color, alpha float64) {
	if alpha <= 0 || text == "" {
		return
	}
	if alpha < fadeCutoff {
		text = fadeGlyph
	}
	col := s.dot(x) / 2
	row := s.dot(y-f.Size/2) / 4
	if s.dot(y-f.Size/2) < 0 {
		return
	}
	s.Canvas.Put(col, row, text, runewidth.StringWidth(text), s.paint(c, alpha))
}

func (s *TermSurface) Clear(x, y, w, h float64) {
	if x <= 0 && y <= 0 {
		b := s.Bounds()
		if w >= b.Width && h >= b.Height {
			s.Canvas.Clear()
			return
		}
	}
	for dy := s.dot(y); dy < s.dot(y+h); dy++ {
		for dx := s.dot(x); dx < s.dot(x+w); dx++ {
			s.Canvas.Unset(dx, dy)
		}
	}
}

// View renders the canvas in theme colours.
func (s *TermSurface) View() string {
	return s.Canvas.Render(s.Theme.Background)
}

func (s *TermSurface) dot(v float64) int {
	return int(math.Floor(v / s.Scale))
}

// paint maps a scene colour to a terminal colour: grey paint takes the theme
// ink, then translucency blends toward the background.
func (s *TermSurface) paint(c color.Color, alpha float64) lipgloss.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	alpha *= float64(n.A) / 255

	cf := colorful.Color{R: float64(n.R) / 255, G: float64(n.G) / 255, B: float64(n.B) / 255}
	if _, sat, _ := cf.Hsl(); sat < greyCutoff {
		cf = s.ink
	}
	if alpha < 1 {
		cf = s.bg.BlendRgb(cf, math.Max(alpha, 0))
	}
	return lipgloss.Color(cf.Clamped().Hex())
}

func hexOr(c lipgloss.Color, fallback colorful.Color) colorful.Color {
	cf, err := colorful.Hex(string(c))
	if err != nil {
		return fallback
	}
	return cf
}
