package export

import (
	"encoding/xml"
	"fmt"
	"image/color"
	"strings"

	"github.com/san-kum/backdrop/internal/scene"
)

// SVG is a Surface that builds one SVG document per frame. A Clear anchored at
// the origin starts a new document sized to the cleared area.
type SVG struct {
	Bounds     scene.Bounds
	Background color.Color

	body strings.Builder
	path []scene.Point
}

func NewSVG(b scene.Bounds, background color.Color) *SVG {
	if background == nil {
		background = color.White
	}
	return &SVG{Bounds: b, Background: background}
}

func (s *SVG) BeginPath() { s.path = s.path[:0] }

func (s *SVG) MoveTo(x, y float64) { s.path = append(s.path, scene.Point{X: x, Y: y}) }

func (s *SVG) LineTo(x, y float64) { s.path = append(s.path, scene.Point{X: x, Y: y}) }

func (s *SVG) Stroke(c color.Color, width float64) {
	if len(s.path) == 0 {
		return
	}
	paint, op := svgPaint(c, 1)
	s.body.WriteString(`<path fill="none" stroke-linecap="round" stroke-linejoin="round" d="`)
	for i, p := range s.path {
		if i == 0 {
			fmt.Fprintf(&s.body, "M%.1f,%.1f", p.X, p.Y)
		} else {
			fmt.Fprintf(&s.body, " L%.1f,%.1f", p.X, p.Y)
		}
	}
	fmt.Fprintf(&s.body, `" stroke="%s" stroke-opacity="%.2f" stroke-width="%g"/>`+"\n", paint, op, width)
}

func (s *SVG) FillCircle(cx, cy, r float64, c color.Color) {
	paint, op := svgPaint(c, 1)
	fmt.Fprintf(&s.body, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="%.2f"/>`+"\n", cx, cy, r, paint, op)
}

func (s *SVG) FillRect(x, y, w, h float64, c color.Color) {
	s.rect(x, y, w, h, c)
}

func (s *SVG) FillText(text string, x, y float64, font scene.Font, c color.Color, alpha float64) {
	paint, op := svgPaint(c, alpha)
	fmt.Fprintf(&s.body, `<text x="%.1f" y="%.1f" font-family="%s" font-size="%g" fill="%s" fill-opacity="%.2f">`,
		x, y, escape(font.Family), font.Size, paint, op)
	s.body.WriteString(escape(text))
	s.body.WriteString("</text>\n")
}

func (s *SVG) Clear(x, y, w, h float64) {
	if x <= 0 && y <= 0 {
		s.body.Reset()
		s.Bounds = scene.Bounds{Width: w, Height: h}
	}
	s.rect(x, y, w, h, s.Background)
}

func (s *SVG) rect(x, y, w, h float64, c color.Color) {
	paint, op := svgPaint(c, 1)
	fmt.Fprintf(&s.body, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" fill-opacity="%.2f"/>`+"\n", x, y, w, h, paint, op)
}

// String returns the complete document for the current frame.
func (s *SVG) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
`, s.Bounds.Width, s.Bounds.Height, s.Bounds.Width, s.Bounds.Height)
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>\n")
	return sb.String()
}

func (s *SVG) Bytes() []byte { return []byte(s.String()) }

func escape(text string) string {
	var sb strings.Builder
	if err := xml.EscapeText(&sb, []byte(text)); err != nil {
		return ""
	}
	return sb.String()
}
