package export

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/san-kum/backdrop/internal/scene"
)

const circleSegments = 24

// Raster is a Surface that draws into an RGBA image with anti-aliased
// polygons. Text uses a fixed 7x13 face; glyphs the face lacks are drawn as a
// disc of the same size and alpha.
type Raster struct {
	Background color.Color

	img  *image.RGBA
	z    *vector.Rasterizer
	face *basicfont.Face
	path []scene.Point
}

func NewRaster(b scene.Bounds, background color.Color) *Raster {
	if background == nil {
		background = color.White
	}
	w, h := pixels(b)
	r := &Raster{
		Background: background,
		img:        image.NewRGBA(image.Rect(0, 0, w, h)),
		z:          vector.NewRasterizer(w, h),
		face:       basicfont.Face7x13,
	}
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	return r
}

func pixels(b scene.Bounds) (int, int) {
	return max(1, int(math.Ceil(b.Width))), max(1, int(math.Ceil(b.Height)))
}

func (r *Raster) Image() *image.RGBA { return r.img }

// Snapshot returns a copy of the current frame.
func (r *Raster) Snapshot() *image.RGBA {
	cp := image.NewRGBA(r.img.Bounds())
	copy(cp.Pix, r.img.Pix)
	return cp
}

func (r *Raster) BeginPath() { r.path = r.path[:0] }

func (r *Raster) MoveTo(x, y float64) { r.path = append(r.path, scene.Point{X: x, Y: y}) }

func (r *Raster) LineTo(x, y float64) { r.path = append(r.path, scene.Point{X: x, Y: y}) }

// Stroke outlines each segment as a quad. All quads wind the same way so
// overlaps at joints do not cancel.
func (r *Raster) Stroke(c color.Color, width float64) {
	if len(r.path) < 2 {
		return
	}
	half := width / 2
	r.reset()
	for i := 1; i < len(r.path); i++ {
		p0, p1 := r.path[i-1], r.path[i]
		dx, dy := p1.X-p0.X, p1.Y-p0.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half
		r.z.MoveTo(f32(p0.X+nx), f32(p0.Y+ny))
		r.z.LineTo(f32(p1.X+nx), f32(p1.Y+ny))
		r.z.LineTo(f32(p1.X-nx), f32(p1.Y-ny))
		r.z.LineTo(f32(p0.X-nx), f32(p0.Y-ny))
		r.z.ClosePath()
	}
	r.fill(c)
}

func (r *Raster) FillCircle(cx, cy, radius float64, c color.Color) {
	r.reset()
	r.circle(cx, cy, radius)
	r.fill(c)
}

func (r *Raster) FillRect(x, y, w, h float64, c color.Color) {
	r.reset()
	r.z.MoveTo(f32(x), f32(y))
	r.z.LineTo(f32(x+w), f32(y))
	r.z.LineTo(f32(x+w), f32(y+h))
	r.z.LineTo(f32(x), f32(y+h))
	r.z.ClosePath()
	r.fill(c)
}

func (r *Raster) FillText(text string, x, y float64, f scene.Font, c color.Color, alpha float64) {
	paint := withAlpha(c, alpha)
	if paint.A == 0 || text == "" {
		return
	}
	if !r.hasGlyphs(text) {
		r.reset()
		radius := f.Size / 2
		r.circle(x+radius, y-radius, radius)
		r.fill(paint)
		return
	}
	d := font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(paint),
		Face: r.face,
		Dot:  fixed.P(int(math.Round(x)), int(math.Round(y))),
	}
	d.DrawString(text)
}

func (r *Raster) Clear(x, y, w, h float64) {
	bw, bh := pixels(scene.Bounds{Width: w, Height: h})
	if x <= 0 && y <= 0 && (bw != r.img.Bounds().Dx() || bh != r.img.Bounds().Dy()) {
		r.img = image.NewRGBA(image.Rect(0, 0, bw, bh))
		r.z = vector.NewRasterizer(bw, bh)
	}
	rect := image.Rect(int(math.Floor(x)), int(math.Floor(y)), int(math.Ceil(x+w)), int(math.Ceil(y+h)))
	draw.Draw(r.img, rect.Intersect(r.img.Bounds()), image.NewUniform(r.Background), image.Point{}, draw.Src)
}

// hasGlyphs reports whether the face covers every rune of text without
// falling back to U+FFFD.
func (r *Raster) hasGlyphs(text string) bool {
	for _, ch := range text {
		if ch == utf8.RuneError || !r.covers(ch) {
			return false
		}
	}
	return true
}

func (r *Raster) covers(ch rune) bool {
	for _, rng := range r.face.Ranges {
		if rng.Low <= ch && ch < rng.High {
			return true
		}
	}
	return false
}

func (r *Raster) circle(cx, cy, radius float64) {
	for i := 0; i < circleSegments; i++ {
		a := 2 * math.Pi * float64(i) / circleSegments
		px, py := f32(cx+radius*math.Cos(a)), f32(cy+radius*math.Sin(a))
		if i == 0 {
			r.z.MoveTo(px, py)
		} else {
			r.z.LineTo(px, py)
		}
	}
	r.z.ClosePath()
}

func (r *Raster) reset() {
	b := r.img.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
	r.z.DrawOp = draw.Over
}

func (r *Raster) fill(c color.Color) {
	r.z.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{})
}

func f32(v float64) float32 { return float32(v) }
