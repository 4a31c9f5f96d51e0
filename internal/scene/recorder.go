package scene

import "image/color"

type OpKind int

const (
	OpStroke OpKind = iota
	OpFillCircle
	OpFillRect
	OpFillText
	OpClear
)

func (k OpKind) String() string {
	switch k {
	case OpStroke:
		return "stroke"
	case OpFillCircle:
		return "circle"
	case OpFillRect:
		return "rect"
	case OpFillText:
		return "text"
	case OpClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Op is one recorded draw call. Path holds the points of a stroke; X, Y, W, H
// hold the geometry of fills, text anchors and clears (W is the radius for
// circles).
type Op struct {
	Kind  OpKind
	Path  []Point
	X, Y  float64
	W, H  float64
	Color color.Color
	Width float64
	Text  string
	Font  Font
	Alpha float64
}

// Recorder is a Surface that keeps every draw call in order. Clear does not drop
// earlier ops; call Reset between frames.
type Recorder struct {
	Ops  []Op
	path []Point
}

func NewRecorder() *Recorder {
	return &Recorder{Ops: make([]Op, 0, 256)}
}

func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
	r.path = r.path[:0]
}

func (r *Recorder) BeginPath() { r.path = r.path[:0] }

func (r *Recorder) MoveTo(x, y float64) { r.path = append(r.path, Point{x, y}) }

func (r *Recorder) LineTo(x, y float64) { r.path = append(r.path, Point{x, y}) }

func (r *Recorder) Stroke(c color.Color, width float64) {
	path := make([]Point, len(r.path))
	copy(path, r.path)
	r.Ops = append(r.Ops, Op{Kind: OpStroke, Path: path, Color: c, Width: width})
}

func (r *Recorder) FillCircle(cx, cy, radius float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFillCircle, X: cx, Y: cy, W: radius, Color: c})
}

func (r *Recorder) FillRect(x, y, w, h float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFillRect, X: x, Y: y, W: w, H: h, Color: c})
}

func (r *Recorder) FillText(text string, x, y float64, font Font, c color.Color, alpha float64) {
	r.Ops = append(r.Ops, Op{Kind: OpFillText, Text: text, X: x, Y: y, Font: font, Color: c, Alpha: alpha})
}

func (r *Recorder) Clear(x, y, w, h float64) {
	r.Ops = append(r.Ops, Op{Kind: OpClear, X: x, Y: y, W: w, H: h})
}

// Count returns the number of recorded ops of kind k.
func (r *Recorder) Count(k OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == k {
			n++
		}
	}
	return n
}
