package export

import (
	"fmt"
	"image/color"
)

// nrgba un-premultiplies c so alpha can be written separately.
func nrgba(c color.Color) color.NRGBA {
	if c == nil {
		return color.NRGBA{A: 0xff}
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

// svgPaint returns an rgb() string and an opacity in [0,1].
func svgPaint(c color.Color, alpha float64) (string, float64) {
	n := nrgba(c)
	return fmt.Sprintf("rgb(%d,%d,%d)", n.R, n.G, n.B), clamp01(float64(n.A) / 255 * alpha)
}

func withAlpha(c color.Color, alpha float64) color.NRGBA {
	n := nrgba(c)
	n.A = uint8(clamp01(float64(n.A)/255*alpha)*255 + 0.5)
	return n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
