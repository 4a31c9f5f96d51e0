package export

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"strings"
)

type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatGIF Format = "gif"
)

var ErrUnknownFormat = errors.New("export: unknown format")

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatSVG, FormatPNG, FormatGIF:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) Ext() string { return "." + string(f) }

func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// WriteGIF encodes frames as a looping animation. delay is in 100ths of a
// second per frame.
func WriteGIF(w io.Writer, frames []*image.RGBA, delay int) error {
	if len(frames) == 0 {
		return errors.New("export: no frames to encode")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		p := image.NewPaletted(frame.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(p, frame.Bounds(), frame, image.Point{})
		anim.Image = append(anim.Image, p)
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}
