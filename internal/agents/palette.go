package agents

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/backdrop/internal/scene"
)

// ColorSource picks a trail colour once per line.
type ColorSource func(r scene.Rand) color.Color

// HSLColors returns a source with uniformly random hue at fixed saturation and
// lightness, both in [0, 1].
func HSLColors(saturation, lightness float64) ColorSource {
	return func(r scene.Rand) color.Color {
		c := colorful.Hsl(r.Float64()*360, saturation, lightness).Clamped()
		cr, cg, cb := c.RGB255()
		return color.RGBA{R: cr, G: cg, B: cb, A: 255}
	}
}

// Palette holds the glyphs emojis draw from and the trail colour source.
type Palette struct {
	Glyphs []string
	Colors ColorSource
}

func DefaultPalette() Palette {
	glyphs := make([]string, len(DefaultGlyphs))
	copy(glyphs, DefaultGlyphs)
	return Palette{
		Glyphs: glyphs,
		Colors: HSLColors(0.5, 0.5),
	}
}

// Glyph draws one glyph uniformly. An empty palette falls back to DefaultGlyphs.
func (p Palette) Glyph(r scene.Rand) string {
	glyphs := p.Glyphs
	if len(glyphs) == 0 {
		glyphs = DefaultGlyphs
	}
	i := int(r.Float64() * float64(len(glyphs)))
	if i >= len(glyphs) {
		i = len(glyphs) - 1
	}
	return glyphs[i]
}

func (p Palette) Color(r scene.Rand) color.Color {
	if p.Colors == nil {
		return HSLColors(0.5, 0.5)(r)
	}
	return p.Colors(r)
}

var DefaultGlyphs = []string{
	"😊", "👋", "🎉", "💡", "🌟", "🤔", "👍", "🙌", "💪", "🚀",
	"😂", "🤣", "❤️", "😍", "🙏", "😭", "😎", "😅", "🔥", "🥰",
	"😁", "🤗", "😆", "🤩", "😘", "🥳", "🤔", "🤷", "🙄", "😏",
	"😋", "😜", "😇", "🥺", "💖", "💞", "💘", "✨", "🎶", "🎵",
	"🤝", "👏", "🤞", "🤙", "💃", "🕺", "👀", "💁", "🙆", "🙅",
	"🎊", "🎁", "🍕", "🍔", "🍟", "🍩", "☕", "🍷", "🍺", "🎂",
	"🐶", "🐱", "🐼", "🐨", "🐸", "🐰", "🦊", "🐻", "🐥", "🦄",
	"🌍", "🌞", "🌈", "⛄", "🌊", "🌸", "🌻", "🎨", "🎭", "🎮",
	"🏆", "🥇", "🎯", "🕹️", "📱", "💻", "⌚", "🎧", "📸", "🎥",
	"🚗", "🚲", "🚄", "🚢", "✈️", "🛸", "🚦", "🏠", "🏖️", "🏰",
	"🗺️", "🌆", "🛒", "🔑", "💰", "💎", "📚", "📝", "✍️", "📢",
	"🔔", "🔊", "🎙️", "📅", "🕰️", "⏳", "💣", "⚡", "💀", "👻",
	"🎃", "🤡", "👑", "🎩", "🕶️", "👓", "🥽", "🥼", "🎽", "👜",
	"👠", "👟", "🧥", "👗", "🎸", "🎺", "🥁", "🎻", "🎷", "🎹",
	"🖥️", "🖨️", "📡", "🔭", "🛠️", "🔧", "🔨", "⛏️", "⚙️", "🧲",
	"🛎️", "🚪", "🛏️", "🚿", "🛁", "🍽️", "🍴", "🥄", "🔪", "🏹",
}
