package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const (
	brailleBase = 0x2800

	// wideTail marks the cell covered by the right half of a wide glyph.
	wideTail = "\x00"
)

// Canvas is a grid of braille cells, each with one ink colour, plus a text
// overlay that wins over dots in the same cell.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Ink           [][]lipgloss.Color
	Text          [][]string
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Ink:    make([][]lipgloss.Color, h),
		Text:   make([][]string, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Ink[i] = make([]lipgloss.Color, w)
		c.Text[i] = make([]string, w)
	}
	c.Clear()
	return c
}

// Set sets a dot at (x, y) in sub-pixel coordinates and gives its cell ink.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int, ink lipgloss.Color) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.Ink[row][col] = ink
}

// Unset clears a dot
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < brailleBase {
		c.Grid[row][col] = brailleBase
	}
}

// Put places a glyph in cell (col, row). A glyph two cells wide also takes the
// next cell and is dropped when that cell is off the canvas.
func (c *Canvas) Put(col, row int, glyph string, width int, ink lipgloss.Color) {
	if col < 0 || row < 0 || row >= c.Height || col+width > c.Width || width < 1 {
		return
	}
	c.Text[row][col] = glyph
	c.Ink[row][col] = ink
	if width == 2 {
		c.Text[row][col+1] = wideTail
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
			c.Ink[i][j] = ""
			c.Text[i][j] = ""
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, ink lipgloss.Color) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, ink)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// String renders the canvas without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := range c.Grid {
		for col, r := range c.Grid[row] {
			switch t := c.Text[row][col]; t {
			case "":
				b.WriteRune(r)
			case wideTail:
			default:
				b.WriteString(t)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Render draws the canvas with each run of same-ink cells in one style.
func (c *Canvas) Render(bg lipgloss.Color) string {
	styles := make(map[lipgloss.Color]lipgloss.Style)
	style := func(ink lipgloss.Color) lipgloss.Style {
		s, ok := styles[ink]
		if !ok {
			s = lipgloss.NewStyle().Background(bg)
			if ink != "" {
				s = s.Foreground(ink)
			}
			styles[ink] = s
		}
		return s
	}

	var b strings.Builder
	var run strings.Builder
	for row := range c.Grid {
		var runInk lipgloss.Color
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(style(runInk).Render(run.String()))
				run.Reset()
			}
		}
		for col, r := range c.Grid[row] {
			t := c.Text[row][col]
			if t == wideTail {
				continue
			}
			ink := c.Ink[row][col]
			if r == brailleBase && t == "" {
				ink = ""
			}
			if ink != runInk {
				flush()
				runInk = ink
			}
			if t != "" {
				run.WriteString(t)
			} else {
				run.WriteRune(r)
			}
		}
		flush()
		if row < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
