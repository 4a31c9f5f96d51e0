package analysis

import (
	"strings"

	"github.com/san-kum/backdrop/internal/scene"
	"github.com/san-kum/backdrop/internal/world"
)

// shades runs from empty to the busiest cell.
var shades = []rune(" .:-=+*#%@")

// Heatmap counts particle positions on a coarse grid over a fixed area.
// Points outside the area, such as after a shrink, are dropped.
type Heatmap struct {
	Bounds     scene.Bounds
	Cols, Rows int

	counts  [][]int
	total   int
	dropped int
}

func NewHeatmap(b scene.Bounds, cols, rows int) *Heatmap {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	counts := make([][]int, rows)
	for i := range counts {
		counts[i] = make([]int, cols)
	}
	return &Heatmap{Bounds: b, Cols: cols, Rows: rows, counts: counts}
}

func (h *Heatmap) Add(p scene.Point) {
	if !h.Bounds.Contains(p) {
		h.dropped++
		return
	}
	col := min(int(p.X/h.Bounds.Width*float64(h.Cols)), h.Cols-1)
	row := min(int(p.Y/h.Bounds.Height*float64(h.Rows)), h.Rows-1)
	h.counts[row][col]++
	h.total++
}

// OnTick records every live particle, so a Heatmap can observe a simulator.
func (h *Heatmap) OnTick(_ int, w *world.World) {
	for _, e := range w.Emojis() {
		h.Add(scene.Point{X: e.X, Y: e.Y})
	}
}

func (h *Heatmap) Count(row, col int) int { return h.counts[row][col] }
func (h *Heatmap) Total() int             { return h.total }
func (h *Heatmap) Dropped() int           { return h.dropped }

// ASCII renders the grid with a frame, shading each cell relative to the
// busiest one.
func (h *Heatmap) ASCII() string {
	peak := 0
	for _, row := range h.counts {
		for _, c := range row {
			peak = max(peak, c)
		}
	}

	var sb strings.Builder
	border := "+" + strings.Repeat("-", h.Cols) + "+\n"
	sb.WriteString(border)
	for _, row := range h.counts {
		sb.WriteRune('|')
		for _, c := range row {
			idx := 0
			if peak > 0 && c > 0 {
				idx = 1 + c*(len(shades)-2)/peak
			}
			sb.WriteRune(shades[idx])
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(border)
	return sb.String()
}
