package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			Padding(0, 1).
			Width(panelWidth)

	labelStyle = lipgloss.NewStyle().Width(11)
	valueStyle = lipgloss.NewStyle().Bold(true)
	graphStyle = lipgloss.NewStyle().Padding(1, 0)
)

// GradientText colours each rune of text along a blend from start to end.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	from, err1 := colorful.Hex(string(start))
	to, err2 := colorful.Hex(string(end))
	if err1 != nil || err2 != nil {
		return text
	}

	var result strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := lipgloss.Color(from.BlendLab(to, t).Clamped().Hex())
		result.WriteString(lipgloss.NewStyle().Foreground(c).Render(string(r)))
	}
	return result.String()
}

// SparklineChart renders a mini sparkline from the last width values.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var result strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(chars)-1))
		result.WriteRune(chars[max(0, min(idx, len(chars)-1))])
	}
	return result.String()
}
