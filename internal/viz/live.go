package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/backdrop/internal/loop"
	"github.com/san-kum/backdrop/internal/metrics"
	"github.com/san-kum/backdrop/internal/scene"
	"github.com/san-kum/backdrop/internal/world"
)

const (
	width           = 80
	height          = 24
	panelWidth      = 34
	historyCapacity = 240
)

// FrameMsg is one display frame. Frames from an older generation were
// cancelled by a pause and are dropped.
type FrameMsg struct {
	gen int
	at  time.Time
}

type Options struct {
	FPS       int
	Scale     float64
	Theme     string
	ShowStats bool
	Build     loop.Builder
}

// tracker collects per-frame stats. Model is copied by value on every Update,
// so the loop observer writes here through a pointer.
type tracker struct {
	history []float64
	metrics []metrics.Metric
	last    world.Stats
}

func (t *tracker) observe(_ time.Time, w *world.World) {
	st := w.Stats()
	t.last = st
	for _, m := range t.metrics {
		m.Observe(st)
	}
	t.history = append(t.history, float64(st.Particles))
	if len(t.history) > historyCapacity {
		t.history = t.history[len(t.history)-historyCapacity:]
	}
}

func (t *tracker) reset() {
	t.history = t.history[:0]
	t.last = world.Stats{}
	for _, m := range t.metrics {
		m.Reset()
	}
}

// Model hosts a loop in the terminal: bubbletea ticks fire the loop's frames
// and window size messages feed its resize source.
type Model struct {
	surface *TermSurface
	frames  *loop.ManualFrames
	resizes *loop.Notifier
	loop    *loop.Loop
	stats   *tracker

	interval      time.Duration
	gen           int
	paused        bool
	showStats     bool
	showHelp      bool
	width, height int
}

func NewModel(opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = loop.DefaultFPS
	}
	m := Model{
		frames:    loop.NewManualFrames(),
		resizes:   loop.NewNotifier(),
		stats:     &tracker{metrics: metrics.Standard(), history: make([]float64, 0, historyCapacity)},
		interval:  time.Second / time.Duration(opts.FPS),
		showStats: opts.ShowStats,
		width:     width,
		height:    height,
	}
	cols, rows := m.canvasSize()
	m.surface = NewTermSurface(cols, rows, opts.Scale, GetTheme(opts.Theme))
	m.loop = loop.New(m.surface, m.frames, m.resizes, opts.Build, m.surface.Bounds())
	m.loop.SetObserver(m.stats.observe)
	return m
}

func (m Model) Init() tea.Cmd {
	m.loop.Start()
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return FrameMsg{gen: gen, at: t} })
}

// Update handles input, resizes and frames.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.loop.Stop()
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			m.gen++
			if !m.paused {
				return m, m.tick()
			}
		case "r":
			m.loop.Stop()
			m.stats.reset()
			m.loop.Start()
		case "t":
			m.surface.SetTheme(NextTheme(m.surface.Theme))
		case "s":
			m.showStats = !m.showStats
			m.relayout()
		case "?":
			m.showHelp = !m.showHelp
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.relayout()

	case FrameMsg:
		if msg.gen != m.gen || m.paused {
			return m, nil
		}
		m.frames.Fire(msg.at)
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) canvasSize() (int, int) {
	cols, rows := m.width, m.height-1
	if m.showStats {
		cols -= panelWidth + 1
	}
	return max(cols, 1), max(rows, 1)
}

// relayout resizes the canvas and tells the loop about the new scene bounds.
// Entities are left where they are.
func (m *Model) relayout() {
	cols, rows := m.canvasSize()
	if cols == m.surface.Canvas.Width && rows == m.surface.Canvas.Height {
		return
	}
	m.surface.Resize(cols, rows)
	m.resizes.Notify(m.surface.Bounds())
}

// Bounds reports the scene area the loop ticks against.
func (m Model) Bounds() scene.Bounds { return m.loop.Bounds() }

func (m Model) Paused() bool { return m.paused }

func (m Model) View() string {
	if m.showHelp {
		return m.helpView()
	}

	canvas := m.surface.View()
	if m.showStats {
		canvas = lipgloss.JoinHorizontal(lipgloss.Top, canvas, m.panelView())
	}
	hint := lipgloss.NewStyle().Foreground(m.surface.Theme.Muted).Italic(true)
	return canvas + "\n" + hint.Render("SP:Pause R:Reset T:Theme S:Stats ?:Help Q:Quit")
}

func (m Model) panelView() string {
	th := m.surface.Theme
	label := labelStyle.Foreground(th.Muted)
	value := valueStyle.Foreground(th.Text)
	st := m.stats.last

	var s strings.Builder
	s.WriteString(GradientText("BACKDROP", th.Accent, th.Ink) + "\n")
	status := "RUNNING"
	if m.paused {
		status = "PAUSED"
	}
	s.WriteString(lipgloss.NewStyle().Foreground(th.Accent).Bold(true).Render(status) + "\n\n")

	b := m.loop.Bounds()
	rows := [][2]string{
		{"Frame", fmt.Sprintf("%d", st.Ticks)},
		{"Size", fmt.Sprintf("%.0fx%.0f", b.Width, b.Height)},
		{"Particles", fmt.Sprintf("%d", st.Particles)},
		{"Engaged", fmt.Sprintf("%d", st.Engaged)},
		{"Spawns", fmt.Sprintf("%d", st.Spawns)},
		{"Respawns", fmt.Sprintf("%d", st.Respawns)},
		{"Wraps", fmt.Sprintf("%d", st.Wraps)},
		{"Theme", th.Name},
	}
	for _, r := range rows {
		s.WriteString(label.Render(r[0]) + value.Render(r[1]) + "\n")
	}

	s.WriteString(graphStyle.Foreground(th.Accent).Render(particleChart(m.stats.history)) + "\n")

	snap := metrics.Snapshot(m.stats.metrics)
	for _, name := range metrics.Names(snap) {
		s.WriteString(label.Render(name) + value.Render(fmt.Sprintf("%.3f", snap[name])) + "\n")
	}

	return panelStyle.BorderForeground(th.Muted).Render(s.String())
}

// particleChart plots the live particle count, or a flat sparkline while the
// series has no range to plot.
func particleChart(history []float64) string {
	if len(history) < 2 {
		return SparklineChart(history, panelWidth-4)
	}
	lo, hi := history[0], history[0]
	for _, v := range history {
		lo, hi = min(lo, v), max(hi, v)
	}
	if hi == lo {
		return SparklineChart(history, panelWidth-4)
	}
	return asciigraph.Plot(history,
		asciigraph.Height(5),
		asciigraph.Width(panelWidth-14),
		asciigraph.Caption("particles"))
}

func (m Model) helpView() string {
	return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Restart with a new world ║
║  T        - Cycle themes             ║
║  S        - Toggle stats panel       ║
║  ?        - Toggle this help         ║
║  Q / Esc  - Quit                     ║
╚══════════════════════════════════════╝
`
}

// Run starts the terminal view and blocks until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
