package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/backdrop/internal/agents"
	"github.com/san-kum/backdrop/internal/analysis"
	"github.com/san-kum/backdrop/internal/automation"
	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/export"
	"github.com/san-kum/backdrop/internal/loop"
	"github.com/san-kum/backdrop/internal/metrics"
	"github.com/san-kum/backdrop/internal/optim"
	"github.com/san-kum/backdrop/internal/scene"
	"github.com/san-kum/backdrop/internal/sim"
	"github.com/san-kum/backdrop/internal/storage"
	"github.com/san-kum/backdrop/internal/viz"
	"github.com/san-kum/backdrop/internal/world"
)

// loopBuilder seeds each rebuilt world one past the previous so a restart or
// a new browser connection does not replay the same scene.
func loopBuilder(cfg *config.Config) loop.Builder {
	var n atomic.Int64
	return func(b scene.Bounds) *world.World {
		c := cfg.Clone()
		c.Seed += n.Add(1) - 1
		return c.NewWorld(b, nil)
	}
}

func simBuilder(cfg *config.Config, clock scene.Clock) sim.Builder {
	return func(b scene.Bounds, seed int64) *world.World {
		c := cfg.Clone()
		c.Seed = seed
		return c.NewWorld(b, clock)
	}
}

func glyphs(cfg *config.Config) []string {
	if len(cfg.Glyphs) > 0 {
		return cfg.Glyphs
	}
	return agents.DefaultPalette().Glyphs
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if runs < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", runs)
	}

	run := sim.Config{Ticks: runTicks, Bounds: cfg.Bounds(), Seed: cfg.Seed}
	build := simBuilder(cfg, nil)

	progress := os.Stdout
	if runJSON == "-" {
		progress = os.Stderr
	}
	fmt.Fprintf(progress, "running %d tick(s) at %.0fx%.0f...\n", runTicks, cfg.Width, cfg.Height)
	start := time.Now()

	if runs > 1 {
		results, err := sim.NewEnsemble(build, metrics.Standard, runs, cfg.Seed).Run(context.Background(), run)
		if err != nil {
			return err
		}
		fmt.Printf("completed %d runs in %v\n", runs, time.Since(start))
		fmt.Printf("seeds: %d..%d\n", cfg.Seed, cfg.Seed+int64(runs)-1)
		printMetrics("mean metrics", sim.MeanMetrics(results))
		return nil
	}

	s := sim.New(build)
	for _, m := range metrics.Standard() {
		s.AddMetric(m)
	}
	heat := analysis.NewHeatmap(run.Bounds, 60, 15)
	if analyze {
		s.AddObserver(heat)
	}
	result, err := s.Run(context.Background(), run)
	if err != nil {
		return err
	}

	if runJSON != "" {
		data := storage.NewRunExport(preset, run.Bounds, result)
		if err := storage.ExportRunJSON(runJSON, data); err != nil {
			return err
		}
		if runJSON == "-" {
			return nil
		}
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("seed: %d\n", result.Seed)
	fmt.Printf("spawns: %d  respawns: %d  wraps: %d\n", result.Final.Spawns, result.Final.Respawns, result.Final.Wraps)
	printMetrics("metrics", result.Metrics)

	if len(result.Particles) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(result.Particles,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("live particles per tick"),
		))
	}

	if analyze {
		fmt.Println()
		if period, ok := analysis.DominantPeriod(result.Particles); ok {
			fmt.Printf("dominant particle period: %.1f ticks\n", period)
		} else {
			fmt.Println("dominant particle period: none")
		}
		fmt.Printf("particle positions (%d recorded, %d off screen):\n", heat.Total(), heat.Dropped())
		fmt.Print(heat.ASCII())
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}

	axes := make([]optim.Axis, 0, len(sweepParams))
	for _, p := range sweepParams {
		ax, err := optim.ParseAxis(p)
		if err != nil {
			return err
		}
		if err := cfg.Clone().Set(ax.Name, 0); err != nil {
			return err
		}
		axes = append(axes, ax)
	}

	grid := optim.NewGridSearch(axes, sweepMax)
	fmt.Printf("sweeping %d combination(s), %d tick(s) each...\n", grid.Size(), sweepTicks)

	eval := func(ctx context.Context, params map[string]float64) (float64, error) {
		c := cfg.Clone()
		for k, v := range params {
			if err := c.Set(k, v); err != nil {
				return 0, err
			}
		}
		if err := c.Validate(); err != nil {
			return 0, fmt.Errorf("%v: %w", params, err)
		}

		s := sim.New(simBuilder(c, nil))
		for _, m := range metrics.Standard() {
			s.AddMetric(m)
		}
		res, err := s.Run(ctx, sim.Config{Ticks: sweepTicks, Bounds: c.Bounds(), Seed: c.Seed})
		if err != nil {
			return 0, err
		}
		v, ok := res.Metrics[sweepMetric]
		if !ok {
			return 0, fmt.Errorf("unknown metric %q", sweepMetric)
		}
		return v, nil
	}

	best, points, err := grid.Search(context.Background(), eval)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := make([]string, 0, len(axes)+1)
	for _, ax := range axes {
		header = append(header, strings.ToUpper(ax.Name))
	}
	fmt.Fprintln(w, strings.Join(append(header, strings.ToUpper(sweepMetric)), "\t"))
	for _, p := range points {
		row := make([]string, 0, len(axes)+1)
		for _, ax := range axes {
			row = append(row, fmt.Sprintf("%g", p.Params[ax.Name]))
		}
		fmt.Fprintln(w, strings.Join(append(row, fmt.Sprintf("%.4f", p.Value)), "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest %s: %.4f at %v\n", sweepMetric, best.Value, best.Params)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}
	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}

	results, err := automation.RunScenario(context.Background(), os.Stdout, cfg, scenario)
	for _, r := range results {
		title := r.Step.Name
		if title == "" {
			title = fmt.Sprintf("seed %d", r.Result.Seed)
		}
		printMetrics(title, r.Result.Metrics)
	}
	return err
}

func printMetrics(title string, values map[string]float64) {
	fmt.Printf("\n%s:\n", title)
	for _, name := range metrics.Names(values) {
		fmt.Printf("  %s: %.4f\n", name, values[name])
	}
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	if snapTicks < 1 {
		return fmt.Errorf("ticks must be at least 1, got %d", snapTicks)
	}

	keep := 1
	if f == export.FormatGIF {
		keep = max(1, min(gifFrames, snapTicks))
	}

	bg := viz.GetTheme(cfg.Theme).Paint()
	clock := scene.NewMockClock(time.Unix(0, 0))
	frameTime := time.Second / time.Duration(cfg.FPS)

	var (
		svg    *export.SVG
		raster *export.Raster
		frames []*image.RGBA
	)
	if f == export.FormatSVG {
		svg = export.NewSVG(cfg.Bounds(), bg)
	} else {
		raster = export.NewRaster(cfg.Bounds(), bg)
	}

	ms := metrics.Standard()
	var final world.Stats
	err = sim.New(simBuilder(cfg, clock)).RunWithCallback(context.Background(),
		sim.Config{Ticks: snapTicks, Bounds: cfg.Bounds(), Seed: cfg.Seed},
		func(tick int, w *world.World) bool {
			clock.Advance(frameTime)
			final = w.Stats()
			for _, m := range ms {
				m.Observe(final)
			}
			if tick < snapTicks-keep {
				return true
			}
			if svg != nil {
				w.Render(svg)
				return true
			}
			w.Render(raster)
			frames = append(frames, raster.Snapshot())
			return true
		})
	if err != nil {
		return err
	}

	meta := storage.CaptureMetadata{
		Format:  string(f),
		Preset:  preset,
		Seed:    cfg.Seed,
		Ticks:   final.Ticks,
		Frames:  keep,
		Width:   cfg.Width,
		Height:  cfg.Height,
		Metrics: metrics.Snapshot(ms),
	}

	write := func(w io.Writer) error {
		switch f {
		case export.FormatSVG:
			_, err := w.Write(svg.Bytes())
			return err
		case export.FormatGIF:
			return export.WriteGIF(w, frames, max(2, 100/cfg.FPS))
		default:
			return export.WritePNG(w, frames[len(frames)-1])
		}
	}

	st := storage.New(dataDir)
	id, err := st.Save(meta, write)
	if err != nil {
		return err
	}
	saved, err := st.Load(id)
	if err != nil {
		return err
	}

	fmt.Printf("capture id: %s\n", id)
	fmt.Printf("file: %s\n", st.Path(saved))
	return nil
}
