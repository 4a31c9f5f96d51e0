package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/gui"
	"github.com/san-kum/backdrop/internal/server"
	"github.com/san-kum/backdrop/internal/storage"
	"github.com/san-kum/backdrop/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	width      float64
	height     float64
	fps        int
	theme      string
	// live and gui
	liveStats bool
	guiStats  bool
	cellScale float64
	fontPath  string
	// run and snapshot
	runTicks  int
	snapTicks int
	runs      int
	runJSON   string
	analyze   bool
	format    string
	gifFrames int
	// sweep
	sweepParams []string
	sweepMetric string
	sweepTicks  int
	sweepMax    bool
	// serve
	addr       string
	maxClients int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "backdrop",
		Short: "ambient line, walker and emoji animation",
		RunE:  runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".backdrop", "capture directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	pf.Float64Var(&width, "width", config.DefaultWidth, "scene width in pixels")
	pf.Float64Var(&height, "height", config.DefaultHeight, "scene height in pixels")
	pf.IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate in the terminal",
		RunE:  runLive,
	}
	liveCmd.Flags().BoolVar(&liveStats, "stats", true, "show stats panel")
	liveCmd.Flags().Float64Var(&cellScale, "scale", config.DefaultCellScale, "pixels per braille dot")
	rootCmd.Flags().AddFlagSet(liveCmd.Flags())

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "animate in a desktop window",
		RunE:  runGUI,
	}
	guiCmd.Flags().BoolVar(&guiStats, "stats", false, "show stats overlay")
	guiCmd.Flags().StringVar(&fontPath, "font", "", "ttf font for emoji glyphs")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream the animation to browsers",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	serveCmd.Flags().IntVar(&maxClients, "max-clients", 0, "maximum concurrent streams (0 = unlimited)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and report metrics",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&runTicks, "ticks", 1000, "ticks to simulate")
	runCmd.Flags().IntVar(&runs, "runs", 1, "runs over consecutive seeds")
	runCmd.Flags().BoolVar(&analyze, "analyze", false, "print spawn rhythm and particle heatmap")
	runCmd.Flags().StringVar(&runJSON, "json", "", "write the run as JSON to a file (- for stdout)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search config values against a metric",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "swept key and values, e.g. spawn_chance=0.05,0.1 (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "churn", "metric to optimise")
	sweepCmd.Flags().IntVar(&sweepTicks, "ticks", 500, "ticks per combination")
	sweepCmd.Flags().BoolVar(&sweepMax, "max", false, "maximise instead of minimise")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of headless runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "run headless and export frames",
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().IntVar(&snapTicks, "ticks", 300, "ticks to simulate")
	snapshotCmd.Flags().StringVar(&format, "format", "png", "svg, png or gif")
	snapshotCmd.Flags().IntVar(&gifFrames, "frames", 60, "trailing frames in a gif")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list captures",
		RunE:  listCaptures,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			fmt.Println("themes:")
			for _, t := range viz.ThemeNames() {
				fmt.Printf("  %s\n", t)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg)
		},
	}

	rootCmd.AddCommand(liveCmd, guiCmd, serveCmd, runCmd, sweepCmd, scenarioCmd, snapshotCmd, listCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers preset, config file and explicitly set flags, in that
// order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p, err := config.GetPreset(preset)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("scale") {
		cfg.CellScale = cellScale
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return viz.Run(viz.Options{
		FPS:       cfg.FPS,
		Scale:     cfg.CellScale,
		Theme:     cfg.Theme,
		ShowStats: liveStats,
		Build:     loopBuilder(cfg),
	})
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return gui.Run(gui.Options{
		Width:      int(cfg.Width),
		Height:     int(cfg.Height),
		FPS:        cfg.FPS,
		Background: viz.GetTheme(cfg.Theme).Paint(),
		FontPath:   fontPath,
		Glyphs:     glyphs(cfg),
		ShowStats:  guiStats,
		Build:      loopBuilder(cfg),
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := server.New(server.Options{
		FPS:        cfg.FPS,
		Bounds:     cfg.Bounds(),
		Background: viz.GetTheme(cfg.Theme).Paint(),
		Build:      loopBuilder(cfg),
		MaxClients: maxClients,
	})
	return srv.ListenAndServe(ctx, addr)
}

func listCaptures(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	captures, err := st.List()
	if err != nil {
		return err
	}

	if len(captures) == 0 {
		fmt.Println("no captures found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFORMAT\tTIME\tSIZE\tSEED\tTICKS\tFRAMES\tPRESET")

	for _, c := range captures {
		p := c.Preset
		if p == "" {
			p = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0fx%.0f\t%d\t%d\t%d\t%s\n",
			c.ID,
			c.Format,
			c.Timestamp.Format("2006-01-02 15:04:05"),
			c.Width, c.Height,
			c.Seed,
			c.Ticks,
			c.Frames,
			p,
		)
	}

	return w.Flush()
}
