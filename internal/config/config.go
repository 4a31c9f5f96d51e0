package config

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/backdrop/internal/agents"
	"github.com/san-kum/backdrop/internal/scene"
	"github.com/san-kum/backdrop/internal/world"
)

const (
	DefaultWidth     = 800.0
	DefaultHeight    = 600.0
	DefaultFPS       = 60
	DefaultTheme     = "paper"
	DefaultCellScale = 5.0

	MaxFPS = 240
)

var (
	ErrInvalidConfig = errors.New("config: invalid configuration")
	ErrUnknownPreset = errors.New("config: unknown preset")
	ErrUnknownKey    = errors.New("config: unknown key")
)

type Config struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Seed        int64   `yaml:"seed"`
	FPS         int     `yaml:"fps"`
	Lines       int     `yaml:"lines"`
	Silhouettes int     `yaml:"silhouettes"`

	TrailLength       int     `yaml:"trail_length"`
	CurveChance       float64 `yaml:"curve_chance"`
	EngageDistance    float64 `yaml:"engage_distance"`
	DisengageDistance float64 `yaml:"disengage_distance"`
	SpawnChance       float64 `yaml:"spawn_chance"`
	FadeSteps         int     `yaml:"fade_steps"`

	Glyphs    []string `yaml:"glyphs,omitempty"`
	Theme     string   `yaml:"theme"`
	CellScale float64  `yaml:"cell_scale"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:             DefaultWidth,
		Height:            DefaultHeight,
		FPS:               DefaultFPS,
		Lines:             world.DefaultLines,
		Silhouettes:       world.DefaultSilhouettes,
		TrailLength:       agents.DefaultTrailLength,
		CurveChance:       agents.DefaultCurveChance,
		EngageDistance:    world.DefaultEngageDistance,
		DisengageDistance: world.DefaultDisengageDistance,
		SpawnChance:       world.DefaultSpawnChance,
		FadeSteps:         agents.DefaultFadeSteps,
		Theme:             DefaultTheme,
		CellScale:         DefaultCellScale,
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base; keys missing from the file
// keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	cp := *c
	if c.Glyphs != nil {
		cp.Glyphs = append([]string(nil), c.Glyphs...)
	}
	return &cp
}

func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	switch {
	case c.Width <= 0 || c.Height <= 0:
		return invalid("size must be positive, got %gx%g", c.Width, c.Height)
	case c.FPS < 1 || c.FPS > MaxFPS:
		return invalid("fps must be in [1, %d], got %d", MaxFPS, c.FPS)
	case c.Lines < 0 || c.Silhouettes < 0:
		return invalid("entity counts must not be negative")
	case c.TrailLength < 1:
		return invalid("trail_length must be at least 1, got %d", c.TrailLength)
	case c.CurveChance < 0 || c.CurveChance > 1:
		return invalid("curve_chance must be in [0, 1], got %g", c.CurveChance)
	case c.SpawnChance < 0 || c.SpawnChance > 1:
		return invalid("spawn_chance must be in [0, 1], got %g", c.SpawnChance)
	case c.EngageDistance <= 0:
		return invalid("engage_distance must be positive, got %g", c.EngageDistance)
	case c.DisengageDistance < c.EngageDistance:
		return invalid("disengage_distance %g below engage_distance %g", c.DisengageDistance, c.EngageDistance)
	case c.FadeSteps < 1:
		return invalid("fade_steps must be at least 1, got %d", c.FadeSteps)
	case c.CellScale <= 0:
		return invalid("cell_scale must be positive, got %g", c.CellScale)
	}
	return nil
}

// Set assigns a numeric field by its yaml key. Integer fields truncate.
func (c *Config) Set(key string, v float64) error {
	switch key {
	case "width":
		c.Width = v
	case "height":
		c.Height = v
	case "seed":
		c.Seed = int64(v)
	case "fps":
		c.FPS = int(v)
	case "lines":
		c.Lines = int(v)
	case "silhouettes":
		c.Silhouettes = int(v)
	case "trail_length":
		c.TrailLength = int(v)
	case "curve_chance":
		c.CurveChance = v
	case "engage_distance":
		c.EngageDistance = v
	case "disengage_distance":
		c.DisengageDistance = v
	case "spawn_chance":
		c.SpawnChance = v
	case "fade_steps":
		c.FadeSteps = int(v)
	case "cell_scale":
		c.CellScale = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}

func (c *Config) Bounds() scene.Bounds {
	return scene.Bounds{Width: c.Width, Height: c.Height}
}

// WorldOptions builds world options seeded from c.Seed. A nil clock means the
// system clock.
func (c *Config) WorldOptions(clock scene.Clock) world.Options {
	if clock == nil {
		clock = scene.SystemClock{}
	}
	palette := agents.DefaultPalette()
	if len(c.Glyphs) > 0 {
		palette.Glyphs = c.Glyphs
	}
	return world.Options{
		Lines:       c.Lines,
		Silhouettes: c.Silhouettes,
		Line: agents.LineOptions{
			TrailLength: c.TrailLength,
			CurveChance: c.CurveChance,
		},
		FadeSteps:         c.FadeSteps,
		EngageDistance:    c.EngageDistance,
		DisengageDistance: c.DisengageDistance,
		SpawnChance:       c.SpawnChance,
		Palette:           palette,
		Rand:              rand.New(rand.NewSource(c.Seed)),
		Clock:             clock,
	}
}

// NewWorld builds a world for b from c.
func (c *Config) NewWorld(b scene.Bounds, clock scene.Clock) *world.World {
	return world.New(b, c.WorldOptions(clock))
}
