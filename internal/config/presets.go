package config

import (
	"fmt"
	"sort"
)

// Presets are complete configurations; a config file and flags are layered on
// top of the chosen one.
var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"calm": preset(func(c *Config) {
		c.FPS = 30
		c.Lines = 20
		c.Silhouettes = 15
		c.CurveChance = 0.05
		c.SpawnChance = 0.25
	}),
	"crowd": preset(func(c *Config) {
		c.Lines = 80
		c.Silhouettes = 75
		c.TrailLength = 80
		c.SpawnChance = 0.75
	}),
	"sparse": preset(func(c *Config) {
		c.Lines = 10
		c.Silhouettes = 8
		c.TrailLength = 30
		c.Theme = "night"
	}),
}

func preset(edit func(*Config)) *Config {
	c := DefaultConfig()
	edit(c)
	return c
}

// GetPreset returns a copy of the named preset.
func GetPreset(name string) (*Config, error) {
	cfg, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return cfg.Clone(), nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
