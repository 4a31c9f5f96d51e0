package automation

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/metrics"
	"github.com/san-kum/backdrop/internal/scene"
	"github.com/san-kum/backdrop/internal/sim"
	"github.com/san-kum/backdrop/internal/world"
)

// Scenario defines a scripted sequence of headless runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. Zero Width or Height keeps the base size.
type ScenarioStep struct {
	Name    string             `yaml:"name"`
	Preset  string             `yaml:"preset"`
	Ticks   int                `yaml:"ticks"`
	Seed    int64              `yaml:"seed"`
	Width   float64            `yaml:"width"`
	Height  float64            `yaml:"height"`
	Params  map[string]float64 `yaml:"params"`
	Resizes []ResizeStep       `yaml:"resizes"`
}

// ResizeStep changes the bounds before tick At.
type ResizeStep struct {
	At     int     `yaml:"at"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// StepResult pairs a step with its run.
type StepResult struct {
	Step   ScenarioStep
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	return &scenario, nil
}

// stepConfig layers the step's preset, size, seed and params over base.
func stepConfig(base *config.Config, step ScenarioStep) (*config.Config, error) {
	cfg := base.Clone()
	if step.Preset != "" {
		p, err := config.GetPreset(step.Preset)
		if err != nil {
			return nil, err
		}
		p.Seed = base.Seed
		cfg = p
	}
	if step.Width > 0 {
		cfg.Width = step.Width
	}
	if step.Height > 0 {
		cfg.Height = step.Height
	}
	if step.Seed != 0 {
		cfg.Seed = step.Seed
	}
	for k, v := range step.Params {
		if err := cfg.Set(k, v); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order, writing progress to out.
func RunScenario(ctx context.Context, out io.Writer, base *config.Config, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step %d", i+1)
		}
		fmt.Fprintf(out, "Running step %d/%d: %s\n", i+1, len(scenario.Steps), name)

		cfg, err := stepConfig(base, step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		run := sim.Config{Ticks: step.Ticks, Bounds: cfg.Bounds(), Seed: cfg.Seed}
		for _, r := range step.Resizes {
			run.Resizes = append(run.Resizes, sim.Resize{
				At:     r.At,
				Bounds: scene.Bounds{Width: r.Width, Height: r.Height},
			})
		}

		s := sim.New(func(b scene.Bounds, seed int64) *world.World {
			c := cfg.Clone()
			c.Seed = seed
			return c.NewWorld(b, nil)
		})
		for _, m := range metrics.Standard() {
			s.AddMetric(m)
		}

		result, err := s.Run(ctx, run)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Result: result})
	}

	return results, nil
}
