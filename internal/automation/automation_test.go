package automation

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/sim"
)

const scenarioYAML = `name: shrink
description: run then shrink the window
steps:
  - name: warmup
    preset: sparse
    ticks: 20
  - ticks: 30
    width: 400
    height: 300
    params:
      lines: 4
      spawn_chance: 1
    resizes:
      - at: 10
        width: 200
        height: 150
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if s.Name != "shrink" || len(s.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", s)
	}
	if got := s.Steps[1].Resizes; len(got) != 1 || got[0].At != 10 || got[0].Width != 200 {
		t.Errorf("unexpected resizes %+v", got)
	}
	if s.Steps[1].Params["spawn_chance"] != 1 {
		t.Errorf("expected spawn_chance param 1, got %v", s.Steps[1].Params)
	}
}

func TestLoadScenarioNoSteps(t *testing.T) {
	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestRunScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	base := config.DefaultConfig()
	base.Seed = 5

	var out bytes.Buffer
	results, err := RunScenario(context.Background(), &out, base, s)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Result.Ticks != 20 || results[1].Result.Ticks != 30 {
		t.Errorf("expected 20 and 30 ticks, got %d and %d", results[0].Result.Ticks, results[1].Result.Ticks)
	}
	if results[0].Result.Seed != 5 {
		t.Errorf("expected preset step to keep base seed 5, got %d", results[0].Result.Seed)
	}
	if !strings.Contains(out.String(), "Running step 1/2: warmup") || !strings.Contains(out.String(), "step 2") {
		t.Errorf("unexpected progress output %q", out.String())
	}
}

func TestRunScenarioErrors(t *testing.T) {
	base := config.DefaultConfig()
	tests := []struct {
		name string
		step ScenarioStep
		want error
	}{
		{"unknown preset", ScenarioStep{Preset: "nope", Ticks: 1}, config.ErrUnknownPreset},
		{"unknown param", ScenarioStep{Ticks: 1, Params: map[string]float64{"gravity": 1}}, config.ErrUnknownKey},
		{"invalid param", ScenarioStep{Ticks: 1, Params: map[string]float64{"spawn_chance": 2}}, config.ErrInvalidConfig},
		{"no ticks", ScenarioStep{}, sim.ErrInvalidRun},
		{"bad resize", ScenarioStep{Ticks: 5, Resizes: []ResizeStep{{At: 1}}}, sim.ErrInvalidRun},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			_, err := RunScenario(context.Background(), &out, base, &Scenario{Steps: []ScenarioStep{tt.step}})
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
