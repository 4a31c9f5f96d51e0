package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/backdrop/internal/scene"
	"github.com/san-kum/backdrop/internal/sim"
	"github.com/san-kum/backdrop/internal/world"
)

// RunExport is the JSON form of a headless run.
type RunExport struct {
	Preset    string             `json:"preset,omitempty"`
	Seed      int64              `json:"seed"`
	Ticks     int                `json:"ticks"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Final     world.Stats        `json:"final"`
	Particles []float64          `json:"particles"`
	Metrics   map[string]float64 `json:"metrics"`
}

func NewRunExport(preset string, b scene.Bounds, result *sim.Result) RunExport {
	return RunExport{
		Preset:    preset,
		Seed:      result.Seed,
		Ticks:     result.Ticks,
		Width:     b.Width,
		Height:    b.Height,
		Final:     result.Final,
		Particles: result.Particles,
		Metrics:   result.Metrics,
	}
}

func WriteRunJSON(w io.Writer, data RunExport) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportRunJSON writes data to path, or to stdout when path is "-".
func ExportRunJSON(path string, data RunExport) error {
	if path == "-" {
		return WriteRunJSON(os.Stdout, data)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteRunJSON(file, data)
}
