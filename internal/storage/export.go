package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/skyward-labs/quadsim/internal/quad"
)

type ExportData struct {
	Model      string               `json:"model"`
	Integrator string               `json:"integrator"`
	Controller string               `json:"controller"`
	Trajectory string               `json:"trajectory"`
	Dt         float64              `json:"dt"`
	Duration   float64              `json:"duration"`
	Steps      int                  `json:"steps"`
	Times      []float64            `json:"times"`
	States     []quad.VehicleState  `json:"states"`
	Commands   []quad.RotorCommands `json:"commands"`
	Refs       []quad.Reference     `json:"refs"`
	Metrics    map[string]float64   `json:"metrics"`
}

func exportData(model, integrator, controller, trajectory string, dt, duration float64, h *quad.History) ExportData {
	return ExportData{
		Model:      model,
		Integrator: integrator,
		Controller: controller,
		Trajectory: trajectory,
		Dt:         dt,
		Duration:   duration,
		Steps:      len(h.Times),
		Times:      h.Times,
		States:     h.States,
		Commands:   h.Commands,
		Refs:       h.Refs,
		Metrics:    h.Metrics,
	}
}

func writeJSON(w io.Writer, data ExportData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func ExportJSON(path string, model, integrator, controller, trajectory string, dt, duration float64, h *quad.History) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeJSON(file, exportData(model, integrator, controller, trajectory, dt, duration, h))
}

func ExportJSONStdout(model, integrator, controller, trajectory string, dt, duration float64, h *quad.History) error {
	return writeJSON(os.Stdout, exportData(model, integrator, controller, trajectory, dt, duration, h))
}
