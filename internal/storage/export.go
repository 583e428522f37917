package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/bouncelab/internal/sim"
)

type ExportData struct {
	Preset   string             `json:"preset"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Times    []float64          `json:"times"`
	X        []float64          `json:"x"`
	Y        []float64          `json:"y"`
	VX       []float64          `json:"vx"`
	VY       []float64          `json:"vy"`
	Metrics  map[string]float64 `json:"metrics"`
}

func buildExport(preset string, dt, duration float64, result *sim.Result) ExportData {
	n := len(result.States)
	data := ExportData{
		Preset:   preset,
		Dt:       dt,
		Duration: duration,
		Steps:    result.StepsTaken,
		Times:    result.Times,
		X:        make([]float64, n),
		Y:        make([]float64, n),
		VX:       make([]float64, n),
		VY:       make([]float64, n),
		Metrics:  result.Metrics,
	}
	for i, s := range result.States {
		data.X[i] = s.Pos.X
		data.Y[i] = s.Pos.Y
		data.VX[i] = s.Vel.X
		data.VY[i] = s.Vel.Y
	}
	return data
}

func ExportJSON(path, preset string, dt, duration float64, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeExport(file, preset, dt, duration, result)
}

func ExportJSONStdout(preset string, dt, duration float64, result *sim.Result) error {
	return writeExport(os.Stdout, preset, dt, duration, result)
}

func writeExport(w io.Writer, preset string, dt, duration float64, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildExport(preset, dt, duration, result))
}
