package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/bouncelab/internal/phys"
	"github.com/san-kum/bouncelab/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Times: []float64{0.0, 0.016},
		States: []phys.State{
			{Pos: phys.Vec2{X: 50, Y: 100}, Vel: phys.Vec2{X: 200, Y: -50}},
			{Pos: phys.Vec2{X: 53.2, Y: 99.3}, Vel: phys.Vec2{X: 200, Y: -40.4}},
		},
		Metrics:    map[string]float64{"bounces": 0},
		StepsTaken: 1,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunInfo{
		Preset: "toss", Dt: 0.016, Duration: 30.0,
		Gravity: 600, Restitution: 0.7,
		Width: 800, Height: 600, Radius: 50,
	}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Preset != "toss" {
		t.Errorf("expected preset 'toss', got '%s'", meta.Preset)
	}
	if meta.Gravity != 600 {
		t.Errorf("expected gravity 600, got %f", meta.Gravity)
	}
	if meta.Metrics["bounces"] != 0 {
		t.Errorf("unexpected metrics: %v", meta.Metrics)
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}

	if len(states) != 2 || len(times) != 2 {
		t.Fatalf("expected 2 samples, got %d states, %d times", len(states), len(times))
	}
	if states[0][0] != 50 || states[0][1] != 100 {
		t.Errorf("unexpected first sample: %v", states[0])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(RunInfo{Preset: "drop", Dt: 0.016, Duration: 15.0}, testResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunInfo{Preset: "drop", Dt: 0.016, Duration: 15.0}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)

	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "states.csv")); os.IsNotExist(err) {
		t.Error("states.csv not created")
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")

	if err := ExportJSON(path, "toss", 0.016, 30.0, testResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty export")
	}
}
