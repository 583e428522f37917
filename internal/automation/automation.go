package automation

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/bouncelab/internal/config"
	"github.com/san-kum/bouncelab/internal/metrics"
	"github.com/san-kum/bouncelab/internal/sim"
	"github.com/san-kum/bouncelab/internal/storage"
)

// Scenario defines a scripted batch of simulation runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run in a scenario: a preset name plus optional
// overrides applied on top of it.
type ScenarioStep struct {
	Preset    string             `yaml:"preset"`
	Overrides map[string]float64 `yaml:"overrides"`
	SaveAs    string             `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// StepConfig resolves a step into a runnable config.
func StepConfig(step ScenarioStep) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if step.Preset != "" {
		preset := config.GetPreset(step.Preset)
		if preset == nil {
			return nil, fmt.Errorf("unknown preset: %s", step.Preset)
		}
		*cfg = *preset
	}

	for key, val := range step.Overrides {
		switch key {
		case "gravity":
			cfg.World.Gravity = val
		case "drag":
			cfg.World.Drag = val
		case "friction":
			cfg.World.Friction = val
		case "mass":
			cfg.Ball.Mass = val
		case "radius":
			cfg.Ball.Radius = val
		case "restitution":
			cfg.Ball.Restitution = val
		case "x":
			cfg.Ball.X = val
		case "y":
			cfg.Ball.Y = val
		case "vx":
			cfg.Ball.VX = val
		case "vy":
			cfg.Ball.VY = val
		case "dt":
			cfg.Dt = val
		case "duration":
			cfg.Duration = val
		default:
			return nil, fmt.Errorf("unknown override: %s", key)
		}
	}

	return cfg, nil
}

// RunScenario executes all steps, saving each run to the store.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store) ([]string, error) {
	runIDs := make([]string, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		fmt.Printf("running step %d/%d: %s\n", i+1, len(scenario.Steps), step.Preset)

		cfg, err := StepConfig(step)
		if err != nil {
			return runIDs, fmt.Errorf("step %d: %w", i+1, err)
		}

		ball := cfg.NewBall()
		bounds := cfg.Bounds()
		driver := sim.New(ball, bounds, cfg.SimWorld())

		floor := bounds.Floor(ball.Radius)
		driver.AddMetric(metrics.NewEnergy(cfg.Ball.Mass, cfg.World.Gravity, floor))
		driver.AddMetric(metrics.NewBounces(floor, 1.0))
		driver.AddMetric(metrics.NewSettleTime(floor, 0.5, 10))

		result, err := driver.Run(ctx, sim.Config{Dt: cfg.Dt, Duration: cfg.Duration})
		if err != nil {
			return runIDs, fmt.Errorf("step %d: %w", i+1, err)
		}

		name := step.SaveAs
		if name == "" {
			name = step.Preset
		}

		runID, err := st.Save(storage.RunInfo{
			Preset:      name,
			Dt:          cfg.Dt,
			Duration:    cfg.Duration,
			Gravity:     cfg.World.Gravity,
			Restitution: cfg.Ball.Restitution,
			Width:       cfg.World.Width,
			Height:      cfg.World.Height,
			Radius:      cfg.Ball.Radius,
		}, result)
		if err != nil {
			return runIDs, fmt.Errorf("step %d: %w", i+1, err)
		}

		runIDs = append(runIDs, runID)
	}

	return runIDs, nil
}
