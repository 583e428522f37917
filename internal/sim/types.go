package sim

import "github.com/san-kum/bouncelab/internal/phys"

// World holds the per-frame environment parameters the driver feeds
// into the body.
type World struct {
	Gravity  float64
	Drag     float64
	Friction float64
	MaxDt    float64
}

type Metric interface {
	Name() string
	Observe(s phys.State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s phys.State, t float64)
}

type Config struct {
	Dt       float64
	Duration float64
}

type Result struct {
	Times      []float64
	States     []phys.State
	Metrics    map[string]float64
	StepsTaken int
}
