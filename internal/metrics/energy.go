package metrics

import (
	"math"

	"github.com/san-kum/bouncelab/internal/phys"
)

// Energy tracks mean total mechanical energy. Potential energy is
// measured against the resting height on the floor, so a settled ball
// reads zero.
type Energy struct {
	name    string
	mass    float64
	gravity float64
	floor   float64
	total   float64
	samples int
}

func NewEnergy(mass, gravity, floor float64) *Energy {
	return &Energy{
		name:    "energy",
		mass:    mass,
		gravity: gravity,
		floor:   floor,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s phys.State, t float64) {
	ke := 0.5 * e.mass * s.Vel.LengthSquared()
	pe := e.mass * e.gravity * (e.floor - s.Pos.Y)
	e.total += ke + pe
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// Total returns the instantaneous mechanical energy of a state without
// accumulating it. Used by the live view.
func (e *Energy) Total(s phys.State) float64 {
	return 0.5*e.mass*s.Vel.LengthSquared() + e.mass*e.gravity*(e.floor-s.Pos.Y)
}

// EnergyDrift tracks the largest relative gain over the first observed
// energy. A bouncing ball with restitution below 1 should never drift
// upward beyond numerical tolerance.
type EnergyDrift struct {
	name    string
	mass    float64
	gravity float64
	floor   float64
	initial float64
	max     float64
	samples int
}

func NewEnergyDrift(mass, gravity, floor float64) *EnergyDrift {
	return &EnergyDrift{
		name:    "energy_drift",
		mass:    mass,
		gravity: gravity,
		floor:   floor,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s phys.State, t float64) {
	energy := 0.5*e.mass*s.Vel.LengthSquared() + e.mass*e.gravity*(e.floor-s.Pos.Y)

	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := (energy - e.initial) / math.Abs(e.initial)
		e.max = math.Max(e.max, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.max
}

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.max = 0
	e.samples = 0
}
