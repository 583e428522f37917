package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/bouncelab/internal/phys"
)

const (
	// DefaultMaxDt caps the timestep so a delayed frame callback
	// cannot tunnel the body through a wall.
	DefaultMaxDt = 0.05

	// groundBand is the distance from the floor within which ground
	// friction engages. A tolerance band rather than exact contact, so
	// floating-point settling still counts as grounded.
	groundBand = 0.5

	// restThreshold is the horizontal speed below which a grounded
	// body is snapped to rest instead of fed more friction.
	restThreshold = 0.001
)

// Driver runs the fixed per-frame sequence on a single body: forces,
// integration, boundary resolution. Single-threaded; each Step runs to
// completion before state is observable.
type Driver struct {
	body      *phys.Body
	initial   phys.Body
	bounds    phys.Bounds
	world     World
	metrics   []Metric
	observers []Observer
	t         float64
}

func New(body *phys.Body, bounds phys.Bounds, world World) *Driver {
	if world.MaxDt <= 0 {
		world.MaxDt = DefaultMaxDt
	}
	return &Driver{
		body:      body,
		initial:   *body,
		bounds:    bounds,
		world:     world,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (d *Driver) AddMetric(m Metric)     { d.metrics = append(d.metrics, m) }
func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

func (d *Driver) Body() *phys.Body    { return d.body }
func (d *Driver) Bounds() phys.Bounds { return d.bounds }
func (d *Driver) Time() float64       { return d.t }

// Reset restores the body and clock to their construction-time values.
func (d *Driver) Reset() {
	*d.body = d.initial
	d.t = 0
	for _, m := range d.metrics {
		m.Reset()
	}
}

// Step advances one frame. dt is clamped to [0, MaxDt] before use.
// Friction enters the accumulator before integration, and its ground
// test reads the pre-integration position of this frame.
func (d *Driver) Step(dt float64) {
	if dt < 0 {
		dt = 0
	}
	if dt > d.world.MaxDt {
		dt = d.world.MaxDt
	}

	b := d.body
	b.ApplyGravity(d.world.Gravity)
	b.ApplyAirResistance(d.world.Drag)
	d.applyGroundFriction()
	b.Integrate(dt)
	b.ResolveBounds(d.bounds)
	d.t += dt
}

// applyGroundFriction implements Coulomb friction against the floor:
// force magnitude mu*m*g opposing horizontal motion, with gravity
// standing in for the normal force. Below restThreshold the horizontal
// velocity is clamped to exactly zero so friction cannot oscillate its
// sign frame to frame.
func (d *Driver) applyGroundFriction() {
	b := d.body
	if b.Immovable() {
		return
	}
	if b.Pos.Y+b.Radius < d.bounds.Height-groundBand {
		return
	}

	if math.Abs(b.Vel.X) > restThreshold {
		mag := d.world.Friction * b.Mass() * d.world.Gravity
		if b.Vel.X > 0 {
			b.ApplyForce(phys.Vec2{X: -mag})
		} else {
			b.ApplyForce(phys.Vec2{X: mag})
		}
	} else {
		b.Vel.X = 0
	}
}

// Run executes a fixed-step batch simulation and collects states,
// times and metric values.
func (d *Driver) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := d.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Times:   make([]float64, 0, steps+1),
		States:  make([]phys.State, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range d.metrics {
		m.Reset()
	}

	result.States = append(result.States, d.body.Snapshot())
	result.Times = append(result.Times, d.t)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		s := d.body.Snapshot()
		for _, m := range d.metrics {
			m.Observe(s, d.t)
		}
		for _, obs := range d.observers {
			obs.OnStep(s, d.t)
		}

		d.Step(cfg.Dt)

		s = d.body.Snapshot()
		if !s.Pos.IsValid() || !s.Vel.IsValid() {
			return result, fmt.Errorf("step %d (t=%.4f): %w", i, d.t, ErrInvalidState)
		}

		result.StepsTaken++
		result.States = append(result.States, s)
		result.Times = append(result.Times, d.t)
	}

	for _, m := range d.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback streams states to fn instead of collecting them.
// Returning false from fn stops the run.
func (d *Driver) RunWithCallback(ctx context.Context, cfg Config, fn func(s phys.State, t float64) bool) error {
	if err := d.validateConfig(cfg); err != nil {
		return err
	}

	for d.t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !fn(d.body.Snapshot(), d.t) {
			return nil
		}

		d.Step(cfg.Dt)

		if !d.body.Pos.IsValid() || !d.body.Vel.IsValid() {
			return fmt.Errorf("t=%.4f: %w", d.t, ErrInvalidState)
		}
	}

	return nil
}

func (d *Driver) validateConfig(cfg Config) error {
	if d.body == nil {
		return ErrNoBody
	}
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Dt > d.world.MaxDt {
		return fmt.Errorf("dt %f exceeds max timestep %f", cfg.Dt, d.world.MaxDt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
