package sim

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/bouncelab/internal/phys"
)

func testWorld() World {
	return World{Gravity: 600, Drag: 0, Friction: 0.1, MaxDt: 0.05}
}

func TestDriverStep_ClampsDt(t *testing.T) {
	bounds := phys.Bounds{Width: 800, Height: 600}
	b := phys.NewBody(400, 100, 10, 1, 0.5, phys.Vec2{})
	d := New(b, bounds, testWorld())

	// a 1s stall must integrate as MaxDt, not 1s
	d.Step(1.0)

	if math.Abs(b.Vel.Y-600*0.05) > 1e-9 {
		t.Errorf("dt not clamped: vy=%v", b.Vel.Y)
	}
	if math.Abs(d.Time()-0.05) > 1e-12 {
		t.Errorf("clock advanced by unclamped dt: %v", d.Time())
	}
}

func TestDriverStep_NegativeDt(t *testing.T) {
	bounds := phys.Bounds{Width: 800, Height: 600}
	b := phys.NewBody(400, 100, 10, 1, 0.5, phys.Vec2{Y: 10})
	d := New(b, bounds, testWorld())

	d.Step(-0.016)

	if b.Pos != (phys.Vec2{X: 400, Y: 100}) {
		t.Errorf("negative dt moved body: %v", b.Pos)
	}
}

func TestDriver_GroundFrictionDecaysToRest(t *testing.T) {
	bounds := phys.Bounds{Width: 800, Height: 600}
	b := phys.NewBody(100, bounds.Floor(10), 10, 5, 0.0, phys.Vec2{X: 0.05})
	// per-frame decrement mu*g*dt must stay below the rest threshold,
	// or the sign flips every frame instead of reaching zero
	world := World{Gravity: 600, Friction: 1e-4, MaxDt: 0.05}
	d := New(b, bounds, world)

	prev := math.Abs(b.Vel.X)
	for i := 0; i < 500; i++ {
		d.Step(0.016)
		cur := math.Abs(b.Vel.X)
		if cur > prev+1e-9 {
			t.Fatalf("step %d: sliding speed grew %v -> %v", i, prev, cur)
		}
		prev = cur
		if cur == 0 {
			break
		}
	}

	if b.Vel.X != 0 {
		t.Fatalf("body never stopped sliding: vx=%v", b.Vel.X)
	}

	// once at rest it must stay there, no sign oscillation
	for i := 0; i < 100; i++ {
		d.Step(0.016)
		if b.Vel.X != 0 {
			t.Fatalf("rest not sticky: vx=%v", b.Vel.X)
		}
	}
}

func TestDriver_NoFrictionInFlight(t *testing.T) {
	bounds := phys.Bounds{Width: 800, Height: 600}
	world := testWorld()
	world.Friction = 10 // would be very visible
	b := phys.NewBody(400, 100, 10, 1, 0.9, phys.Vec2{X: 50})
	d := New(b, bounds, world)

	d.Step(0.016)

	if b.Vel.X != 50 {
		t.Errorf("friction applied in free flight: vx=%v", b.Vel.X)
	}
}

func TestDriver_FrictionUsesPreStepPosition(t *testing.T) {
	bounds := phys.Bounds{Width: 800, Height: 600}
	world := testWorld()
	world.Friction = 1000
	// one step above the ground band; the step itself lands the body
	b := phys.NewBody(400, bounds.Floor(10)-5, 10, 1, 0.0, phys.Vec2{X: 50, Y: 400})
	d := New(b, bounds, world)

	d.Step(0.016)

	// friction must not have fired this frame
	if b.Vel.X != 50 {
		t.Errorf("friction evaluated on post-step position: vx=%v", b.Vel.X)
	}
}

func TestDriverRun(t *testing.T) {
	bounds := phys.Bounds{Width: 800, Height: 600}
	b := phys.NewBody(400, 100, 10, 1, 0.5, phys.Vec2{})
	d := New(b, bounds, testWorld())

	result, err := d.Run(context.Background(), Config{Dt: 0.01, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 100 {
		t.Errorf("expected 100 steps, got %d", result.StepsTaken)
	}
	if len(result.States) != 101 {
		t.Errorf("expected 101 states, got %d", len(result.States))
	}

	// the body must end inside bounds
	final := result.States[len(result.States)-1]
	if final.Pos.Y+b.Radius > bounds.Height+1e-9 {
		t.Errorf("body below floor: %v", final.Pos)
	}
}

func TestDriverRun_InvalidConfig(t *testing.T) {
	bounds := phys.Bounds{Width: 800, Height: 600}
	b := phys.NewBody(400, 100, 10, 1, 0.5, phys.Vec2{})
	d := New(b, bounds, testWorld())

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.01, Duration: 0}},
		{"dt above max timestep", Config{Dt: 0.1, Duration: 1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := d.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestDriverRun_RejectsDtAboveMax(t *testing.T) {
	bounds := phys.Bounds{Width: 800, Height: 600}
	b := phys.NewBody(400, 100, 10, 1, 0.5, phys.Vec2{})
	d := New(b, bounds, testWorld())

	// Step clamps dt to MaxDt, so accepting an oversized dt here would
	// quietly simulate less than the requested duration
	result, err := d.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if err == nil {
		t.Fatalf("expected error, got result with %d steps ending at t=%v",
			result.StepsTaken, d.Time())
	}
	if d.Time() != 0 {
		t.Errorf("clock advanced on rejected config: %v", d.Time())
	}
}

func TestDriverRun_ContextCancel(t *testing.T) {
	bounds := phys.Bounds{Width: 800, Height: 600}
	b := phys.NewBody(400, 100, 10, 1, 0.5, phys.Vec2{})
	d := New(b, bounds, testWorld())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Run(ctx, Config{Dt: 0.01, Duration: 10.0})
	if err == nil {
		t.Error("expected context error")
	}
}

type countingMetric struct {
	count int
}

func (c *countingMetric) Name() string                    { return "count" }
func (c *countingMetric) Observe(s phys.State, t float64) { c.count++ }
func (c *countingMetric) Value() float64                  { return float64(c.count) }
func (c *countingMetric) Reset()                          { c.count = 0 }

func TestDriverRun_Metrics(t *testing.T) {
	bounds := phys.Bounds{Width: 800, Height: 600}
	b := phys.NewBody(400, 100, 10, 1, 0.5, phys.Vec2{})
	d := New(b, bounds, testWorld())

	m := &countingMetric{}
	d.AddMetric(m)

	result, err := d.Run(context.Background(), Config{Dt: 0.01, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if m.count != 100 {
		t.Errorf("expected 100 observations, got %d", m.count)
	}
	if result.Metrics["count"] != 100 {
		t.Errorf("metric missing from result: %v", result.Metrics)
	}
}

func TestDriver_RunWithCallbackStops(t *testing.T) {
	bounds := phys.Bounds{Width: 800, Height: 600}
	b := phys.NewBody(400, 100, 10, 1, 0.5, phys.Vec2{})
	d := New(b, bounds, testWorld())

	calls := 0
	err := d.RunWithCallback(context.Background(), Config{Dt: 0.01, Duration: 10.0},
		func(s phys.State, t float64) bool {
			calls++
			return calls < 5
		})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if calls != 5 {
		t.Errorf("expected 5 callbacks, got %d", calls)
	}
}

func TestDriver_Reset(t *testing.T) {
	bounds := phys.Bounds{Width: 800, Height: 600}
	b := phys.NewBody(400, 100, 10, 1, 0.5, phys.Vec2{X: 20})
	d := New(b, bounds, testWorld())

	for i := 0; i < 50; i++ {
		d.Step(0.016)
	}
	d.Reset()

	if b.Pos != (phys.Vec2{X: 400, Y: 100}) || b.Vel != (phys.Vec2{X: 20}) {
		t.Errorf("reset did not restore body: pos=%v vel=%v", b.Pos, b.Vel)
	}
	if d.Time() != 0 {
		t.Errorf("reset did not restore clock: %v", d.Time())
	}
}
