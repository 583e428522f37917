package phys

import "math"

// SpeedFloor is the speed below which drag is skipped, avoiding
// division noise near rest.
const SpeedFloor = 0.001

// Body is a circular point mass with force accumulation. Forces applied
// during a frame superpose in the accumulator and are consumed by the
// next Integrate call.
//
// A non-positive or non-finite mass makes the body immovable (zero
// inverse mass). That is policy, not an error: such a body ignores
// forces and integration entirely.
type Body struct {
	Pos         Vec2
	Vel         Vec2
	Restitution float64
	Radius      float64

	accum   Vec2
	invMass float64
}

// State is a read-only snapshot of a body, consumed by observers,
// metrics and renderers.
type State struct {
	Pos Vec2
	Vel Vec2
}

func NewBody(x, y, radius, mass, restitution float64, vel Vec2) *Body {
	invMass := 0.0
	if !math.IsNaN(mass) && !math.IsInf(mass, 0) && mass > 0 {
		invMass = 1 / mass
	}
	return &Body{
		Pos:         Vec2{X: x, Y: y},
		Vel:         vel,
		Restitution: restitution,
		Radius:      radius,
		invMass:     invMass,
	}
}

// Mass returns +Inf for immovable bodies.
func (b *Body) Mass() float64 {
	if b.invMass == 0 {
		return math.Inf(1)
	}
	return 1 / b.invMass
}

func (b *Body) Immovable() bool {
	return b.invMass == 0
}

// ApplyForce accumulates the acceleration f/m. Forces applied within
// one frame superpose linearly before integration.
func (b *Body) ApplyForce(f Vec2) {
	if b.invMass <= 0 {
		return
	}
	b.accum = b.accum.Add(f.Scale(b.invMass))
}

// ApplyGravity applies a downward force of magnitude m*g. The mass
// cancels in ApplyForce, so the resulting acceleration is g for any
// movable body.
func (b *Body) ApplyGravity(g float64) {
	if b.Immovable() {
		return
	}
	b.ApplyForce(Vec2{Y: b.Mass() * g})
}

// ApplyAirResistance applies quadratic drag: magnitude k*speed^2,
// opposing the velocity. Skipped below SpeedFloor.
func (b *Body) ApplyAirResistance(k float64) {
	if b.Immovable() {
		return
	}
	speed := b.Vel.Length()
	if speed < SpeedFloor {
		return
	}
	b.ApplyForce(b.Vel.Scale(-k * speed))
}

// Integrate advances the body by dt using semi-implicit Euler: the
// velocity update precedes the position update. The accumulator is
// drained afterwards whether or not any force was applied this frame.
func (b *Body) Integrate(dt float64) {
	if b.Immovable() {
		return
	}
	b.Vel = b.Vel.Add(b.accum.Scale(dt))
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	b.accum = Vec2{}
}

// ResolveBounds clamps the body back inside bounds and reflects the
// normal velocity component, scaled by restitution. Each axis is
// handled independently; within an axis at most one wall is corrected
// per call, left/top winning ties. A body wider than the boundary
// therefore resolves only one side per call.
func (b *Body) ResolveBounds(bounds Bounds) {
	if b.Pos.X-b.Radius < 0 {
		b.Pos.X = b.Radius
		b.Vel.X = -b.Vel.X * b.Restitution
	} else if b.Pos.X+b.Radius > bounds.Width {
		b.Pos.X = bounds.Width - b.Radius
		b.Vel.X = -b.Vel.X * b.Restitution
	}

	if b.Pos.Y-b.Radius < 0 {
		b.Pos.Y = b.Radius
		b.Vel.Y = -b.Vel.Y * b.Restitution
	} else if b.Pos.Y+b.Radius > bounds.Height {
		b.Pos.Y = bounds.Height - b.Radius
		b.Vel.Y = -b.Vel.Y * b.Restitution
	}
}

func (b *Body) Snapshot() State {
	return State{Pos: b.Pos, Vel: b.Vel}
}
