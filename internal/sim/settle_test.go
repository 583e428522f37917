package sim_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bouncelab/internal/phys"
	"github.com/san-kum/bouncelab/internal/sim"
)

var _ = Describe("a tossed ball", func() {
	const (
		gravity = 600.0
		dt      = 0.016
		frames  = 2000
	)

	var (
		bounds phys.Bounds
		ball   *phys.Body
		driver *sim.Driver
	)

	BeforeEach(func() {
		bounds = phys.Bounds{Width: 800, Height: 600}
		ball = phys.NewBody(50, 100, 50, 5, 0.7, phys.Vec2{X: 200, Y: -50})
		driver = sim.New(ball, bounds, sim.World{
			Gravity:  gravity,
			Friction: 0.1,
			MaxDt:    0.05,
		})
	})

	It("stays inside the boundary on every frame", func() {
		floor := bounds.Floor(ball.Radius)
		for i := 0; i < frames; i++ {
			driver.Step(dt)
			Expect(ball.Pos.Y).To(BeNumerically("<=", floor+1e-9),
				"frame %d: ball below floor", i)
			Expect(ball.Pos.Y).To(BeNumerically(">=", ball.Radius-1e-9),
				"frame %d: ball above ceiling", i)
			Expect(ball.Pos.X).To(And(
				BeNumerically(">=", ball.Radius-1e-9),
				BeNumerically("<=", bounds.Width-ball.Radius+1e-9),
			), "frame %d: ball outside side walls", i)
		}
	})

	It("settles onto the floor with near-zero vertical speed", func() {
		floor := bounds.Floor(ball.Radius)
		for i := 0; i < frames; i++ {
			driver.Step(dt)
		}

		// once settled, contact micro-bounces stay within one frame's
		// worth of gravity
		Expect(ball.Pos.Y).To(BeNumerically("~", floor, 1e-6))
		Expect(math.Abs(ball.Vel.Y)).To(BeNumerically("<", gravity*dt))

		// and it stays settled
		for i := 0; i < 200; i++ {
			driver.Step(dt)
			Expect(ball.Pos.Y).To(BeNumerically("~", floor, 0.5))
		}
	})

	It("grinds horizontal motion down at the floor", func() {
		for i := 0; i < frames; i++ {
			driver.Step(dt)
		}
		// friction cannot halt exactly with this mu (the per-frame
		// decrement exceeds the rest threshold) but it must confine
		// vx to the one-decrement jitter band
		Expect(math.Abs(ball.Vel.X)).To(BeNumerically("<", 0.1*gravity*dt))
	})
})
