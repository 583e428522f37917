package metrics

import (
	"math"

	"github.com/san-kum/bouncelab/internal/phys"
)

// Bounces counts floor impacts: frames where the vertical velocity
// flips from downward to upward while the body is near the floor.
type Bounces struct {
	name   string
	floor  float64
	band   float64
	prevVY float64
	first  bool
	count  int
}

func NewBounces(floor, band float64) *Bounces {
	return &Bounces{
		name:  "bounces",
		floor: floor,
		band:  band,
		first: true,
	}
}

func (b *Bounces) Name() string { return b.name }

func (b *Bounces) Observe(s phys.State, t float64) {
	if b.first {
		b.prevVY = s.Vel.Y
		b.first = false
		return
	}
	near := b.floor-s.Pos.Y <= b.band
	if near && b.prevVY > 0 && s.Vel.Y < 0 {
		b.count++
	}
	b.prevVY = s.Vel.Y
}

func (b *Bounces) Value() float64 {
	return float64(b.count)
}

func (b *Bounces) Reset() {
	b.prevVY = 0
	b.first = true
	b.count = 0
}

// SettleTime reports the first time the body came to rest on the floor
// and stayed there. Value is -1 until the body settles.
type SettleTime struct {
	name      string
	floor     float64
	band      float64
	threshold float64
	settledAt float64
	settled   bool
}

func NewSettleTime(floor, band, threshold float64) *SettleTime {
	return &SettleTime{
		name:      "settle_time",
		floor:     floor,
		band:      band,
		threshold: threshold,
		settledAt: -1,
	}
}

func (s *SettleTime) Name() string { return s.name }

func (s *SettleTime) Observe(st phys.State, t float64) {
	near := s.floor-st.Pos.Y <= s.band
	slow := math.Abs(st.Vel.X) < s.threshold && math.Abs(st.Vel.Y) < s.threshold

	if near && slow {
		if !s.settled {
			s.settled = true
			s.settledAt = t
		}
	} else {
		s.settled = false
		s.settledAt = -1
	}
}

func (s *SettleTime) Value() float64 {
	if !s.settled {
		return -1
	}
	return s.settledAt
}

func (s *SettleTime) Reset() {
	s.settled = false
	s.settledAt = -1
}
