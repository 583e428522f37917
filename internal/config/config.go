package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/bouncelab/internal/phys"
	"github.com/san-kum/bouncelab/internal/sim"
)

const (
	DefaultWidth       = 800.0
	DefaultHeight      = 600.0
	DefaultGravity     = 600.0
	DefaultDrag        = 0.0
	DefaultFriction    = 0.1
	DefaultDt          = 0.016
	DefaultMaxDt       = 0.05
	DefaultDuration    = 10.0
	DefaultRadius      = 50.0
	DefaultMass        = 5.0
	DefaultRestitution = 0.7
)

type Config struct {
	World    WorldConfig `yaml:"world"`
	Ball     BallConfig  `yaml:"ball"`
	Dt       float64     `yaml:"dt"`
	MaxDt    float64     `yaml:"max_dt"`
	Duration float64     `yaml:"duration"`
}

type WorldConfig struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Gravity  float64 `yaml:"gravity"`
	Drag     float64 `yaml:"drag"`
	Friction float64 `yaml:"friction"`
}

type BallConfig struct {
	X           float64 `yaml:"x"`
	Y           float64 `yaml:"y"`
	Radius      float64 `yaml:"radius"`
	Mass        float64 `yaml:"mass"`
	Restitution float64 `yaml:"restitution"`
	VX          float64 `yaml:"vx"`
	VY          float64 `yaml:"vy"`
}

func DefaultConfig() *Config {
	return &Config{
		World: WorldConfig{
			Width:    DefaultWidth,
			Height:   DefaultHeight,
			Gravity:  DefaultGravity,
			Drag:     DefaultDrag,
			Friction: DefaultFriction,
		},
		Ball: BallConfig{
			X:           DefaultWidth / 2,
			Y:           DefaultHeight / 4,
			Radius:      DefaultRadius,
			Mass:        DefaultMass,
			Restitution: DefaultRestitution,
		},
		Dt:       DefaultDt,
		MaxDt:    DefaultMaxDt,
		Duration: DefaultDuration,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Bounds returns the collision boundary described by the world section.
func (c *Config) Bounds() phys.Bounds {
	return phys.Bounds{Width: c.World.Width, Height: c.World.Height}
}

// NewBall constructs the configured body.
func (c *Config) NewBall() *phys.Body {
	return phys.NewBody(
		c.Ball.X, c.Ball.Y,
		c.Ball.Radius, c.Ball.Mass, c.Ball.Restitution,
		phys.Vec2{X: c.Ball.VX, Y: c.Ball.VY},
	)
}

// SimWorld returns the driver parameters described by the world section.
func (c *Config) SimWorld() sim.World {
	return sim.World{
		Gravity:  c.World.Gravity,
		Drag:     c.World.Drag,
		Friction: c.World.Friction,
		MaxDt:    c.MaxDt,
	}
}
