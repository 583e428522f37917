package config

import "sort"

var Presets = map[string]*Config{
	"drop": {
		World:    WorldConfig{Width: 800, Height: 600, Gravity: 600, Friction: 0.1},
		Ball:     BallConfig{X: 400, Y: 100, Radius: 30, Mass: 2, Restitution: 0.8},
		Dt:       0.016,
		MaxDt:    0.05,
		Duration: 15.0,
	},
	"toss": {
		World:    WorldConfig{Width: 800, Height: 600, Gravity: 600, Friction: 0.1},
		Ball:     BallConfig{X: 50, Y: 100, Radius: 50, Mass: 5, Restitution: 0.7, VX: 200, VY: -50},
		Dt:       0.016,
		MaxDt:    0.05,
		Duration: 30.0,
	},
	"superball": {
		World:    WorldConfig{Width: 800, Height: 600, Gravity: 600, Drag: 0.0002, Friction: 0.02},
		Ball:     BallConfig{X: 200, Y: 150, Radius: 15, Mass: 0.5, Restitution: 0.95, VX: 350, VY: -100},
		Dt:       0.016,
		MaxDt:    0.05,
		Duration: 60.0,
	},
	"bowling": {
		World:    WorldConfig{Width: 800, Height: 600, Gravity: 600, Friction: 0.25},
		Ball:     BallConfig{X: 100, Y: 520, Radius: 40, Mass: 20, Restitution: 0.2, VX: 300},
		Dt:       0.016,
		MaxDt:    0.05,
		Duration: 15.0,
	},
	// zero mass means immovable: a fixed obstacle that ignores gravity
	"brick": {
		World:    WorldConfig{Width: 800, Height: 600, Gravity: 600, Friction: 0.1},
		Ball:     BallConfig{X: 400, Y: 300, Radius: 25, Mass: 0, Restitution: 0.5},
		Dt:       0.016,
		MaxDt:    0.05,
		Duration: 5.0,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
