package config

import "sort"

var Presets = map[string]*Config{
	"baseline": DefaultConfig(),
	"flat": {
		Dt: 0.02, Duration: 40.0,
		Scene:            SceneConfig{Angle: 0, BallX: 70, BallY0: 100, TrainX: 10},
		Physics:          PhysicsConfig{Mass: 10, Gravity: 9.81, Friction: 0.1},
		ControllerParams: ControllerConfig{Kp: 45, Ki: 0.5, Kd: 25},
	},
	"steep": {
		Dt: 0.02, Duration: 40.0,
		Scene:            SceneConfig{Angle: 45, BallX: 60, BallY0: 100, TrainX: 10},
		Physics:          PhysicsConfig{Mass: 10, Gravity: 9.81, Friction: 0.1},
		ControllerParams: ControllerConfig{Kp: 45, Ki: 0.5, Kd: 25},
	},
	"far": {
		Dt: 0.02, Duration: 40.0,
		Scene:            SceneConfig{Angle: 15, BallX: 95, BallY0: 100, TrainX: 0},
		Physics:          PhysicsConfig{Mass: 10, Gravity: 9.81, Friction: 0.1},
		ControllerParams: ControllerConfig{Kp: 45, Ki: 0.5, Kd: 25},
	},
	"heavy": {
		Dt: 0.02, Duration: 40.0,
		Scene:            SceneConfig{Angle: 30, BallX: 70, BallY0: 100, TrainX: 10},
		Physics:          PhysicsConfig{Mass: 50, Gravity: 9.81, Friction: 0.2},
		ControllerParams: ControllerConfig{Kp: 120, Ki: 1.0, Kd: 80},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *cfg
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
