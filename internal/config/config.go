package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/catchsim/internal/dynamo"
)

const (
	DefaultDt       = 0.02
	DefaultDuration = 40.0
	DefaultAngle    = 30.0
	DefaultBallX    = 70.0
	DefaultBallY    = 100.0
	DefaultTrainX   = 10.0
	DefaultKp       = 45.0
	DefaultKi       = 0.5
	DefaultKd       = 25.0
	DefaultMass     = 10.0
	DefaultGravity  = 9.81
	DefaultFriction = 0.1
)

type Config struct {
	Dt               float64          `yaml:"dt"`
	Duration         float64          `yaml:"duration"`
	Seed             int64            `yaml:"seed"`
	Scene            SceneConfig      `yaml:"scene"`
	Physics          PhysicsConfig    `yaml:"physics"`
	ControllerParams ControllerConfig `yaml:"controller_params"`
}

type SceneConfig struct {
	Angle  float64 `yaml:"angle"`
	BallX  float64 `yaml:"ball_x"`
	BallY0 float64 `yaml:"ball_y0"`
	TrainX float64 `yaml:"train_x0"`
}

type PhysicsConfig struct {
	Mass     float64 `yaml:"mass"`
	Gravity  float64 `yaml:"gravity"`
	Friction float64 `yaml:"friction"`
}

type ControllerConfig struct {
	Kp float64 `yaml:"kp"`
	Ki float64 `yaml:"ki"`
	Kd float64 `yaml:"kd"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Scene: SceneConfig{
			Angle:  DefaultAngle,
			BallX:  DefaultBallX,
			BallY0: DefaultBallY,
			TrainX: DefaultTrainX,
		},
		Physics: PhysicsConfig{
			Mass:     DefaultMass,
			Gravity:  DefaultGravity,
			Friction: DefaultFriction,
		},
		ControllerParams: ControllerConfig{
			Kp: DefaultKp,
			Ki: DefaultKi,
			Kd: DefaultKd,
		},
	}
}

// Load reads a YAML file over DefaultConfig, so omitted keys keep their
// defaults.
// Load reads a config file over the defaults.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a config file over a copy of base: keys absent from the
// file keep base's values. base is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) ToScenario() dynamo.Scenario {
	return dynamo.Scenario{
		AngleDeg: c.Scene.Angle,
		BallX:    c.Scene.BallX,
		BallY0:   c.Scene.BallY0,
		TrainX0:  c.Scene.TrainX,
		Duration: c.Duration,
		Dt:       c.Dt,
		Kp:       c.ControllerParams.Kp,
		Ki:       c.ControllerParams.Ki,
		Kd:       c.ControllerParams.Kd,
		Mass:     c.Physics.Mass,
		Gravity:  c.Physics.Gravity,
		Friction: c.Physics.Friction,
	}
}

func FromScenario(sc dynamo.Scenario) *Config {
	return &Config{
		Dt:       sc.Dt,
		Duration: sc.Duration,
		Scene: SceneConfig{
			Angle:  sc.AngleDeg,
			BallX:  sc.BallX,
			BallY0: sc.BallY0,
			TrainX: sc.TrainX0,
		},
		Physics: PhysicsConfig{
			Mass:     sc.Mass,
			Gravity:  sc.Gravity,
			Friction: sc.Friction,
		},
		ControllerParams: ControllerConfig{
			Kp: sc.Kp,
			Ki: sc.Ki,
			Kd: sc.Kd,
		},
	}
}
