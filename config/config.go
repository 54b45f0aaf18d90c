package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/vi-flight/flight"
	"github.com/lixenwraith/vi-flight/input"
	"github.com/lixenwraith/vi-flight/parameter"
	"github.com/lixenwraith/vi-flight/physics"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("config: invalid")

// Config is the read-only startup configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Loop     LoopConfig     `yaml:"loop"`
	Flight   flight.Tuning  `yaml:"flight"`
	Bindings BindingsConfig `yaml:"bindings"`
	Body     BodyConfig     `yaml:"body"`
	Audio    AudioConfig    `yaml:"audio"`
	Input    InputConfig    `yaml:"input"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, text, json
	File   string `yaml:"file"`   // Empty discards output
}

type LoopConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
}

// BindingsConfig names keys by code, e.g. "KeyW" or "ShiftLeft"
type BindingsConfig struct {
	Forward  string   `yaml:"forward"`
	Backward string   `yaml:"backward"`
	Left     string   `yaml:"left"`
	Right    string   `yaml:"right"`
	Boost    []string `yaml:"boost"`
	SlowDown string   `yaml:"slow_down"`
	SpeedUp  string   `yaml:"speed_up"`
}

type BodyConfig struct {
	Mass           float64 `yaml:"mass"`
	LinearDamping  float64 `yaml:"linear_damping"`
	AngularDamping float64 `yaml:"angular_damping"`
	GravityScale   float64 `yaml:"gravity_scale"`
	StartHeight    float64 `yaml:"start_height"`
	InitialYaw     float64 `yaml:"initial_yaw"` // Degrees about +Y
}

type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // 0..1
}

type InputConfig struct {
	Namespace      string        `yaml:"namespace"`
	ReleaseTimeout time.Duration `yaml:"release_timeout"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Loop: LoopConfig{
			TickInterval: parameter.TickInterval,
		},
		Flight: flight.DefaultTuning(),
		Bindings: BindingsConfig{
			Forward:  input.KeyW.String(),
			Backward: input.KeyS.String(),
			Left:     input.KeyA.String(),
			Right:    input.KeyD.String(),
			Boost:    []string{input.KeyShiftLeft.String(), input.KeyShiftRight.String()},
			SlowDown: input.KeyQ.String(),
			SpeedUp:  input.KeyE.String(),
		},
		Body: BodyConfig{
			Mass:           parameter.ShipMass,
			LinearDamping:  parameter.ShipLinearDamping,
			AngularDamping: parameter.ShipAngularDamping,
			GravityScale:   parameter.ShipGravityScale,
			StartHeight:    parameter.ShipStartHeight,
			InitialYaw:     parameter.ShipInitialYaw,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  parameter.ThrusterVolume,
		},
		Input: InputConfig{
			ReleaseTimeout: parameter.KeyReleaseTimeout,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults; fields absent from data keep their default
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and key names
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level %q", ErrInvalid, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "text", "json":
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalid, c.Logging.Format)
	}
	if c.Loop.TickInterval <= 0 {
		return fmt.Errorf("%w: loop.tick_interval must be positive, got %v", ErrInvalid, c.Loop.TickInterval)
	}
	if err := c.Flight.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := c.Bindings.Resolve(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Body.Mass <= 0 {
		return fmt.Errorf("%w: body.mass must be positive, got %v", ErrInvalid, c.Body.Mass)
	}
	if c.Body.LinearDamping < 0 || c.Body.AngularDamping < 0 {
		return fmt.Errorf("%w: body damping must be >= 0", ErrInvalid)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("%w: audio.volume must be in [0,1], got %v", ErrInvalid, c.Audio.Volume)
	}
	if c.Input.ReleaseTimeout <= 0 {
		return fmt.Errorf("%w: input.release_timeout must be positive, got %v", ErrInvalid, c.Input.ReleaseTimeout)
	}
	return nil
}

// Resolve parses the key names into flight bindings
func (b BindingsConfig) Resolve() (input.FlightBindings, error) {
	return input.ParseFlightBindings(b.Forward, b.Backward, b.Left, b.Right, b.Boost, b.SlowDown, b.SpeedUp)
}

// PhysicsConfig converts the body section into a spawn configuration
func (b BodyConfig) PhysicsConfig() physics.BodyConfig {
	cfg := physics.ShipBodyConfig()
	cfg.Mass = b.Mass
	cfg.LinearDamping = b.LinearDamping
	cfg.AngularDamping = b.AngularDamping
	cfg.GravityScale = b.GravityScale
	cfg.Translation = mgl64.Vec3{0, b.StartHeight, 0}
	cfg.Rotation = mgl64.QuatRotate(mgl64.DegToRad(b.InitialYaw), mgl64.Vec3{0, 1, 0})
	return cfg
}
