package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-flight/input"
	"github.com/lixenwraith/vi-flight/parameter"
	"github.com/lixenwraith/vi-flight/physics"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	b, err := cfg.Bindings.Resolve()
	require.NoError(t, err)
	assert.Equal(t, input.DefaultFlightBindings(), b)

	got := cfg.Body.PhysicsConfig()
	want := physics.ShipBodyConfig()
	assert.Equal(t, want.Mass, got.Mass)
	assert.Equal(t, want.Translation, got.Translation)
	assert.InDelta(t, parameter.ShipInitialYaw, physics.Heading(got.Rotation), 1e-9)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		createFile bool
		content    string
		wantErr    bool
		validate   func(t *testing.T, cfg *Config, err error)
	}{
		{
			name:       "full file",
			createFile: true,
			content: `logging:
  level: debug
  format: json
  file: logs/flight.log
loop:
  tick_interval: 20ms
flight:
  thrust_acceleration: 0.8
  max_linear_speed: 5
  boost_multiplier: 2
bindings:
  forward: ArrowUp
  backward: ArrowDown
  boost: [Space]
body:
  mass: 2
audio:
  enabled: false
input:
  namespace: pilot
  release_timeout: 300ms
`,
			validate: func(t *testing.T, cfg *Config, err error) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "logs/flight.log", cfg.Logging.File)
				assert.Equal(t, 20*time.Millisecond, cfg.Loop.TickInterval)
				assert.Equal(t, 0.8, cfg.Flight.ThrustAcceleration)
				assert.Equal(t, 5.0, cfg.Flight.MaxLinearSpeed)
				assert.Equal(t, 2.0, cfg.Flight.BoostMultiplier)
				assert.Equal(t, parameter.FlightRollAcceleration, cfg.Flight.RollAcceleration, "absent fields keep defaults")
				assert.Equal(t, 2.0, cfg.Body.Mass)
				assert.Equal(t, parameter.ShipLinearDamping, cfg.Body.LinearDamping)
				assert.False(t, cfg.Audio.Enabled)
				assert.Equal(t, "pilot", cfg.Input.Namespace)
				assert.Equal(t, 300*time.Millisecond, cfg.Input.ReleaseTimeout)

				b, err := cfg.Bindings.Resolve()
				require.NoError(t, err)
				assert.Equal(t, input.KeyArrowUp, b.Forward)
				assert.Equal(t, input.KeyArrowDown, b.Backward)
				assert.Equal(t, input.KeyA, b.Left)
				assert.Equal(t, []input.KeyCode{input.KeySpace}, b.Boost)
			},
		},
		{
			name:       "empty file keeps defaults",
			createFile: true,
			content:    "",
			validate: func(t *testing.T, cfg *Config, err error) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name:       "missing file",
			createFile: false,
			wantErr:    true,
			validate: func(t *testing.T, cfg *Config, err error) {
				assert.True(t, errors.Is(err, fs.ErrNotExist))
			},
		},
		{
			name:       "malformed yaml",
			createFile: true,
			content:    "flight: [not, a, map",
			wantErr:    true,
		},
		{
			name:       "unknown key name",
			createFile: true,
			content:    "bindings:\n  forward: KeyZ\n",
			wantErr:    true,
			validate: func(t *testing.T, cfg *Config, err error) {
				assert.ErrorIs(t, err, ErrInvalid)
				assert.Contains(t, err.Error(), "KeyZ")
			},
		},
		{
			name:       "negative speed ceiling",
			createFile: true,
			content:    "flight:\n  max_linear_speed: -1\n",
			wantErr:    true,
			validate: func(t *testing.T, cfg *Config, err error) {
				assert.ErrorIs(t, err, ErrInvalid)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "vi-flight.yaml")
			if tt.createFile {
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			}

			cfg, err := Load(path)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)
			}
			if tt.validate != nil {
				tt.validate(t, cfg, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"level", func(c *Config) { c.Logging.Level = "loud" }},
		{"format", func(c *Config) { c.Logging.Format = "xml" }},
		{"tick interval", func(c *Config) { c.Loop.TickInterval = 0 }},
		{"mass", func(c *Config) { c.Body.Mass = 0 }},
		{"damping", func(c *Config) { c.Body.AngularDamping = -0.1 }},
		{"volume", func(c *Config) { c.Audio.Volume = 1.5 }},
		{"release timeout", func(c *Config) { c.Input.ReleaseTimeout = -time.Second }},
		{"boost key", func(c *Config) { c.Bindings.Boost = []string{"Hyper"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"VIFLIGHT_LOG_LEVEL=DEBUG\nVIFLIGHT_THRUST=1.5\nVIFLIGHT_AUDIO_ENABLED=false\nVIFLIGHT_TICK_INTERVAL=10ms\n"), 0o644))

	// Process environment wins over the file
	t.Setenv("VIFLIGHT_THRUST", "2.5")
	t.Setenv("VIFLIGHT_INPUT_NAMESPACE", "pilot")

	cfg := Default()
	require.NoError(t, LoadEnv(cfg, envFile, filepath.Join(dir, "missing.env")))

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 2.5, cfg.Flight.ThrustAcceleration)
	assert.False(t, cfg.Audio.Enabled)
	assert.Equal(t, 10*time.Millisecond, cfg.Loop.TickInterval)
	assert.Equal(t, "pilot", cfg.Input.Namespace)
	assert.Equal(t, parameter.FlightMaxLinearSpeed, cfg.Flight.MaxLinearSpeed)
}

func TestLoadEnvRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"VIFLIGHT_MAX_SPEED", "fast"},
		{"VIFLIGHT_MAX_SPEED", "-2"},
		{"VIFLIGHT_AUDIO_ENABLED", "sometimes"},
		{"VIFLIGHT_RELEASE_TIMEOUT", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			assert.ErrorIs(t, LoadEnv(Default()), ErrInvalid)
		})
	}
}
