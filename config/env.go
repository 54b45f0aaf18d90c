package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix namespaces every override variable
const EnvPrefix = "VIFLIGHT_"

type envSetter func(c *Config, v string) error

var envOverrides = map[string]envSetter{
	"LOG_LEVEL":        func(c *Config, v string) error { c.Logging.Level = strings.ToLower(v); return nil },
	"LOG_FORMAT":       func(c *Config, v string) error { c.Logging.Format = strings.ToLower(v); return nil },
	"LOG_FILE":         func(c *Config, v string) error { c.Logging.File = v; return nil },
	"TICK_INTERVAL":    durationSetter(func(c *Config) *time.Duration { return &c.Loop.TickInterval }),
	"RELEASE_TIMEOUT":  durationSetter(func(c *Config) *time.Duration { return &c.Input.ReleaseTimeout }),
	"INPUT_NAMESPACE":  func(c *Config, v string) error { c.Input.Namespace = v; return nil },
	"AUDIO_ENABLED":    boolSetter(func(c *Config) *bool { return &c.Audio.Enabled }),
	"AUDIO_VOLUME":     floatSetter(func(c *Config) *float64 { return &c.Audio.Volume }),
	"THRUST":           floatSetter(func(c *Config) *float64 { return &c.Flight.ThrustAcceleration }),
	"ROLL":             floatSetter(func(c *Config) *float64 { return &c.Flight.RollAcceleration }),
	"MAX_SPEED":        floatSetter(func(c *Config) *float64 { return &c.Flight.MaxLinearSpeed }),
	"MAX_ANGULAR":      floatSetter(func(c *Config) *float64 { return &c.Flight.MaxAngularSpeed }),
	"BOOST_MULTIPLIER": floatSetter(func(c *Config) *float64 { return &c.Flight.BoostMultiplier }),
	"MASS":             floatSetter(func(c *Config) *float64 { return &c.Body.Mass }),
}

// LoadEnv applies VIFLIGHT_* overrides from the given .env files and the process
// environment, then revalidates. Process variables win over file entries.
// Missing .env files are skipped.
func LoadEnv(cfg *Config, files ...string) error {
	vars := make(map[string]string)
	for _, f := range files {
		if f == "" {
			continue
		}
		m, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: read %s: %w", f, err)
		}
		for k, v := range m {
			vars[k] = v
		}
	}

	for suffix, set := range envOverrides {
		key := EnvPrefix + suffix
		v, ok := os.LookupEnv(key)
		if !ok {
			v, ok = vars[key]
		}
		if !ok || v == "" {
			continue
		}
		if err := set(cfg, v); err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, key, v, err)
		}
	}
	return cfg.Validate()
}

func durationSetter(field func(*Config) *time.Duration) envSetter {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*field(c) = d
		return nil
	}
}

func floatSetter(field func(*Config) *float64) envSetter {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(c) = f
		return nil
	}
}

func boolSetter(field func(*Config) *bool) envSetter {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}
