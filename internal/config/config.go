package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/universe"
)

const (
	DefaultUniverse    = "earth-moon"
	DefaultStepper     = integrators.NameRKN45
	DefaultH           = 20.0
	DefaultDuration    = 2.35e6
	DefaultBodies      = 3
	DefaultSeed        = 1
	DefaultSampleEvery = 10

	// EnvPrefix prefixes environment overrides, e.g. NBODY_CONTROL_TOLERANCE.
	EnvPrefix = "NBODY"
)

// ErrInvalidConfig indicates a configuration that cannot describe a run.
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Universe    string                  `yaml:"universe" mapstructure:"universe"`
	Bodies      int                     `yaml:"bodies" mapstructure:"bodies"`
	Stepper     string                  `yaml:"stepper" mapstructure:"stepper"`
	H           float64                 `yaml:"h" mapstructure:"h"`
	Duration    float64                 `yaml:"duration" mapstructure:"duration"`
	MaxSteps    int                     `yaml:"max_steps" mapstructure:"max_steps"`
	Adaptive    bool                    `yaml:"adaptive" mapstructure:"adaptive"`
	Seed        uint64                  `yaml:"seed" mapstructure:"seed"`
	SampleEvery int                     `yaml:"sample_every" mapstructure:"sample_every"`
	Control     integrators.StepControl `yaml:"control" mapstructure:"control"`
	Sampler     universe.Sampler        `yaml:"sampler" mapstructure:"sampler"`
}

func DefaultConfig() *Config {
	return &Config{
		Universe:    DefaultUniverse,
		Bodies:      DefaultBodies,
		Stepper:     DefaultStepper,
		H:           DefaultH,
		Duration:    DefaultDuration,
		Adaptive:    true,
		Seed:        DefaultSeed,
		SampleEvery: DefaultSampleEvery,
		Control:     integrators.DefaultControl(),
		Sampler:     universe.DefaultSampler(),
	}
}

// Load reads the YAML file at path over the defaults and then applies
// NBODY_* environment overrides. An empty path loads defaults and
// environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults without consulting the environment.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
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

func (c *Config) Validate() error {
	switch {
	case c.Universe == "":
		return fmt.Errorf("%w: universe is empty", ErrInvalidConfig)
	case c.Stepper == "":
		return fmt.Errorf("%w: stepper is empty", ErrInvalidConfig)
	case !(c.H > 0):
		return fmt.Errorf("%w: h must be positive, got %g", ErrInvalidConfig, c.H)
	case c.Duration < 0 || c.MaxSteps < 0:
		return fmt.Errorf("%w: duration %g, max steps %d", ErrInvalidConfig, c.Duration, c.MaxSteps)
	case c.Duration == 0 && c.MaxSteps == 0:
		return fmt.Errorf("%w: need a duration or max_steps", ErrInvalidConfig)
	case c.Bodies < 1:
		return fmt.Errorf("%w: bodies must be at least 1, got %d", ErrInvalidConfig, c.Bodies)
	}
	if err := c.Control.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("universe", d.Universe)
	v.SetDefault("bodies", d.Bodies)
	v.SetDefault("stepper", d.Stepper)
	v.SetDefault("h", d.H)
	v.SetDefault("duration", d.Duration)
	v.SetDefault("max_steps", d.MaxSteps)
	v.SetDefault("adaptive", d.Adaptive)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("sample_every", d.SampleEvery)

	v.SetDefault("control.tolerance", d.Control.Tolerance)
	v.SetDefault("control.safety", d.Control.Safety)
	v.SetDefault("control.min_scale", d.Control.MinScale)
	v.SetDefault("control.max_scale", d.Control.MaxScale)
	v.SetDefault("control.min_step", d.Control.MinStep)

	v.SetDefault("sampler.position_range", d.Sampler.PositionRange)
	v.SetDefault("sampler.velocity_range", d.Sampler.VelocityRange)
	v.SetDefault("sampler.mass_min", d.Sampler.MassMin)
	v.SetDefault("sampler.mass_max", d.Sampler.MassMax)
	v.SetDefault("sampler.allow_negative_mass", d.Sampler.AllowNegativeMass)
}
