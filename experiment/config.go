// Package experiment runs SNORP simulations: it repeats the event stream
// simulation, estimates the PSD of every realization, averages the estimates
// and evaluates the matching theoretical spectrum.
package experiment

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/akononovicius/flicker-snorp/dsp/law"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned for experiment settings that cannot be run.
var ErrInvalidConfig = errors.New("experiment: invalid config")

// Mode selects the event stream generation policy.
type Mode string

const (
	// ModeFixedCount draws a fixed number of pulse/gap pairs.
	ModeFixedCount Mode = "fixed-count"
	// ModeFixedDuration draws pairs until the duration budget is used up.
	ModeFixedDuration Mode = "fixed-duration"
)

// Config describes one simulation experiment.
type Config struct {
	// Mode is the generation policy: "fixed-count" (default) or "fixed-duration".
	Mode Mode `json:"mode" yaml:"mode"`

	// Repeats is the number of independent realizations averaged together.
	Repeats int `json:"repeats" yaml:"repeats"`

	// Events is the number of pulses per realization in fixed-count mode.
	Events int `json:"events" yaml:"events"`

	// Duration is the length of each realization in fixed-duration mode.
	Duration float64 `json:"duration" yaml:"duration"`

	// PulseMagnitude is the height of every pulse.
	PulseMagnitude float64 `json:"pulse_magnitude" yaml:"pulse_magnitude"`

	// Pulse and Gap are duration laws in the textual form accepted by
	// law.Parse, e.g. "poisson:1" or "pareto:1:1e4:0.5".
	Pulse string `json:"pulse" yaml:"pulse"`
	Gap   string `json:"gap" yaml:"gap"`

	// MinFreq and MaxFreq bound the frequency grid. Negative values are
	// replaced by bounds derived from the duration laws.
	MinFreq float64 `json:"min_freq" yaml:"min_freq"`
	MaxFreq float64 `json:"max_freq" yaml:"max_freq"`

	// NumFreq is the number of grid points including the end points.
	NumFreq int `json:"n_freq" yaml:"n_freq"`

	// Seed seeds every repeat. A negative seed is generated at run time and
	// reported in the result.
	Seed int64 `json:"seed" yaml:"seed"`

	// Workers caps the number of repeats simulated in parallel.
	// Zero uses GOMAXPROCS.
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`

	// CheckStep, when positive, samples the first realization every
	// CheckStep and compares the sampled estimators with the exact one.
	CheckStep float64 `json:"check_dt,omitempty" yaml:"check_dt,omitempty"`

	// ArchiveDir is where result files are written.
	ArchiveDir string `json:"archive_dir" yaml:"archive_dir"`
}

// Default returns a Config with the defaults of the Poissonian experiment.
func Default() *Config {
	return &Config{
		Mode:           ModeFixedCount,
		Repeats:        1,
		Events:         10000,
		Duration:       1e6,
		PulseMagnitude: 1,
		Pulse:          "poisson:1",
		Gap:            "poisson:1",
		MinFreq:        -1,
		MaxFreq:        -1,
		NumFreq:        100,
		Seed:           -1,
		ArchiveDir:     "data",
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// Laws parses the pulse and gap laws.
func (c *Config) Laws() (pulse, gap law.Law, err error) {
	pulse, err = law.Parse(c.Pulse)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: pulse: %w", ErrInvalidConfig, err)
	}
	gap, err = law.Parse(c.Gap)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: gap: %w", ErrInvalidConfig, err)
	}
	return pulse, gap, nil
}

// Validate checks the settings that do not depend on the laws.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeFixedCount:
		if c.Events <= 0 {
			return fmt.Errorf("%w: events must be > 0: %d", ErrInvalidConfig, c.Events)
		}
	case ModeFixedDuration:
		if !(c.Duration > 0) || math.IsInf(c.Duration, 0) {
			return fmt.Errorf("%w: duration must be finite and > 0: %v", ErrInvalidConfig, c.Duration)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	if c.Repeats <= 0 {
		return fmt.Errorf("%w: repeats must be > 0: %d", ErrInvalidConfig, c.Repeats)
	}
	if c.NumFreq < 2 {
		return fmt.Errorf("%w: n_freq must be >= 2: %d", ErrInvalidConfig, c.NumFreq)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0: %d", ErrInvalidConfig, c.Workers)
	}
	if !(c.CheckStep >= 0) || math.IsInf(c.CheckStep, 0) {
		return fmt.Errorf("%w: check step must be finite and >= 0: %v", ErrInvalidConfig, c.CheckStep)
	}
	if c.MinFreq >= 0 && c.MaxFreq >= 0 && !(c.MinFreq > 0 && c.MaxFreq > c.MinFreq) {
		return fmt.Errorf("%w: frequency bounds must satisfy 0 < min < max: min=%v max=%v",
			ErrInvalidConfig, c.MinFreq, c.MaxFreq)
	}
	return nil
}
