package simflow

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds configuration for a Simulator.
type Config struct {
	// Workers is the number of parallel worker contexts per run.
	Workers int `yaml:"workers"`

	// EventsPerRun is the number of events generated for each run.
	EventsPerRun int `yaml:"events_per_run"`

	// PrimariesPerEvent is the number of primary tracks per event.
	PrimariesPerEvent int `yaml:"primaries_per_event"`

	// StepsPerTrack is the number of transport steps per track.
	StepsPerTrack int `yaml:"steps_per_track"`

	// EventRate is the maximum sustained events per second dequeued
	// across all workers. Zero disables rate limiting.
	EventRate float64 `yaml:"event_rate"`

	// EventBurst is the burst size for the token-bucket rate limiter.
	// Defaults to 1 if EventRate is set but EventBurst is zero.
	EventBurst int `yaml:"event_burst"`

	// EventTimeout is the per-event execution deadline. Zero disables it.
	EventTimeout time.Duration `yaml:"event_timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:           4,
		EventsPerRun:      100,
		PrimariesPerEvent: 3,
		StepsPerTrack:     10,
	}
}

// Validate reports whether the configuration is usable.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrBadConfig, c.Workers)
	}
	if c.EventsPerRun < 0 {
		return fmt.Errorf("%w: events_per_run must be >= 0, got %d", ErrBadConfig, c.EventsPerRun)
	}
	if c.PrimariesPerEvent < 0 {
		return fmt.Errorf("%w: primaries_per_event must be >= 0, got %d", ErrBadConfig, c.PrimariesPerEvent)
	}
	if c.StepsPerTrack < 0 {
		return fmt.Errorf("%w: steps_per_track must be >= 0, got %d", ErrBadConfig, c.StepsPerTrack)
	}
	if c.EventRate < 0 {
		return fmt.Errorf("%w: event_rate must be >= 0, got %v", ErrBadConfig, c.EventRate)
	}
	return nil
}

// LoadConfig reads a YAML configuration file. Missing keys keep their
// default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("simflow: read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("simflow: parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}
