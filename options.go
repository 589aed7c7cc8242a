package simflow

import (
	"log/slog"
	"time"
)

// Option configures a Simulator.
type Option func(*Simulator) error

// Simulator is the root coordinator holding run configuration and the
// logger shared by all subsystems. Use the kernel package to build an
// executable host from a Simulator.
type Simulator struct {
	config Config
	logger *slog.Logger

	// runSeq numbers successive runs within this host process.
	runSeq int
}

// New creates a Simulator with the given options.
func New(opts ...Option) (*Simulator, error) {
	s := &Simulator{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Logger returns the simulator's logger.
func (s *Simulator) Logger() *slog.Logger { return s.logger }

// Config returns a copy of the simulator's configuration.
func (s *Simulator) Config() Config { return s.config }

// NextRunSeq returns the sequence number for the next run.
// Not safe for concurrent use; runs execute one at a time.
func (s *Simulator) NextRunSeq() int {
	s.runSeq++
	return s.runSeq
}

// WithConfig replaces the full configuration.
func WithConfig(cfg Config) Option {
	return func(s *Simulator) error {
		s.config = cfg
		return nil
	}
}

// WithLogger sets the structured logger for the simulator.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) error {
		s.logger = l
		return nil
	}
}

// WithWorkers sets the number of parallel worker contexts.
func WithWorkers(n int) Option {
	return func(s *Simulator) error {
		s.config.Workers = n
		return nil
	}
}

// WithEventsPerRun sets the number of events generated per run.
func WithEventsPerRun(n int) Option {
	return func(s *Simulator) error {
		s.config.EventsPerRun = n
		return nil
	}
}

// WithPrimariesPerEvent sets the number of primary tracks per event.
func WithPrimariesPerEvent(n int) Option {
	return func(s *Simulator) error {
		s.config.PrimariesPerEvent = n
		return nil
	}
}

// WithStepsPerTrack sets the number of transport steps per track.
func WithStepsPerTrack(n int) Option {
	return func(s *Simulator) error {
		s.config.StepsPerTrack = n
		return nil
	}
}

// WithEventRate sets the token-bucket pacing for event dispatch.
// A zero rate disables pacing.
func WithEventRate(rate float64, burst int) Option {
	return func(s *Simulator) error {
		s.config.EventRate = rate
		s.config.EventBurst = burst
		return nil
	}
}

// WithEventTimeout sets the per-event execution deadline.
func WithEventTimeout(d time.Duration) Option {
	return func(s *Simulator) error {
		s.config.EventTimeout = d
		return nil
	}
}
