package queue

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/time/rate"

	"github.com/xraph/simflow/event"
	"github.com/xraph/simflow/id"
	"github.com/xraph/simflow/track"
)

// ErrDrained is returned by Next once every event of the run has been
// handed out.
var ErrDrained = errors.New("queue: event source drained")

// Option configures a Source.
type Option func(*Source)

// WithRate limits the sustained event rate (events per second) with a
// token-bucket limiter. A burst of zero or less defaults to 1. A limit
// of zero or less disables pacing.
func WithRate(limit float64, burst int) Option {
	return func(s *Source) {
		if limit <= 0 {
			s.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(limit), burst)
	}
}

// Source hands out the events of one run in sequence.
// It is safe for concurrent use by multiple workers.
type Source struct {
	runID     id.RunID
	total     int
	primaries int
	limiter   *rate.Limiter

	mu      sync.Mutex
	seq     int
	carried []*track.Track
}

// NewSource creates an event source for a run of total events, each
// seeded with the given number of primary tracks.
func NewSource(runID id.RunID, total, primaries int, opts ...Option) *Source {
	s := &Source{
		runID:     runID,
		total:     total,
		primaries: primaries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Next returns the next event of the run, blocking for pacing when a
// rate limit is configured. Postponed tracks handed back since the last
// call are appended to the returned event. Next returns ErrDrained once
// all events have been handed out, and the context error if ctx is
// cancelled while waiting.
func (s *Source) Next(ctx context.Context) (*event.Event, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seq >= s.total {
		return nil, ErrDrained
	}
	s.seq++

	e := event.New(s.runID, s.seq, s.primaries)
	if len(s.carried) > 0 {
		e.Tracks = append(e.Tracks, s.carried...)
		s.carried = nil
	}
	return e, nil
}

// Postpone hands tracks back to the source for carry-over into the next
// event. The tracks are marked as postponed. Tracks postponed after the
// source is drained are dropped.
func (s *Source) Postpone(tracks ...*track.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tr := range tracks {
		if tr == nil {
			continue
		}
		tr.Postponed = true
		s.carried = append(s.carried, tr)
	}
}

// Remaining reports how many events the source has yet to hand out.
func (s *Source) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total - s.seq
}
