package compose_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xraph/simflow"
	"github.com/xraph/simflow/compose"
	"github.com/xraph/simflow/id"
	"github.com/xraph/simflow/track"
)

// stubClassifier returns a fixed decision and records stacking calls.
type stubClassifier struct {
	decision track.Classification
	err      error

	classified int
	stages     []int
	prepared   int
}

func (s *stubClassifier) ClassifyTrack(_ context.Context, _ *track.Track) (track.Classification, error) {
	s.classified++
	return s.decision, s.err
}

func (s *stubClassifier) OnStageAdvance(_ context.Context, stage int) {
	s.stages = append(s.stages, stage)
}

func (s *stubClassifier) OnPrepareEvent(_ context.Context) {
	s.prepared++
}

func newTestTrack() *track.Track {
	return track.New(id.NewEventID(), 1)
}

func TestClassifyDispatcher_Resolution(t *testing.T) {
	const d0 = track.ClassifyUrgent

	tests := []struct {
		name      string
		decisions []track.Classification
		want      track.Classification
		wantErr   bool
	}{
		{"all default", []track.Classification{d0, d0, d0}, d0, false},
		{"single opinion", []track.Classification{d0, track.ClassifyWaiting, d0}, track.ClassifyWaiting, false},
		{"agreeing opinions", []track.Classification{d0, track.ClassifyKill, track.ClassifyKill}, track.ClassifyKill, false},
		{"disagreeing opinions", []track.Classification{d0, track.ClassifyWaiting, track.ClassifyKill}, d0, true},
		{"conflict without defaults", []track.Classification{track.ClassifyPostpone, track.ClassifyKill}, d0, true},
		{"empty dispatcher", nil, d0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := compose.NewClassifyDispatcher()
			subs := make([]*stubClassifier, len(tt.decisions))
			for i, dec := range tt.decisions {
				subs[i] = &stubClassifier{decision: dec}
				d.Add(subs[i])
			}

			got, err := d.ClassifyTrack(context.Background(), newTestTrack())
			if tt.wantErr {
				if !errors.Is(err, simflow.ErrClassifyConflict) {
					t.Fatalf("expected ErrClassifyConflict, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("classification = %s, want %s", got, tt.want)
			}
			// Full pass: every sub-handler consulted exactly once.
			for i, s := range subs {
				if s.classified != 1 {
					t.Errorf("sub-handler %d consulted %d times, want 1", i, s.classified)
				}
			}
		})
	}
}

func TestClassifyDispatcher_ConflictNamesBothDecisions(t *testing.T) {
	d := compose.NewClassifyDispatcher()
	d.Add(&stubClassifier{decision: track.ClassifyWaiting})
	d.Add(&stubClassifier{decision: track.ClassifyKill})

	_, err := d.ClassifyTrack(context.Background(), newTestTrack())
	if err == nil {
		t.Fatal("expected conflict error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "waiting") || !strings.Contains(msg, "kill") {
		t.Errorf("conflict message should name both decisions, got %q", msg)
	}
}

func TestClassifyDispatcher_LateConflictStillDetected(t *testing.T) {
	// The adopted decision comes first; a conflicting one arrives after
	// further no-opinion handlers. The pass must not early-exit.
	d := compose.NewClassifyDispatcher()
	d.Add(&stubClassifier{decision: track.ClassifyWaiting})
	d.Add(&stubClassifier{decision: track.ClassifyUrgent})
	d.Add(&stubClassifier{decision: track.ClassifyPostpone})

	_, err := d.ClassifyTrack(context.Background(), newTestTrack())
	if !errors.Is(err, simflow.ErrClassifyConflict) {
		t.Fatalf("expected ErrClassifyConflict, got %v", err)
	}
}

func TestClassifyDispatcher_SubHandlerErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	d := compose.NewClassifyDispatcher()
	d.Add(&stubClassifier{decision: track.ClassifyUrgent, err: boom})

	_, err := d.ClassifyTrack(context.Background(), newTestTrack())
	if !errors.Is(err, boom) {
		t.Fatalf("expected sub-handler error to propagate, got %v", err)
	}
}

func TestClassifyDispatcher_FanOutCalls(t *testing.T) {
	d := compose.NewClassifyDispatcher()
	a := &stubClassifier{decision: track.ClassifyUrgent}
	b := &stubClassifier{decision: track.ClassifyUrgent}
	d.Add(a)
	d.Add(b)

	ctx := context.Background()
	d.OnPrepareEvent(ctx)
	d.OnStageAdvance(ctx, 1)
	d.OnStageAdvance(ctx, 2)

	for name, s := range map[string]*stubClassifier{"a": a, "b": b} {
		if s.prepared != 1 {
			t.Errorf("%s: prepared = %d, want 1", name, s.prepared)
		}
		if len(s.stages) != 2 || s.stages[0] != 1 || s.stages[1] != 2 {
			t.Errorf("%s: stages = %v, want [1 2]", name, s.stages)
		}
	}
}
