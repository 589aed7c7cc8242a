// Package hook defines the lifecycle hook contracts a simflow host
// exposes. The host accepts exactly one handler per category; composite
// dispatchers (package compose) implement the same interfaces so the
// host cannot distinguish a composite from a single hand-written handler.
//
// Each hook category is a separate interface. Most categories are pure
// notification fan-outs; the run and classification categories each
// carry one value-returning method.
package hook

import (
	"context"

	"github.com/xraph/simflow/event"
	"github.com/xraph/simflow/run"
	"github.com/xraph/simflow/track"
)

// Role distinguishes the coordinating context from parallel worker
// contexts. It is threaded explicitly through build calls; handlers
// never look it up from ambient state.
type Role int

const (
	// RoleWorker is a parallel worker execution context.
	RoleWorker Role = iota
	// RoleMaster is the coordinating execution context.
	RoleMaster
)

// String returns the role name.
func (r Role) String() string {
	if r == RoleMaster {
		return "master"
	}
	return "worker"
}

// Category identifies one of the five lifecycle hook categories.
// The set is fixed by the host and not extensible.
type Category string

const (
	// CategoryRun is the run-lifecycle category.
	CategoryRun Category = "run"
	// CategoryEvent is the event-lifecycle category.
	CategoryEvent Category = "event"
	// CategoryTrack is the track-lifecycle category.
	CategoryTrack Category = "track"
	// CategoryStep is the step-lifecycle category.
	CategoryStep Category = "step"
	// CategoryClassify is the track-classification category.
	CategoryClassify Category = "classify"
)

// Categories lists all hook categories in dispatch order.
func Categories() []Category {
	return []Category{CategoryRun, CategoryEvent, CategoryTrack, CategoryStep, CategoryClassify}
}

// ──────────────────────────────────────────────────
// Run lifecycle
// ──────────────────────────────────────────────────

// RunHandler observes run boundaries and may generate a per-context
// run record.
type RunHandler interface {
	// SetRole informs the handler which execution context it serves.
	// The host calls it before GenerateRun.
	SetRole(role Role)

	// GenerateRun optionally produces a fresh record for the current
	// context. Returning (nil, nil) means the handler has no record to
	// contribute.
	GenerateRun(ctx context.Context) (run.Record, error)

	// OnRunBegin is called once per context when the run starts.
	OnRunBegin(ctx context.Context, r *run.Run)

	// OnRunEnd is called once per context when the run ends.
	OnRunEnd(ctx context.Context, r *run.Run)
}

// ──────────────────────────────────────────────────
// Event lifecycle
// ──────────────────────────────────────────────────

// EventHandler observes event boundaries within a worker context.
type EventHandler interface {
	OnEventBegin(ctx context.Context, e *event.Event)
	OnEventEnd(ctx context.Context, e *event.Event)
}

// ──────────────────────────────────────────────────
// Track lifecycle
// ──────────────────────────────────────────────────

// TrackHandler observes track transport boundaries.
type TrackHandler interface {
	OnTrackBegin(ctx context.Context, t *track.Track)
	OnTrackEnd(ctx context.Context, t *track.Track)
}

// ──────────────────────────────────────────────────
// Step lifecycle
// ──────────────────────────────────────────────────

// StepHandler observes every transport step.
type StepHandler interface {
	OnStep(ctx context.Context, s *track.Step)
}

// ──────────────────────────────────────────────────
// Track classification
// ──────────────────────────────────────────────────

// ClassifyHandler decides how new tracks are stacked, and observes
// stacking stage boundaries.
type ClassifyHandler interface {
	// ClassifyTrack returns the stacking decision for a new track.
	// track.ClassifyUrgent expresses no opinion.
	ClassifyTrack(ctx context.Context, t *track.Track) (track.Classification, error)

	// OnStageAdvance is called when the urgent stack of the current
	// event drains and a new stacking stage begins.
	OnStageAdvance(ctx context.Context, stage int)

	// OnPrepareEvent is called as each new event is prepared for
	// transport, before any track of that event is classified.
	OnPrepareEvent(ctx context.Context)
}
