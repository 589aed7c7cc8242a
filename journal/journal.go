package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xraph/simflow/compose"
	"github.com/xraph/simflow/event"
	"github.com/xraph/simflow/hook"
	"github.com/xraph/simflow/run"
	"github.com/xraph/simflow/track"
)

// Compile-time interface checks.
var (
	_ compose.Component = (*Journal)(nil)
	_ hook.RunHandler   = (*runJournal)(nil)
	_ hook.EventHandler = (*eventJournal)(nil)
	_ hook.TrackHandler = (*trackJournal)(nil)
)

// Recorder is the interface journal backends must implement. It is
// defined locally so the journal package does not depend on any concrete
// backend; callers inject one at wiring time.
type Recorder interface {
	// Record persists a fully-formed journal entry.
	Record(ctx context.Context, entry *Entry) error
}

// Entry is one journaled lifecycle milestone.
type Entry struct {
	// What happened
	Action   string `json:"action"`
	Resource string `json:"resource"`
	Category string `json:"category"`

	// Details
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, entry *Entry) error

func (f RecorderFunc) Record(ctx context.Context, entry *Entry) error {
	return f(ctx, entry)
}

// Severity constants.
const (
	SeverityInfo     = "info"
	SeverityCritical = "critical"
)

// Outcome constants.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Journal is a behavior component that emits a structured entry for
// every run, event, and track boundary. It contributes handlers for the
// run, event, and track categories; steps and classification are not
// journaled.
type Journal struct {
	compose.Base

	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates a Journal component that emits entries through the
// provided Recorder.
func New(r Recorder, opts ...Option) *Journal {
	j := &Journal{
		Base:     compose.NewBase("journal"),
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Build implements compose.Component.
func (j *Journal) Build(role hook.Role) compose.Bundle {
	b := compose.Bundle{
		Run: &runJournal{j: j},
	}
	// Events and tracks only flow through worker contexts.
	if role == hook.RoleWorker {
		b.Event = &eventJournal{j: j}
		b.Track = &trackJournal{j: j}
	}
	return b
}

// ── Run lifecycle ───────────────────────────────────

type runJournal struct {
	j    *Journal
	role hook.Role
}

func (h *runJournal) SetRole(role hook.Role) { h.role = role }

func (h *runJournal) GenerateRun(_ context.Context) (run.Record, error) {
	return nil, nil
}

func (h *runJournal) OnRunBegin(ctx context.Context, r *run.Run) {
	h.j.record(ctx, ActionRunBegin, SeverityInfo, OutcomeSuccess,
		ResourceRun, r.ID.String(), CategoryRun, nil,
		"run_seq", r.Seq,
		"workers", r.Workers,
		"events", r.Events,
		"role", h.role.String(),
	)
}

func (h *runJournal) OnRunEnd(ctx context.Context, r *run.Run) {
	severity, outcome := SeverityInfo, OutcomeSuccess
	var runErr error
	if r.State == run.StateAborted {
		severity, outcome = SeverityCritical, OutcomeFailure
		if r.Error != "" {
			runErr = errors.New(r.Error)
		}
	}
	h.j.record(ctx, ActionRunEnd, severity, outcome,
		ResourceRun, r.ID.String(), CategoryRun, runErr,
		"run_seq", r.Seq,
		"state", string(r.State),
		"role", h.role.String(),
	)
}

// ── Event lifecycle ─────────────────────────────────

type eventJournal struct {
	j *Journal
}

func (h *eventJournal) OnEventBegin(ctx context.Context, e *event.Event) {
	h.j.record(ctx, ActionEventBegin, SeverityInfo, OutcomeSuccess,
		ResourceEvent, e.ID.String(), CategoryEvent, nil,
		"event_seq", e.Seq,
		"run_id", e.RunID.String(),
		"tracks", len(e.Tracks),
	)
}

func (h *eventJournal) OnEventEnd(ctx context.Context, e *event.Event) {
	h.j.record(ctx, ActionEventEnd, SeverityInfo, OutcomeSuccess,
		ResourceEvent, e.ID.String(), CategoryEvent, nil,
		"event_seq", e.Seq,
		"run_id", e.RunID.String(),
	)
}

// ── Track lifecycle ─────────────────────────────────

type trackJournal struct {
	j *Journal
}

func (h *trackJournal) OnTrackBegin(ctx context.Context, t *track.Track) {
	h.j.record(ctx, ActionTrackBegin, SeverityInfo, OutcomeSuccess,
		ResourceTrack, t.ID.String(), CategoryTrack, nil,
		"track_seq", t.Seq,
		"event_id", t.EventID.String(),
		"postponed", t.Postponed,
	)
}

func (h *trackJournal) OnTrackEnd(ctx context.Context, t *track.Track) {
	h.j.record(ctx, ActionTrackEnd, SeverityInfo, OutcomeSuccess,
		ResourceTrack, t.ID.String(), CategoryTrack, nil,
		"track_seq", t.Seq,
		"event_id", t.EventID.String(),
	)
}

// ── Internal helpers ────────────────────────────────

// record builds and sends a journal entry if the action is enabled.
// The kvPairs argument is a list of key-value pairs added to Metadata.
func (j *Journal) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) {
	if j.enabled != nil && !j.enabled[action] {
		return
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	entry := &Entry{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := j.recorder.Record(ctx, entry); recErr != nil {
		j.logger.Warn("journal: failed to record entry",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
}
