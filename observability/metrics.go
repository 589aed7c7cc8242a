package observability

import (
	"context"

	gu "github.com/xraph/go-utils/metrics"

	"github.com/xraph/simflow/compose"
	"github.com/xraph/simflow/event"
	"github.com/xraph/simflow/hook"
	"github.com/xraph/simflow/run"
	"github.com/xraph/simflow/track"
)

// Compile-time interface checks.
var (
	_ compose.Component    = (*Metrics)(nil)
	_ hook.RunHandler      = (*runCounter)(nil)
	_ hook.EventHandler    = (*eventCounter)(nil)
	_ hook.TrackHandler    = (*trackCounter)(nil)
	_ hook.StepHandler     = (*stepCounter)(nil)
	_ hook.ClassifyHandler = (*classifyCounter)(nil)
)

// Metrics is a behavior component that records lifecycle counts via
// go-utils counters. It contributes a handler for every hook category;
// all handlers of one component share the same counter set, so counts
// aggregate across worker contexts.
type Metrics struct {
	compose.Base

	RunsStarted      gu.Counter
	RunsFinished     gu.Counter
	EventsStarted    gu.Counter
	EventsFinished   gu.Counter
	TracksStarted    gu.Counter
	TracksFinished   gu.Counter
	Steps            gu.Counter
	TracksClassified gu.Counter
	StagesAdvanced   gu.Counter
}

// NewMetrics creates a Metrics component using a default metrics collector.
func NewMetrics() *Metrics {
	return NewMetricsWithFactory(gu.NewMetricsCollector("simflow/observability"))
}

// NewMetricsWithFactory creates a Metrics component with the provided
// MetricFactory. Use gu.NewMetricsCollector for testing.
func NewMetricsWithFactory(factory gu.MetricFactory) *Metrics {
	return &Metrics{
		Base: compose.NewBase("observability-metrics"),

		RunsStarted:      factory.Counter("simflow.run.started"),
		RunsFinished:     factory.Counter("simflow.run.finished"),
		EventsStarted:    factory.Counter("simflow.event.started"),
		EventsFinished:   factory.Counter("simflow.event.finished"),
		TracksStarted:    factory.Counter("simflow.track.started"),
		TracksFinished:   factory.Counter("simflow.track.finished"),
		Steps:            factory.Counter("simflow.step.count"),
		TracksClassified: factory.Counter("simflow.track.classified"),
		StagesAdvanced:   factory.Counter("simflow.stage.advanced"),
	}
}

// Build implements compose.Component. Handlers are manufactured fresh
// per execution context; they all point at the shared counter set.
func (m *Metrics) Build(_ hook.Role) compose.Bundle {
	return compose.Bundle{
		Run:      &runCounter{m: m},
		Event:    &eventCounter{m: m},
		Track:    &trackCounter{m: m},
		Step:     &stepCounter{m: m},
		Classify: &classifyCounter{m: m},
	}
}

// ── Run lifecycle ───────────────────────────────────

type runCounter struct {
	m    *Metrics
	role hook.Role
}

func (h *runCounter) SetRole(role hook.Role) { h.role = role }

// GenerateRun contributes no run record; counting happens in the
// notification hooks.
func (h *runCounter) GenerateRun(_ context.Context) (run.Record, error) {
	return nil, nil
}

func (h *runCounter) OnRunBegin(_ context.Context, _ *run.Run) {
	h.m.RunsStarted.Inc()
}

func (h *runCounter) OnRunEnd(_ context.Context, _ *run.Run) {
	h.m.RunsFinished.Inc()
}

// ── Event lifecycle ─────────────────────────────────

type eventCounter struct {
	m *Metrics
}

func (h *eventCounter) OnEventBegin(_ context.Context, _ *event.Event) {
	h.m.EventsStarted.Inc()
}

func (h *eventCounter) OnEventEnd(_ context.Context, _ *event.Event) {
	h.m.EventsFinished.Inc()
}

// ── Track lifecycle ─────────────────────────────────

type trackCounter struct {
	m *Metrics
}

func (h *trackCounter) OnTrackBegin(_ context.Context, _ *track.Track) {
	h.m.TracksStarted.Inc()
}

func (h *trackCounter) OnTrackEnd(_ context.Context, _ *track.Track) {
	h.m.TracksFinished.Inc()
}

// ── Step lifecycle ──────────────────────────────────

type stepCounter struct {
	m *Metrics
}

func (h *stepCounter) OnStep(_ context.Context, _ *track.Step) {
	h.m.Steps.Inc()
}

// ── Track classification ────────────────────────────

type classifyCounter struct {
	m *Metrics
}

// ClassifyTrack counts the decision request and expresses no opinion.
func (h *classifyCounter) ClassifyTrack(_ context.Context, _ *track.Track) (track.Classification, error) {
	h.m.TracksClassified.Inc()
	return track.ClassifyUrgent, nil
}

func (h *classifyCounter) OnStageAdvance(_ context.Context, _ int) {
	h.m.StagesAdvanced.Inc()
}

func (h *classifyCounter) OnPrepareEvent(_ context.Context) {}
