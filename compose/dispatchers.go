package compose

import (
	"context"

	"github.com/xraph/simflow/event"
	"github.com/xraph/simflow/hook"
	"github.com/xraph/simflow/track"
)

// Compile-time interface checks: a composite dispatcher satisfies the
// same contract as a single handler of its category.
var (
	_ hook.EventHandler = (*EventDispatcher)(nil)
	_ hook.TrackHandler = (*TrackDispatcher)(nil)
	_ hook.StepHandler  = (*StepDispatcher)(nil)
)

// EventDispatcher fans event-lifecycle notifications out to its
// sub-handlers in registration order.
type EventDispatcher struct {
	List[hook.EventHandler]
}

// NewEventDispatcher creates an empty event dispatcher.
func NewEventDispatcher() *EventDispatcher { return &EventDispatcher{} }

// OnEventBegin implements hook.EventHandler.
func (d *EventDispatcher) OnEventBegin(ctx context.Context, e *event.Event) {
	for _, h := range d.Handlers() {
		h.OnEventBegin(ctx, e)
	}
}

// OnEventEnd implements hook.EventHandler.
func (d *EventDispatcher) OnEventEnd(ctx context.Context, e *event.Event) {
	for _, h := range d.Handlers() {
		h.OnEventEnd(ctx, e)
	}
}

// TrackDispatcher fans track-lifecycle notifications out to its
// sub-handlers in registration order.
type TrackDispatcher struct {
	List[hook.TrackHandler]
}

// NewTrackDispatcher creates an empty track dispatcher.
func NewTrackDispatcher() *TrackDispatcher { return &TrackDispatcher{} }

// OnTrackBegin implements hook.TrackHandler.
func (d *TrackDispatcher) OnTrackBegin(ctx context.Context, t *track.Track) {
	for _, h := range d.Handlers() {
		h.OnTrackBegin(ctx, t)
	}
}

// OnTrackEnd implements hook.TrackHandler.
func (d *TrackDispatcher) OnTrackEnd(ctx context.Context, t *track.Track) {
	for _, h := range d.Handlers() {
		h.OnTrackEnd(ctx, t)
	}
}

// StepDispatcher fans step-lifecycle notifications out to its
// sub-handlers in registration order.
type StepDispatcher struct {
	List[hook.StepHandler]
}

// NewStepDispatcher creates an empty step dispatcher.
func NewStepDispatcher() *StepDispatcher { return &StepDispatcher{} }

// OnStep implements hook.StepHandler.
func (d *StepDispatcher) OnStep(ctx context.Context, s *track.Step) {
	for _, h := range d.Handlers() {
		h.OnStep(ctx, s)
	}
}
