package compose

import (
	"context"
	"fmt"

	"github.com/xraph/simflow"
	"github.com/xraph/simflow/hook"
	"github.com/xraph/simflow/track"
)

var _ hook.ClassifyHandler = (*ClassifyDispatcher)(nil)

// ClassifyDispatcher fans stacking notifications out to its sub-handlers
// and resolves track classification to a single decision: sub-handlers
// returning track.ClassifyUrgent have no opinion; at most one distinct
// non-default decision may be expressed per call.
type ClassifyDispatcher struct {
	List[hook.ClassifyHandler]
}

// NewClassifyDispatcher creates an empty classification dispatcher.
func NewClassifyDispatcher() *ClassifyDispatcher { return &ClassifyDispatcher{} }

// ClassifyTrack implements hook.ClassifyHandler. Every sub-handler is
// consulted in registration order even after a decision is adopted, so
// a later conflicting decision is still detected. Two disagreeing
// non-default decisions return simflow.ErrClassifyConflict naming both.
func (d *ClassifyDispatcher) ClassifyTrack(ctx context.Context, t *track.Track) (track.Classification, error) {
	result := track.ClassifyUrgent
	for _, h := range d.Handlers() {
		decision, err := h.ClassifyTrack(ctx, t)
		if err != nil {
			return track.ClassifyUrgent, err
		}
		if decision == track.ClassifyUrgent {
			continue // no opinion
		}
		if result == track.ClassifyUrgent {
			result = decision
			continue
		}
		if decision != result {
			return track.ClassifyUrgent, fmt.Errorf("%w: %s vs %s for track %s",
				simflow.ErrClassifyConflict, result, decision, t.ID)
		}
	}
	return result, nil
}

// OnStageAdvance implements hook.ClassifyHandler.
func (d *ClassifyDispatcher) OnStageAdvance(ctx context.Context, stage int) {
	for _, h := range d.Handlers() {
		h.OnStageAdvance(ctx, stage)
	}
}

// OnPrepareEvent implements hook.ClassifyHandler.
func (d *ClassifyDispatcher) OnPrepareEvent(ctx context.Context) {
	for _, h := range d.Handlers() {
		h.OnPrepareEvent(ctx)
	}
}
