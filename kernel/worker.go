package kernel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xraph/simflow/event"
	"github.com/xraph/simflow/id"
	"github.com/xraph/simflow/queue"
	"github.com/xraph/simflow/run"
	"github.com/xraph/simflow/track"
)

// workerContext is one parallel execution context of a run. Each worker
// owns a fresh handler bundle assembled for it and pulls events from the
// shared source until it drains.
type workerContext struct {
	idx      int
	workerID id.WorkerID
	host     *Host
	src      *queue.Source
	slots    *slots
	steps    int
}

func newWorkerContext(idx int, h *Host, src *queue.Source, stepsPerTrack int) *workerContext {
	return &workerContext{
		idx:      idx,
		workerID: id.NewWorkerID(),
		host:     h,
		src:      src,
		slots:    &slots{},
		steps:    stepsPerTrack,
	}
}

// work assembles this context's handlers, runs the event loop, and
// returns the context's run record (nil if no component produced one).
func (w *workerContext) work(ctx context.Context, r *run.Run) (run.Record, error) {
	w.host.assembler.Build(w.slots)

	w.host.logger.Debug("worker context starting",
		slog.String("worker_id", w.workerID.String()),
		slog.Int("worker_idx", w.idx),
	)

	var record run.Record
	if w.slots.run != nil {
		rec, err := w.slots.run.GenerateRun(ctx)
		if err != nil {
			return nil, fmt.Errorf("worker %d: generate run record: %w", w.idx, err)
		}
		record = rec
		w.slots.run.OnRunBegin(ctx, r)
	}

	for {
		e, err := w.src.Next(ctx)
		if errors.Is(err, queue.ErrDrained) {
			break
		}
		if err != nil {
			return record, fmt.Errorf("worker %d: next event: %w", w.idx, err)
		}

		execErr := w.host.chain(ctx, e, func(ctx context.Context) error {
			return w.processEvent(ctx, e)
		})
		if execErr != nil {
			return record, fmt.Errorf("worker %d: event %d: %w", w.idx, e.Seq, execErr)
		}
	}

	if w.slots.run != nil {
		w.slots.run.OnRunEnd(ctx, r)
	}

	w.host.logger.Debug("worker context finished",
		slog.String("worker_id", w.workerID.String()),
		slog.Int("worker_idx", w.idx),
	)

	return record, nil
}

// processEvent transports all tracks of one event through the stacking
// stages. Tracks start on the urgent stack; classification may defer
// them to the waiting stack (next stage), carry them to the next event,
// or discard them. When the urgent stack drains and waiting tracks
// exist, the stage advances and the waiting stack is transported as is.
func (w *workerContext) processEvent(ctx context.Context, e *event.Event) error {
	if w.slots.classify != nil {
		w.slots.classify.OnPrepareEvent(ctx)
	}
	if w.slots.event != nil {
		w.slots.event.OnEventBegin(ctx, e)
	}

	var waiting []*track.Track
	for _, tr := range e.Tracks {
		decision := track.ClassifyUrgent
		if w.slots.classify != nil {
			d, err := w.slots.classify.ClassifyTrack(ctx, tr)
			if err != nil {
				return err
			}
			decision = d
		}

		switch decision {
		case track.ClassifyUrgent:
			w.transport(ctx, tr)
		case track.ClassifyWaiting:
			waiting = append(waiting, tr)
		case track.ClassifyPostpone:
			w.src.Postpone(tr)
		case track.ClassifyKill:
			// Discarded without transport.
		}
	}

	// Deferred tracks transport in later stages of the same event.
	for stage := 1; len(waiting) > 0; stage++ {
		if w.slots.classify != nil {
			w.slots.classify.OnStageAdvance(ctx, stage)
		}
		current := waiting
		waiting = nil
		for _, tr := range current {
			w.transport(ctx, tr)
		}
	}

	if w.slots.event != nil {
		w.slots.event.OnEventEnd(ctx, e)
	}
	return nil
}

// transport steps one track from creation to its final step.
func (w *workerContext) transport(ctx context.Context, tr *track.Track) {
	if w.slots.track != nil {
		w.slots.track.OnTrackBegin(ctx, tr)
	}

	for i := 1; i <= w.steps; i++ {
		if w.slots.step != nil {
			w.slots.step.OnStep(ctx, &track.Step{
				Track: tr,
				Index: i,
				Final: i == w.steps,
			})
		}
	}

	if w.slots.track != nil {
		w.slots.track.OnTrackEnd(ctx, tr)
	}
}
