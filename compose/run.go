package compose

import (
	"context"
	"fmt"

	"github.com/xraph/simflow"
	"github.com/xraph/simflow/hook"
	"github.com/xraph/simflow/run"
)

var _ hook.RunHandler = (*RunDispatcher)(nil)

// RunDispatcher fans run-lifecycle notifications out to its sub-handlers
// and resolves run-record generation to a single value: at most one
// sub-handler may produce a record per generate call.
type RunDispatcher struct {
	List[hook.RunHandler]

	role hook.Role
}

// NewRunDispatcher creates an empty run dispatcher serving worker
// contexts until SetRole says otherwise.
func NewRunDispatcher() *RunDispatcher { return &RunDispatcher{} }

// SetRole implements hook.RunHandler. The role is re-propagated to every
// sub-handler at the start of each GenerateRun call, so all sub-handlers
// observe a consistent role regardless of when they were added.
func (d *RunDispatcher) SetRole(role hook.Role) { d.role = role }

// Role returns the role the dispatcher currently serves.
func (d *RunDispatcher) Role() hook.Role { return d.role }

// GenerateRun implements hook.RunHandler. It consults every sub-handler
// in registration order and adopts the single non-nil record produced.
// A second non-nil record is a fatal configuration defect: the pass
// stops and simflow.ErrDuplicateRecord is returned.
func (d *RunDispatcher) GenerateRun(ctx context.Context) (run.Record, error) {
	// Every sub-handler sees the role before any generate call runs.
	for _, h := range d.Handlers() {
		h.SetRole(d.role)
	}

	var record run.Record
	for i, h := range d.Handlers() {
		r, err := h.GenerateRun(ctx)
		if err != nil {
			return nil, err
		}
		if r == nil {
			continue
		}
		if record != nil {
			return nil, fmt.Errorf("%w: handler %d of %d produced a second record (%s context)",
				simflow.ErrDuplicateRecord, i+1, d.Len(), d.role)
		}
		record = r
	}
	return record, nil
}

// OnRunBegin implements hook.RunHandler.
func (d *RunDispatcher) OnRunBegin(ctx context.Context, r *run.Run) {
	for _, h := range d.Handlers() {
		h.OnRunBegin(ctx, r)
	}
}

// OnRunEnd implements hook.RunHandler.
func (d *RunDispatcher) OnRunEnd(ctx context.Context, r *run.Run) {
	for _, h := range d.Handlers() {
		h.OnRunEnd(ctx, r)
	}
}
