// Package run defines the simulation run entity and the run record
// contract that run-lifecycle handlers may generate.
package run

import (
	"time"

	"github.com/xraph/simflow/id"
)

// State represents the lifecycle state of a run.
type State string

const (
	// StateRunning means the run is currently executing.
	StateRunning State = "running"
	// StateCompleted means the run finished cleanly.
	StateCompleted State = "completed"
	// StateAborted means the run stopped on a fatal configuration defect.
	StateAborted State = "aborted"
)

// Run represents a single simulation run. One Run value is shared
// read-only across the coordinating and worker contexts.
type Run struct {
	ID id.RunID `json:"id"`

	// Seq is the ordinal of this run within the host process, starting at 1.
	Seq int `json:"seq"`

	// Workers is the number of worker contexts participating.
	Workers int `json:"workers"`

	// Events is the total number of events scheduled for this run.
	Events int `json:"events"`

	State       State      `json:"state"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// New creates a run in the running state.
func New(seq, workers, events int) *Run {
	return &Run{
		ID:        id.NewRunID(),
		Seq:       seq,
		Workers:   workers,
		Events:    events,
		State:     StateRunning,
		StartedAt: time.Now().UTC(),
	}
}

// Record is the per-context aggregate a run-lifecycle handler generates
// at the start of a run. Each worker context owns its own record; at end
// of run the coordinating context folds worker records into its own via
// Merge. Implementations are not required to be safe for concurrent use;
// the host merges after all workers have finished.
type Record interface {
	// Merge folds another context's record into this one. Implementations
	// should ignore records of a foreign dynamic type.
	Merge(other Record)
}

// Tally is a minimal Record counting transported work. Handlers owning
// a Tally increment it from their own context only.
type Tally struct {
	Events int64 `json:"events"`
	Tracks int64 `json:"tracks"`
	Steps  int64 `json:"steps"`
}

// Merge implements Record.
func (t *Tally) Merge(other Record) {
	o, ok := other.(*Tally)
	if !ok {
		return
	}
	t.Events += o.Events
	t.Tracks += o.Tracks
	t.Steps += o.Steps
}
