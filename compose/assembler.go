package compose

import (
	"log/slog"

	"github.com/xraph/simflow/hook"
)

// RunRegistrar is the restricted registration surface the host exposes
// on the coordinating context: only the run-lifecycle slot.
type RunRegistrar interface {
	// SetRunHandler installs the sole run-lifecycle handler for the
	// context. Installing again replaces the previous handler.
	SetRunHandler(h hook.RunHandler)
}

// Registrar is the full registration surface of one worker context:
// one slot per hook category. Installing into an occupied slot replaces
// the previous handler; slots left empty keep the host's no-op default.
type Registrar interface {
	RunRegistrar

	SetEventHandler(h hook.EventHandler)
	SetTrackHandler(h hook.TrackHandler)
	SetStepHandler(h hook.StepHandler)
	SetClassifyHandler(h hook.ClassifyHandler)
}

// Assembler owns the ordered component list and runs the two-phase
// build protocol. Components may be appended more than once; insertion
// order is preserved and duplicates are kept.
type Assembler struct {
	components []Component
	logger     *slog.Logger
}

// NewAssembler creates an Assembler with the given logger.
func NewAssembler(logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{logger: logger}
}

// Add appends a component to the build list. No deduplication.
func (a *Assembler) Add(c Component) {
	a.components = append(a.components, c)
}

// Components returns the component list in insertion order.
func (a *Assembler) Components() []Component { return a.components }

// Build runs a full build pass for one worker context: fresh dispatchers
// for every category, one bundle per enabled component merged in list
// order, and every non-empty dispatcher registered as the context's sole
// handler for its category. Empty dispatchers are not registered,
// leaving the host's default no-op behavior intact.
func (a *Assembler) Build(reg Registrar) {
	runDisp := NewRunDispatcher()
	eventDisp := NewEventDispatcher()
	trackDisp := NewTrackDispatcher()
	stepDisp := NewStepDispatcher()
	classifyDisp := NewClassifyDispatcher()

	for _, c := range a.components {
		if !c.Enabled() {
			a.logger.Debug("component disabled, skipped",
				slog.String("component", c.Name()),
			)
			continue
		}

		b := c.Build(hook.RoleWorker)
		a.logger.Debug("component built",
			slog.String("component", c.Name()),
			slog.Any("categories", b.Categories()),
		)
		runDisp.Add(b.Run)
		eventDisp.Add(b.Event)
		trackDisp.Add(b.Track)
		stepDisp.Add(b.Step)
		classifyDisp.Add(b.Classify)
	}

	runDisp.SetRole(hook.RoleWorker)

	if !runDisp.Empty() {
		reg.SetRunHandler(runDisp)
	}
	if !eventDisp.Empty() {
		reg.SetEventHandler(eventDisp)
	}
	if !trackDisp.Empty() {
		reg.SetTrackHandler(trackDisp)
	}
	if !stepDisp.Empty() {
		reg.SetStepHandler(stepDisp)
	}
	if !classifyDisp.Empty() {
		reg.SetClassifyHandler(classifyDisp)
	}

	a.logger.Debug("worker build pass complete",
		slog.Int("components", len(a.components)),
		slog.Int("run_handlers", runDisp.Len()),
		slog.Int("event_handlers", eventDisp.Len()),
		slog.Int("track_handlers", trackDisp.Len()),
		slog.Int("step_handlers", stepDisp.Len()),
		slog.Int("classify_handlers", classifyDisp.Len()),
	)
}

// BuildForMaster runs the restricted build pass for the coordinating
// context: the run-lifecycle category only, with the master role.
func (a *Assembler) BuildForMaster(reg RunRegistrar) {
	runDisp := NewRunDispatcher()

	for _, c := range a.components {
		if !c.Enabled() {
			continue
		}
		b := c.Build(hook.RoleMaster)
		runDisp.Add(b.Run)
	}

	runDisp.SetRole(hook.RoleMaster)

	if !runDisp.Empty() {
		reg.SetRunHandler(runDisp)
	}

	a.logger.Debug("master build pass complete",
		slog.Int("components", len(a.components)),
		slog.Int("run_handlers", runDisp.Len()),
	)
}
