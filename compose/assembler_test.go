package compose_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/xraph/simflow/compose"
	"github.com/xraph/simflow/hook"
	"github.com/xraph/simflow/track"
)

// fakeRegistrar records which category slots were installed.
type fakeRegistrar struct {
	run      hook.RunHandler
	event    hook.EventHandler
	track    hook.TrackHandler
	step     hook.StepHandler
	classify hook.ClassifyHandler

	runSets int
}

func (f *fakeRegistrar) SetRunHandler(h hook.RunHandler) {
	f.run = h
	f.runSets++
}
func (f *fakeRegistrar) SetEventHandler(h hook.EventHandler)       { f.event = h }
func (f *fakeRegistrar) SetTrackHandler(h hook.TrackHandler)       { f.track = h }
func (f *fakeRegistrar) SetStepHandler(h hook.StepHandler)         { f.step = h }
func (f *fakeRegistrar) SetClassifyHandler(h hook.ClassifyHandler) { f.classify = h }

// stepOnlyComponent contributes one step handler per build.
type stepOnlyComponent struct {
	compose.Base

	builds   int
	lastRole hook.Role
}

func newStepOnlyComponent(name string) *stepOnlyComponent {
	return &stepOnlyComponent{Base: compose.NewBase(name)}
}

func (c *stepOnlyComponent) Build(role hook.Role) compose.Bundle {
	c.builds++
	c.lastRole = role
	return compose.Bundle{Step: &stepCounter{}}
}

type stepCounter struct {
	steps int
}

func (s *stepCounter) OnStep(_ context.Context, _ *track.Step) { s.steps++ }

// eventOnlyComponent contributes one event handler per build.
type eventOnlyComponent struct {
	compose.Base

	builds int
}

func newEventOnlyComponent(name string) *eventOnlyComponent {
	return &eventOnlyComponent{Base: compose.NewBase(name)}
}

func (c *eventOnlyComponent) Build(_ hook.Role) compose.Bundle {
	c.builds++
	var calls []string
	return compose.Bundle{Event: &eventRecorder{name: c.Name(), calls: &calls}}
}

// classifyOnlyComponent contributes one no-opinion classify handler.
type classifyOnlyComponent struct {
	compose.Base
}

func newClassifyOnlyComponent(name string) *classifyOnlyComponent {
	return &classifyOnlyComponent{Base: compose.NewBase(name)}
}

func (c *classifyOnlyComponent) Build(_ hook.Role) compose.Bundle {
	return compose.Bundle{Classify: &stubClassifier{decision: track.ClassifyUrgent}}
}

// runOnlyComponent contributes one run handler per build.
type runOnlyComponent struct {
	compose.Base

	roles []hook.Role
}

func newRunOnlyComponent(name string) *runOnlyComponent {
	return &runOnlyComponent{Base: compose.NewBase(name)}
}

func (c *runOnlyComponent) Build(role hook.Role) compose.Bundle {
	c.roles = append(c.roles, role)
	return compose.Bundle{Run: &stubRunHandler{}}
}

// trackTally counts track boundary notifications.
type trackTally struct {
	begins int
	ends   int
}

func (tt *trackTally) OnTrackBegin(_ context.Context, _ *track.Track) { tt.begins++ }
func (tt *trackTally) OnTrackEnd(_ context.Context, _ *track.Track)   { tt.ends++ }

func newTestAssembler() *compose.Assembler {
	return compose.NewAssembler(slog.Default())
}

// ──────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────

func TestAssembler_EndToEnd(t *testing.T) {
	// A contributes a step handler, B is disabled and would contribute
	// an event handler, C1/C2 contribute no-opinion classify handlers.
	a := newStepOnlyComponent("a")
	b := newEventOnlyComponent("b")
	b.SetEnabled(false)
	c1 := newClassifyOnlyComponent("c1")
	c2 := newClassifyOnlyComponent("c2")

	asm := newTestAssembler()
	asm.Add(a)
	asm.Add(b)
	asm.Add(c1)
	asm.Add(c2)

	reg := &fakeRegistrar{}
	asm.Build(reg)

	if b.builds != 0 {
		t.Error("disabled component must never be asked to build")
	}
	if reg.event != nil {
		t.Error("event dispatcher with zero handlers must not be registered")
	}
	if reg.run != nil || reg.track != nil {
		t.Error("categories with zero handlers must not be registered")
	}
	if reg.step == nil {
		t.Fatal("step dispatcher should be registered")
	}
	if reg.classify == nil {
		t.Fatal("classify dispatcher should be registered")
	}

	stepDisp, ok := reg.step.(*compose.StepDispatcher)
	if !ok {
		t.Fatalf("expected *compose.StepDispatcher, got %T", reg.step)
	}
	if stepDisp.Len() != 1 {
		t.Errorf("step dispatcher has %d handlers, want 1", stepDisp.Len())
	}

	classifyDisp, ok := reg.classify.(*compose.ClassifyDispatcher)
	if !ok {
		t.Fatalf("expected *compose.ClassifyDispatcher, got %T", reg.classify)
	}
	if classifyDisp.Len() != 2 {
		t.Errorf("classify dispatcher has %d handlers, want 2", classifyDisp.Len())
	}

	got, err := reg.classify.ClassifyTrack(context.Background(), newTestTrack())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != track.ClassifyUrgent {
		t.Errorf("classification = %s, want urgent", got)
	}
}

func TestAssembler_BuildPassesWorkerRole(t *testing.T) {
	c := newStepOnlyComponent("c")
	asm := newTestAssembler()
	asm.Add(c)

	asm.Build(&fakeRegistrar{})

	if c.lastRole != hook.RoleWorker {
		t.Errorf("Build role = %s, want worker", c.lastRole)
	}
}

func TestAssembler_BuildForMaster_RunCategoryOnly(t *testing.T) {
	rc := newRunOnlyComponent("rc")
	sc := newStepOnlyComponent("sc")
	asm := newTestAssembler()
	asm.Add(rc)
	asm.Add(sc)

	reg := &fakeRegistrar{}
	asm.BuildForMaster(reg)

	if reg.run == nil {
		t.Fatal("run dispatcher should be registered on the master context")
	}
	if reg.step != nil || reg.event != nil || reg.track != nil || reg.classify != nil {
		t.Error("master build must register the run category only")
	}
	if len(rc.roles) != 1 || rc.roles[0] != hook.RoleMaster {
		t.Errorf("master build roles = %v, want [master]", rc.roles)
	}

	runDisp, ok := reg.run.(*compose.RunDispatcher)
	if !ok {
		t.Fatalf("expected *compose.RunDispatcher, got %T", reg.run)
	}
	if runDisp.Role() != hook.RoleMaster {
		t.Errorf("dispatcher role = %s, want master", runDisp.Role())
	}
}

func TestAssembler_BuildForMaster_EmptyDispatcherNotRegistered(t *testing.T) {
	sc := newStepOnlyComponent("sc")
	asm := newTestAssembler()
	asm.Add(sc)

	reg := &fakeRegistrar{}
	asm.BuildForMaster(reg)

	if reg.runSets != 0 {
		t.Error("run dispatcher with zero handlers must not be registered")
	}
}

func TestAssembler_FreshDispatchersPerBuild(t *testing.T) {
	c := newRunOnlyComponent("c")
	asm := newTestAssembler()
	asm.Add(c)

	regA := &fakeRegistrar{}
	regB := &fakeRegistrar{}
	asm.Build(regA)
	asm.Build(regB)

	if regA.run == regB.run {
		t.Error("each build pass must create fresh dispatchers")
	}
}

func TestAssembler_DuplicateComponentBuildsTwice(t *testing.T) {
	c := newStepOnlyComponent("c")
	asm := newTestAssembler()
	asm.Add(c)
	asm.Add(c)

	reg := &fakeRegistrar{}
	asm.Build(reg)

	if c.builds != 2 {
		t.Errorf("duplicate component built %d times, want 2", c.builds)
	}
	stepDisp := reg.step.(*compose.StepDispatcher)
	if stepDisp.Len() != 2 {
		t.Errorf("step dispatcher has %d handlers, want 2 (fresh handler per build call)", stepDisp.Len())
	}
}

func TestAssembler_ComponentsPreserveInsertionOrder(t *testing.T) {
	a := newStepOnlyComponent("a")
	b := newStepOnlyComponent("b")
	asm := newTestAssembler()
	asm.Add(a)
	asm.Add(b)

	comps := asm.Components()
	if len(comps) != 2 || comps[0].Name() != "a" || comps[1].Name() != "b" {
		t.Errorf("unexpected component order: %v", comps)
	}
}

func TestBundle_CategoriesDispatchOrder(t *testing.T) {
	var calls []string
	full := compose.Bundle{
		Run:      &stubRunHandler{},
		Event:    &eventRecorder{name: "e", calls: &calls},
		Track:    &trackTally{},
		Step:     &stepCounter{},
		Classify: &stubClassifier{decision: track.ClassifyUrgent},
	}

	got := full.Categories()
	want := hook.Categories()
	if len(got) != len(want) {
		t.Fatalf("full bundle covers %d categories, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("category[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	partial := compose.Bundle{
		Run:      &stubRunHandler{},
		Classify: &stubClassifier{decision: track.ClassifyUrgent},
	}
	got = partial.Categories()
	if len(got) != 2 || got[0] != hook.CategoryRun || got[1] != hook.CategoryClassify {
		t.Errorf("partial bundle categories = %v, want [run classify]", got)
	}

	if len((compose.Bundle{}).Categories()) != 0 {
		t.Error("empty bundle must report no categories")
	}
}
