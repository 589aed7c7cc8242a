package kernel

import (
	"github.com/xraph/simflow/compose"
	"github.com/xraph/simflow/hook"
)

// Compile-time interface check.
var _ compose.Registrar = (*slots)(nil)

// slots holds the registered handlers of one execution context, at most
// one per hook category. It is the kernel's registration surface passed
// to the assembler; nil slots mean no-op for that category.
type slots struct {
	run      hook.RunHandler
	event    hook.EventHandler
	track    hook.TrackHandler
	step     hook.StepHandler
	classify hook.ClassifyHandler
}

func (s *slots) SetRunHandler(h hook.RunHandler)           { s.run = h }
func (s *slots) SetEventHandler(h hook.EventHandler)       { s.event = h }
func (s *slots) SetTrackHandler(h hook.TrackHandler)       { s.track = h }
func (s *slots) SetStepHandler(h hook.StepHandler)         { s.step = h }
func (s *slots) SetClassifyHandler(h hook.ClassifyHandler) { s.classify = h }
