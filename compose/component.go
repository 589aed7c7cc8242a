package compose

import "github.com/xraph/simflow/hook"

// Bundle carries the handlers one component contributes, at most one
// per hook category. Nil entries are legal and common; most components
// populate one or two of the five slots. A bundle is immutable once
// returned from a component's Build call.
type Bundle struct {
	Run      hook.RunHandler
	Event    hook.EventHandler
	Track    hook.TrackHandler
	Step     hook.StepHandler
	Classify hook.ClassifyHandler
}

// Categories returns the hook categories this bundle populates, in
// dispatch order.
func (b Bundle) Categories() []hook.Category {
	cats := make([]hook.Category, 0, len(hook.Categories()))
	if b.Run != nil {
		cats = append(cats, hook.CategoryRun)
	}
	if b.Event != nil {
		cats = append(cats, hook.CategoryEvent)
	}
	if b.Track != nil {
		cats = append(cats, hook.CategoryTrack)
	}
	if b.Step != nil {
		cats = append(cats, hook.CategoryStep)
	}
	if b.Classify != nil {
		cats = append(cats, hook.CategoryClassify)
	}
	return cats
}

// Component is a capability-set unit owning its configuration and an
// enabled flag. It manufactures handlers on demand: implementations must
// not instantiate handlers outside Build, and Build must be pure with
// respect to already-set configuration. Configuration setters may only
// be called before the first Build; components are treated as immutable
// once builds are in flight.
type Component interface {
	// Name returns a unique human-readable name for the component.
	Name() string

	// Enabled reports whether the component participates in build passes.
	// Disabled components are never asked to build.
	Enabled() bool

	// Build manufactures a fresh handler bundle for one execution
	// context of the given role. The assembler calls it at most once
	// per context.
	Build(role hook.Role) Bundle
}

// Base provides the Name/Enabled plumbing shared by most components.
// Embed it and implement Build.
type Base struct {
	name     string
	disabled bool
}

// NewBase creates a Base with the given component name, enabled.
func NewBase(name string) Base { return Base{name: name} }

// Name implements part of Component.
func (b *Base) Name() string { return b.name }

// Enabled implements part of Component.
func (b *Base) Enabled() bool { return !b.disabled }

// SetEnabled toggles participation in build passes. Only call before
// builds are in flight.
func (b *Base) SetEnabled(enabled bool) { b.disabled = !enabled }
