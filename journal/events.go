package journal

// Journal entry actions. Each constant corresponds to one lifecycle
// boundary and becomes the Action field of the entry.
const (
	ActionRunBegin   = "run.begin"
	ActionRunEnd     = "run.end"
	ActionEventBegin = "event.begin"
	ActionEventEnd   = "event.end"
	ActionTrackBegin = "track.begin"
	ActionTrackEnd   = "track.end"
)

// Journal entry categories group related actions.
const (
	CategoryRun   = "simflow.run"
	CategoryEvent = "simflow.event"
	CategoryTrack = "simflow.track"
)

// Resource types used as the Resource field in journal entries.
const (
	ResourceRun   = "run"
	ResourceEvent = "event"
	ResourceTrack = "track"
)

// AllActions returns every action this component can emit.
func AllActions() []string {
	return []string{
		ActionRunBegin,
		ActionRunEnd,
		ActionEventBegin,
		ActionEventEnd,
		ActionTrackBegin,
		ActionTrackEnd,
	}
}
