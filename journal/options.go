package journal

import "log/slog"

// Option configures a Journal component.
type Option func(*Journal)

// WithActions restricts the component to emit only the listed actions.
// By default all 6 actions are enabled. Unknown actions are silently ignored.
//
// Example:
//
//	journal.New(recorder,
//	    journal.WithActions(
//	        journal.ActionRunBegin,
//	        journal.ActionRunEnd,
//	    ),
//	)
func WithActions(actions ...string) Option {
	return func(j *Journal) {
		j.enabled = make(map[string]bool, len(actions))
		for _, a := range actions {
			j.enabled[a] = true
		}
	}
}

// WithLogger sets a custom logger for recorder failure warnings.
func WithLogger(l *slog.Logger) Option {
	return func(j *Journal) { j.logger = l }
}
