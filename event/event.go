// Package event defines the unit of simulation work distributed to
// worker contexts. A run is a sequence of events; each event carries
// the primary tracks to transport.
package event

import (
	"time"

	"github.com/xraph/simflow/id"
	"github.com/xraph/simflow/track"
)

// Event is one unit of simulation work within a run.
type Event struct {
	ID    id.EventID `json:"id"`
	RunID id.RunID   `json:"run_id"`

	// Seq is the ordinal of this event within its run, starting at 1.
	Seq int `json:"seq"`

	// Tracks are the primary tracks queued for transport, in order.
	// Postponed tracks from the previous event are appended by the host
	// before the event is dispatched.
	Tracks []*track.Track `json:"tracks,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// New creates an event with a fresh ID and the given number of primary tracks.
func New(runID id.RunID, seq, primaries int) *Event {
	e := &Event{
		ID:        id.NewEventID(),
		RunID:     runID,
		Seq:       seq,
		CreatedAt: time.Now().UTC(),
	}
	for i := 1; i <= primaries; i++ {
		e.Tracks = append(e.Tracks, track.New(e.ID, i))
	}
	return e
}
