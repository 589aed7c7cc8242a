// Package track defines tracks, transport steps, and the stacking
// classification used to order track transport within an event.
package track

import (
	"fmt"

	"github.com/xraph/simflow/id"
)

// Classification decides how a new track is stacked for transport.
//
// ClassifyUrgent is the neutral value: a classification handler returning
// it expresses no opinion, and a track nobody objects to is transported
// in the current stage.
type Classification int

const (
	// ClassifyUrgent transports the track in the current stage (default).
	ClassifyUrgent Classification = iota
	// ClassifyWaiting defers the track to the next stage of the same event.
	ClassifyWaiting
	// ClassifyPostpone carries the track over to the next event.
	ClassifyPostpone
	// ClassifyKill discards the track without transporting it.
	ClassifyKill
)

// String returns the classification name.
func (c Classification) String() string {
	switch c {
	case ClassifyUrgent:
		return "urgent"
	case ClassifyWaiting:
		return "waiting"
	case ClassifyPostpone:
		return "postpone"
	case ClassifyKill:
		return "kill"
	default:
		return fmt.Sprintf("classification(%d)", int(c))
	}
}

// Track is one unit of transport within an event.
type Track struct {
	ID      id.TrackID `json:"id"`
	EventID id.EventID `json:"event_id"`

	// Seq is the ordinal of this track within its event, starting at 1.
	Seq int `json:"seq"`

	// Postponed marks a track carried over from a previous event.
	Postponed bool `json:"postponed,omitempty"`
}

// New creates a track with a fresh ID.
func New(eventID id.EventID, seq int) *Track {
	return &Track{
		ID:      id.NewTrackID(),
		EventID: eventID,
		Seq:     seq,
	}
}

// Step is one transport step of a track.
type Step struct {
	Track *Track `json:"track"`

	// Index is the ordinal of this step along the track, starting at 1.
	Index int `json:"index"`

	// Final marks the last step of the track.
	Final bool `json:"final,omitempty"`
}
