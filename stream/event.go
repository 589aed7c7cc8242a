// Package stream provides a real-time broker for simulation progress.
// It bridges the lifecycle hook system to connected clients via
// topic-based pub/sub.
package stream

import (
	"encoding/json"
	"time"
)

// EventType identifies the kind of progress event.
type EventType string

const (
	// Run progress.
	EventRunBegan EventType = "run.began"
	EventRunEnded EventType = "run.ended"

	// Event progress.
	EventEventBegan EventType = "event.began"
	EventEventEnded EventType = "event.ended"

	// Stacking progress.
	EventStageAdvanced EventType = "stage.advanced"
)

// Event is the envelope sent to subscribers on a topic channel.
type Event struct {
	// Type identifies the progress event.
	Type EventType `json:"type"`

	// Timestamp is when the event was emitted.
	Timestamp time.Time `json:"ts"`

	// Topic is the channel this event was published on.
	Topic string `json:"topic"`

	// Data is the event-specific payload.
	Data json.RawMessage `json:"data"`
}

// RunEventData is the payload for run progress events.
type RunEventData struct {
	RunID   string `json:"run_id"`
	Seq     int    `json:"seq"`
	Workers int    `json:"workers"`
	Events  int    `json:"events"`
	State   string `json:"state,omitempty"`
	Error   string `json:"error,omitempty"`
}

// EventEventData is the payload for event progress events.
type EventEventData struct {
	EventID string `json:"event_id"`
	RunID   string `json:"run_id"`
	Seq     int    `json:"seq"`
	Tracks  int    `json:"tracks"`
}

// StageEventData is the payload for stacking stage events.
type StageEventData struct {
	Stage int `json:"stage"`
}
