package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xraph/simflow/compose"
	"github.com/xraph/simflow/event"
	"github.com/xraph/simflow/hook"
	"github.com/xraph/simflow/id"
	"github.com/xraph/simflow/run"
	"github.com/xraph/simflow/track"
)

// Compile-time interface checks.
var (
	_ compose.Component    = (*Broker)(nil)
	_ hook.RunHandler      = (*runPublisher)(nil)
	_ hook.EventHandler    = (*eventPublisher)(nil)
	_ hook.ClassifyHandler = (*stagePublisher)(nil)
)

// DefaultBufferSize is the default per-subscriber event buffer.
const DefaultBufferSize = 256

// DefaultCredits is the default initial credits for new subscribers.
const DefaultCredits int64 = 1000

// Broker is the real-time progress broker. It is a behavior component:
// its handlers publish run, event, and stacking stage progress to
// subscribers via topic-based pub/sub.
type Broker struct {
	compose.Base

	topics *TopicRegistry
	logger *slog.Logger

	// Subscriber management.
	subscribers sync.Map // subscriberID string → *Subscriber

	// Metrics.
	totalPublished atomic.Int64

	// Config.
	bufferSize     int
	defaultCredits int64
}

// BrokerOption configures a Broker.
type BrokerOption func(*Broker)

// WithBufferSize sets the per-subscriber event buffer size.
func WithBufferSize(size int) BrokerOption {
	return func(b *Broker) { b.bufferSize = size }
}

// WithDefaultCredits sets the initial credits for new subscribers.
func WithDefaultCredits(credits int64) BrokerOption {
	return func(b *Broker) { b.defaultCredits = credits }
}

// NewBroker creates a new progress broker.
func NewBroker(logger *slog.Logger, opts ...BrokerOption) *Broker {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Broker{
		Base:           compose.NewBase("stream-broker"),
		topics:         NewTopicRegistry(),
		logger:         logger,
		bufferSize:     DefaultBufferSize,
		defaultCredits: DefaultCredits,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build implements compose.Component. The coordinating context owns the
// run boundary announcements; worker contexts publish event and stage
// progress.
func (b *Broker) Build(role hook.Role) compose.Bundle {
	if role == hook.RoleMaster {
		return compose.Bundle{Run: &runPublisher{b: b}}
	}
	return compose.Bundle{
		Event:    &eventPublisher{b: b},
		Classify: &stagePublisher{b: b},
	}
}

// Topics returns the topic registry for external use.
func (b *Broker) Topics() *TopicRegistry { return b.topics }

// Subscribe creates a new subscriber on the given topics.
func (b *Broker) Subscribe(topics ...string) *Subscriber {
	sub := NewSubscriber(id.NewSubscriberID(), b.bufferSize, b.defaultCredits)
	b.subscribers.Store(sub.ID().String(), sub)
	for _, topic := range topics {
		b.topics.Subscribe(topic, sub)
	}
	return sub
}

// SubscribeTo adds an existing subscriber to additional topics.
func (b *Broker) SubscribeTo(subscriberID string, topics ...string) {
	val, ok := b.subscribers.Load(subscriberID)
	if !ok {
		return
	}
	sub := val.(*Subscriber) //nolint:errcheck // sync.Map always stores *Subscriber
	for _, topic := range topics {
		b.topics.Subscribe(topic, sub)
	}
}

// Unsubscribe removes a subscriber from specific topics.
func (b *Broker) Unsubscribe(subscriberID string, topics ...string) {
	for _, topic := range topics {
		b.topics.Unsubscribe(topic, subscriberID)
	}
}

// RemoveSubscriber removes a subscriber from all topics and closes it.
func (b *Broker) RemoveSubscriber(subscriberID string) {
	b.topics.UnsubscribeAll(subscriberID)
	if val, ok := b.subscribers.LoadAndDelete(subscriberID); ok {
		val.(*Subscriber).Close() //nolint:errcheck // sync.Map always stores *Subscriber
	}
}

// GetSubscriber returns a subscriber by ID.
func (b *Broker) GetSubscriber(subscriberID string) (*Subscriber, bool) {
	val, ok := b.subscribers.Load(subscriberID)
	if !ok {
		return nil, false
	}
	return val.(*Subscriber), true //nolint:errcheck // sync.Map always stores *Subscriber
}

// Shutdown closes all subscribers.
func (b *Broker) Shutdown(_ context.Context) error {
	b.subscribers.Range(func(key, value any) bool {
		sub := value.(*Subscriber) //nolint:errcheck // sync.Map always stores *Subscriber
		sub.Close()
		b.subscribers.Delete(key)
		return true
	})
	b.logger.Info("stream broker shut down")
	return nil
}

// Stats returns broker statistics.
func (b *Broker) Stats() BrokerStats {
	count := 0
	b.subscribers.Range(func(_, _ any) bool {
		count++
		return true
	})
	return BrokerStats{
		TopicCount:      b.topics.TopicCount(),
		SubscriberCount: count,
		TotalPublished:  b.totalPublished.Load(),
	}
}

// BrokerStats contains broker metrics.
type BrokerStats struct {
	TopicCount      int   `json:"topic_count"`
	SubscriberCount int   `json:"subscriber_count"`
	TotalPublished  int64 `json:"total_published"`
}

// publish creates an event and broadcasts it to all matching topics.
func (b *Broker) publish(evt *Event) {
	topics := resolveTopics(evt)
	delivered := b.topics.Broadcast(topics, evt)
	b.totalPublished.Add(int64(delivered))
}

// mustMarshal marshals data to JSON, panicking on error (programming error).
func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic("stream: marshal event data: " + err.Error())
	}
	return data
}

// ── Run progress ────────────────────────────────────

type runPublisher struct {
	b    *Broker
	role hook.Role
}

func (p *runPublisher) SetRole(role hook.Role) { p.role = role }

func (p *runPublisher) GenerateRun(_ context.Context) (run.Record, error) {
	return nil, nil
}

func (p *runPublisher) OnRunBegin(_ context.Context, r *run.Run) {
	p.b.publish(&Event{
		Type:      EventRunBegan,
		Timestamp: time.Now().UTC(),
		Topic:     RunTopic(r.ID.String()),
		Data: mustMarshal(RunEventData{
			RunID:   r.ID.String(),
			Seq:     r.Seq,
			Workers: r.Workers,
			Events:  r.Events,
		}),
	})
}

func (p *runPublisher) OnRunEnd(_ context.Context, r *run.Run) {
	p.b.publish(&Event{
		Type:      EventRunEnded,
		Timestamp: time.Now().UTC(),
		Topic:     RunTopic(r.ID.String()),
		Data: mustMarshal(RunEventData{
			RunID:   r.ID.String(),
			Seq:     r.Seq,
			Workers: r.Workers,
			Events:  r.Events,
			State:   string(r.State),
			Error:   r.Error,
		}),
	})
}

// ── Event progress ──────────────────────────────────

type eventPublisher struct {
	b *Broker
}

func (p *eventPublisher) OnEventBegin(_ context.Context, e *event.Event) {
	p.b.publish(&Event{
		Type:      EventEventBegan,
		Timestamp: time.Now().UTC(),
		Topic:     RunTopic(e.RunID.String()),
		Data: mustMarshal(EventEventData{
			EventID: e.ID.String(),
			RunID:   e.RunID.String(),
			Seq:     e.Seq,
			Tracks:  len(e.Tracks),
		}),
	})
}

func (p *eventPublisher) OnEventEnd(_ context.Context, e *event.Event) {
	p.b.publish(&Event{
		Type:      EventEventEnded,
		Timestamp: time.Now().UTC(),
		Topic:     RunTopic(e.RunID.String()),
		Data: mustMarshal(EventEventData{
			EventID: e.ID.String(),
			RunID:   e.RunID.String(),
			Seq:     e.Seq,
			Tracks:  len(e.Tracks),
		}),
	})
}

// ── Stacking progress ───────────────────────────────

type stagePublisher struct {
	b *Broker
}

// ClassifyTrack expresses no opinion; the publisher only observes
// stage boundaries.
func (p *stagePublisher) ClassifyTrack(_ context.Context, _ *track.Track) (track.Classification, error) {
	return track.ClassifyUrgent, nil
}

func (p *stagePublisher) OnStageAdvance(_ context.Context, stage int) {
	p.b.publish(&Event{
		Type:      EventStageAdvanced,
		Timestamp: time.Now().UTC(),
		Data:      mustMarshal(StageEventData{Stage: stage}),
	})
}

func (p *stagePublisher) OnPrepareEvent(_ context.Context) {}
