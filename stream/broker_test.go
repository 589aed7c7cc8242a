package stream_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/xraph/simflow/hook"
	"github.com/xraph/simflow/id"
	"github.com/xraph/simflow/run"
	"github.com/xraph/simflow/stream"

	"github.com/xraph/simflow/event"
)

func newTestBroker() *stream.Broker {
	return stream.NewBroker(nil)
}

func drain(sub *stream.Subscriber) []*stream.Event {
	var out []*stream.Event
	for {
		select {
		case e := <-sub.C():
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestBroker_Name(t *testing.T) {
	b := newTestBroker()
	if b.Name() != "stream-broker" {
		t.Errorf("expected name %q, got %q", "stream-broker", b.Name())
	}
}

func TestBroker_BundleSlotsByRole(t *testing.T) {
	b := newTestBroker()

	master := b.Build(hook.RoleMaster)
	if master.Run == nil {
		t.Fatal("expected run slot populated for master")
	}
	if master.Event != nil || master.Classify != nil {
		t.Error("expected only the run slot for master")
	}

	worker := b.Build(hook.RoleWorker)
	if worker.Event == nil || worker.Classify == nil {
		t.Fatal("expected event and classify slots populated for worker")
	}
	if worker.Run != nil {
		t.Error("expected no run slot for worker")
	}
}

func TestBroker_PublishesRunProgress(t *testing.T) {
	b := newTestBroker()
	sub := b.Subscribe(stream.TopicRuns)

	bundle := b.Build(hook.RoleMaster)
	r := run.New(1, 2, 10)
	bundle.Run.OnRunBegin(context.Background(), r)

	r.State = run.StateCompleted
	bundle.Run.OnRunEnd(context.Background(), r)

	events := drain(sub)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != stream.EventRunBegan {
		t.Errorf("first event type = %q, want run.began", events[0].Type)
	}
	if events[1].Type != stream.EventRunEnded {
		t.Errorf("second event type = %q, want run.ended", events[1].Type)
	}

	var data stream.RunEventData
	if err := json.Unmarshal(events[1].Data, &data); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if data.RunID != r.ID.String() {
		t.Errorf("payload run ID = %q, want %q", data.RunID, r.ID.String())
	}
	if data.State != "completed" {
		t.Errorf("payload state = %q, want completed", data.State)
	}
}

func TestBroker_RunTopicTargetsOneRun(t *testing.T) {
	b := newTestBroker()

	bundle := b.Build(hook.RoleMaster)
	r := run.New(1, 1, 1)
	other := run.New(2, 1, 1)

	sub := b.Subscribe(stream.RunTopic(r.ID.String()))

	bundle.Run.OnRunBegin(context.Background(), r)
	bundle.Run.OnRunBegin(context.Background(), other)

	events := drain(sub)
	if len(events) != 1 {
		t.Fatalf("expected 1 event on run topic, got %d", len(events))
	}
}

func TestBroker_PublishesEventProgress(t *testing.T) {
	b := newTestBroker()
	sub := b.Subscribe(stream.TopicEvents)

	bundle := b.Build(hook.RoleWorker)
	e := event.New(id.NewRunID(), 5, 2)
	bundle.Event.OnEventBegin(context.Background(), e)
	bundle.Event.OnEventEnd(context.Background(), e)

	events := drain(sub)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	var data stream.EventEventData
	if err := json.Unmarshal(events[0].Data, &data); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if data.Seq != 5 {
		t.Errorf("payload seq = %d, want 5", data.Seq)
	}
	if data.Tracks != 2 {
		t.Errorf("payload tracks = %d, want 2", data.Tracks)
	}
}

func TestBroker_StageEventsOnFirehoseOnly(t *testing.T) {
	b := newTestBroker()
	fire := b.Subscribe(stream.TopicFirehose)
	runs := b.Subscribe(stream.TopicRuns)

	bundle := b.Build(hook.RoleWorker)
	bundle.Classify.OnStageAdvance(context.Background(), 1)

	if got := len(drain(fire)); got != 1 {
		t.Errorf("firehose: expected 1 event, got %d", got)
	}
	if got := len(drain(runs)); got != 0 {
		t.Errorf("runs topic: expected 0 events, got %d", got)
	}
}

func TestBroker_FirehoseSeesEverything(t *testing.T) {
	b := newTestBroker()
	sub := b.Subscribe(stream.TopicFirehose)

	master := b.Build(hook.RoleMaster)
	worker := b.Build(hook.RoleWorker)

	r := run.New(1, 1, 1)
	master.Run.OnRunBegin(context.Background(), r)
	worker.Event.OnEventBegin(context.Background(), event.New(r.ID, 1, 1))
	worker.Classify.OnStageAdvance(context.Background(), 1)

	if got := len(drain(sub)); got != 3 {
		t.Fatalf("expected 3 events on firehose, got %d", got)
	}
}

func TestBroker_SubscriberDedupAcrossTopics(t *testing.T) {
	b := newTestBroker()
	sub := b.Subscribe(stream.TopicFirehose, stream.TopicRuns)

	bundle := b.Build(hook.RoleMaster)
	bundle.Run.OnRunBegin(context.Background(), run.New(1, 1, 1))

	if got := len(drain(sub)); got != 1 {
		t.Fatalf("expected 1 event (deduplicated), got %d", got)
	}
}

func TestBroker_RemoveSubscriber(t *testing.T) {
	b := newTestBroker()
	sub := b.Subscribe(stream.TopicRuns)
	subID := sub.ID().String()

	if _, ok := b.GetSubscriber(subID); !ok {
		t.Fatal("subscriber not found after Subscribe")
	}

	b.RemoveSubscriber(subID)

	if _, ok := b.GetSubscriber(subID); ok {
		t.Fatal("subscriber still present after removal")
	}
	if b.Topics().SubscriberCount(stream.TopicRuns) != 0 {
		t.Error("subscriber still on topic after removal")
	}

	// Channel must be closed.
	if _, open := <-sub.C(); open {
		t.Error("expected closed channel after removal")
	}
}

func TestBroker_CreditsExhaustedDrops(t *testing.T) {
	b := stream.NewBroker(nil, stream.WithDefaultCredits(1))
	sub := b.Subscribe(stream.TopicRuns)

	bundle := b.Build(hook.RoleMaster)
	r := run.New(1, 1, 1)
	bundle.Run.OnRunBegin(context.Background(), r)
	bundle.Run.OnRunEnd(context.Background(), r)

	if got := len(drain(sub)); got != 1 {
		t.Fatalf("expected 1 delivered event, got %d", got)
	}
	if sub.Dropped() != 1 {
		t.Errorf("Dropped = %d, want 1", sub.Dropped())
	}

	// Replenish and verify delivery resumes.
	sub.AddCredits(10)
	bundle.Run.OnRunBegin(context.Background(), r)
	if got := len(drain(sub)); got != 1 {
		t.Fatalf("expected delivery after credit refill, got %d", got)
	}
}

func TestBroker_SubscriberFilter(t *testing.T) {
	b := newTestBroker()
	sub := b.Subscribe(stream.TopicFirehose)
	sub.SetFilter(func(e *stream.Event) bool {
		return e.Type == stream.EventRunEnded
	})

	bundle := b.Build(hook.RoleMaster)
	r := run.New(1, 1, 1)
	bundle.Run.OnRunBegin(context.Background(), r)
	bundle.Run.OnRunEnd(context.Background(), r)

	events := drain(sub)
	if len(events) != 1 {
		t.Fatalf("expected 1 filtered event, got %d", len(events))
	}
	if events[0].Type != stream.EventRunEnded {
		t.Errorf("event type = %q, want run.ended", events[0].Type)
	}
}

func TestBroker_Shutdown(t *testing.T) {
	b := newTestBroker()
	sub := b.Subscribe(stream.TopicRuns)

	if err := b.Shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, open := <-sub.C(); open {
		t.Error("expected closed channel after shutdown")
	}
	if got := b.Stats().SubscriberCount; got != 0 {
		t.Errorf("SubscriberCount = %d, want 0", got)
	}
}

func TestSubscriber_CloseDuringPublish(t *testing.T) {
	reg := stream.NewTopicRegistry()
	sub := stream.NewSubscriber(id.NewSubscriberID(), 4096, 1<<30)
	reg.Subscribe(stream.TopicFirehose, sub)

	evt := &stream.Event{Type: stream.EventRunBegan, Topic: stream.TopicFirehose}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				reg.Publish(stream.TopicFirehose, evt)
			}
		}()
	}

	// Close mid-flight: deliveries racing the close must be refused,
	// never sent on the closed channel.
	sub.Close()
	wg.Wait()
	sub.Close() // idempotent

	// Drains anything delivered before the close, then terminates on
	// the closed channel.
	for range sub.C() {
	}
}

func TestSubscriber_SetFilterDuringPublish(t *testing.T) {
	reg := stream.NewTopicRegistry()
	sub := stream.NewSubscriber(id.NewSubscriberID(), 4096, 1<<30)
	reg.Subscribe(stream.TopicFirehose, sub)

	evt := &stream.Event{Type: stream.EventEventBegan, Topic: stream.TopicFirehose}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 200; j++ {
			reg.Publish(stream.TopicFirehose, evt)
		}
	}()
	for i := 0; i < 200; i++ {
		keep := i%2 == 0
		sub.SetFilter(func(_ *stream.Event) bool { return keep })
	}
	wg.Wait()
	sub.Close()
}

func TestValidateTopic(t *testing.T) {
	valid := []string{
		stream.TopicRuns,
		stream.TopicEvents,
		stream.TopicFirehose,
		stream.RunTopic("run_abc"),
	}
	for _, topic := range valid {
		if err := stream.ValidateTopic(topic); err != nil {
			t.Errorf("ValidateTopic(%q): unexpected error: %v", topic, err)
		}
	}

	invalid := []string{"", "bogus", "job:x", "run:"}
	for _, topic := range invalid {
		if err := stream.ValidateTopic(topic); err == nil {
			t.Errorf("ValidateTopic(%q): expected error", topic)
		}
	}
}

func TestParseTopicEntity(t *testing.T) {
	typ, entityID := stream.ParseTopicEntity("run:run_abc123")
	if typ != "run" || entityID != "run_abc123" {
		t.Errorf("got (%q, %q), want (run, run_abc123)", typ, entityID)
	}

	typ, entityID = stream.ParseTopicEntity("firehose")
	if typ != "" || entityID != "" {
		t.Errorf("got (%q, %q), want empty", typ, entityID)
	}
}
