package bus

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestEventBus_SubscribeAndPublishSync(t *testing.T) {
	b := NewEventBus()

	var got Event
	var mu sync.Mutex
	b.Subscribe(EventTypeMoodChanged, func(e Event) {
		mu.Lock()
		got = e
		mu.Unlock()
	})

	b.PublishSync(Event{Type: EventTypeMoodChanged, Data: map[string]any{"mood": "Smile"}})

	mu.Lock()
	defer mu.Unlock()
	if got.Type != EventTypeMoodChanged {
		t.Errorf("expected mood_changed, got %s", got.Type)
	}
	if got.Data["mood"] != "Smile" {
		t.Errorf("expected mood Smile, got %v", got.Data["mood"])
	}
}

func TestEventBus_SubscribeMultiple(t *testing.T) {
	b := NewEventBus()

	var count atomic.Int32
	b.SubscribeMultiple(FaceEventTypes, func(Event) {
		count.Add(1)
	})

	for _, et := range FaceEventTypes {
		b.PublishSync(Event{Type: et})
	}
	if int(count.Load()) != len(FaceEventTypes) {
		t.Errorf("expected %d events, got %d", len(FaceEventTypes), count.Load())
	}
}

func TestEventBus_PublishWithoutSubscribers(t *testing.T) {
	b := NewEventBus()
	// Must not panic or block.
	b.PublishSync(Event{Type: EventTypeTalkFrame})
}

func TestEventBus_Clear(t *testing.T) {
	b := NewEventBus()

	var count atomic.Int32
	b.Subscribe(EventTypeLinkCommand, func(Event) { count.Add(1) })
	b.Clear()
	b.PublishSync(Event{Type: EventTypeLinkCommand})

	if count.Load() != 0 {
		t.Error("expected no delivery after Clear")
	}
}
