package events

import (
	"log"
	"sync"
	"time"
)

// Event types carried on the bus.
const (
	DealCreated          = "deal.created"
	DealUpdated          = "deal.updated"
	DealDeleted          = "deal.deleted"
	SyncStarted          = "sync.started"
	SyncCompleted        = "sync.completed"
	SyncFailed           = "sync.failed"
	SyncConflictDetected = "sync.conflict_detected"
)

// historyCapacity bounds the event history ring; oldest entries are evicted.
const historyCapacity = 100

// Event is one notification delivered to subscribers and retained in history.
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Source    string      `json:"source"`
	Timestamp time.Time   `json:"timestamp"`
}

// Handler receives events for a subscribed type.
type Handler func(Event)

type subscriber struct {
	id int
	fn Handler
}

// Bus is a synchronous in-process pub/sub channel. Emit invokes subscribers
// in registration order on the caller's goroutine; a panicking subscriber is
// recovered and logged, never propagated.
type Bus struct {
	mu      sync.Mutex
	nextID  int
	subs    map[string][]subscriber
	history []Event
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[string][]subscriber),
	}
}

// Subscribe registers fn for events of the given type and returns an
// unsubscribe function.
func (b *Bus) Subscribe(eventType string, fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[eventType] = append(b.subs[eventType], subscriber{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[eventType]
		for i, s := range subs {
			if s.id == id {
				b.subs[eventType] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers the event to all current subscribers of its type, in
// registration order, and appends it to the bounded history.
func (b *Bus) Emit(eventType string, payload interface{}, source string) {
	event := Event{
		Type:      eventType,
		Payload:   payload,
		Source:    source,
		Timestamp: time.Now(),
	}

	b.mu.Lock()
	subs := make([]subscriber, len(b.subs[eventType]))
	copy(subs, b.subs[eventType])

	b.history = append(b.history, event)
	if len(b.history) > historyCapacity {
		b.history = b.history[len(b.history)-historyCapacity:]
	}
	b.mu.Unlock()

	for _, s := range subs {
		b.deliver(s, event)
	}
}

func (b *Bus) deliver(s subscriber, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Event subscriber panicked on %s: %v", event.Type, r)
		}
	}()
	s.fn(event)
}

// History returns a copy of the retained events, oldest first.
func (b *Bus) History() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, len(b.history))
	copy(out, b.history)
	return out
}
