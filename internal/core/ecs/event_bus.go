package ecs

import (
	"sync"
	"time"
)

// Message is a single delivery on an event channel: a payload plus an
// optional timestamp, per spec.md §3.
type Message struct {
	Payload   any
	Timestamp time.Time
}

// Subscriber receives a copied Message for every delivery. Subscribers
// correspond to systems declared with Trigger = TriggerEvent (spec.md §4.5);
// EventBus itself is payload-agnostic and does not enforce that binding —
// World does, when it wires a SystemDesc's trigger to a channel.
type Subscriber func(Message)

type eventChannel struct {
	name        EventName
	mu          sync.Mutex
	subscribers []Subscriber
	deferred    []Message
}

// EventName identifies a channel within the bus.
type EventName string

// EventBus implements the typed event channels described in spec.md §4.5:
// a deferred queue drained once per tick in channel-creation order, and an
// immediate path that bypasses queuing entirely.
type EventBus struct {
	mu       sync.RWMutex
	order    []EventName
	channels map[EventName]*eventChannel
}

func NewEventBus() *EventBus {
	return &EventBus{channels: make(map[EventName]*eventChannel)}
}

// Create registers a new named channel. Safe to call more than once; a
// second call for the same name is a no-op so callers don't need to guard
// lazy channel creation.
func (b *EventBus) Create(name EventName) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.channels[name]; exists {
		return
	}
	b.channels[name] = &eventChannel{name: name}
	b.order = append(b.order, name)
}

func (b *EventBus) channel(name EventName) *eventChannel {
	b.mu.RLock()
	ch := b.channels[name]
	b.mu.RUnlock()
	return ch
}

// Subscribe registers a subscriber; delivery order for a given message
// matches subscriber registration order, per scenario 3 in spec.md §8.
func (b *EventBus) Subscribe(name EventName, sub Subscriber) {
	b.Create(name)
	ch := b.channel(name)
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.subscribers = append(ch.subscribers, sub)
}

// Send appends to the deferred queue; delivery happens at the next Flush
// (the orchestrator calls Flush once at the start of each tick, so a send
// during tick N is delivered at the start of tick N+1, per spec.md §5).
func (b *EventBus) Send(name EventName, payload any) {
	b.Create(name)
	ch := b.channel(name)
	ch.mu.Lock()
	ch.deferred = append(ch.deferred, Message{Payload: payload, Timestamp: time.Now()})
	ch.mu.Unlock()
}

// SendSync drains to every subscriber immediately, bypassing the deferred queue.
func (b *EventBus) SendSync(name EventName, payload any) {
	ch := b.channel(name)
	if ch == nil {
		return
	}
	msg := Message{Payload: payload, Timestamp: time.Now()}
	ch.mu.Lock()
	subs := append([]Subscriber(nil), ch.subscribers...)
	ch.mu.Unlock()
	for _, s := range subs {
		s(msg)
	}
}

// Flush drains every channel's deferred queue in channel-creation order,
// invoking each subscriber once per queued message (spec.md §4.5, §4.9
// phase 1). The bus has no unsubscribe operation: every subscriber ever
// registered on a channel is invoked, including one whose system has
// since been removed from the scheduler.
func (b *EventBus) Flush() {
	b.mu.RLock()
	order := append([]EventName(nil), b.order...)
	b.mu.RUnlock()

	for _, name := range order {
		ch := b.channel(name)
		ch.mu.Lock()
		pending := ch.deferred
		ch.deferred = nil
		subs := append([]Subscriber(nil), ch.subscribers...)
		ch.mu.Unlock()

		for _, msg := range pending {
			for _, s := range subs {
				s(msg)
			}
		}
	}
}

// PendingCount reports the number of queued-but-undelivered messages on a channel.
func (b *EventBus) PendingCount(name EventName) int {
	ch := b.channel(name)
	if ch == nil {
		return 0
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return len(ch.deferred)
}
