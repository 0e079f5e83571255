// Package bus provides a minimal in-process publish/subscribe dispatcher.
// State-machine transitions publish typed events here; transport adapters
// (websocket hub, message broker) subscribe, so the core never depends on a
// broadcast mechanism. Delivery is synchronous and best-effort: a slow or
// failing subscriber must degrade gracefully on its own, the bus gives no
// ordering or delivery guarantee beyond calling each subscriber once per
// publish.
package bus

import (
	"context"
	"sync"
)

// Event is anything routable by name.
type Event interface {
	EventName() string
}

// Handler consumes a published event.
type Handler func(ctx context.Context, event Event)

// Bus routes events to subscribers by event name.
type Bus struct {
	mu     sync.RWMutex
	byName map[string][]Handler
	all    []Handler
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{byName: make(map[string][]Handler)}
}

// Subscribe registers a handler for one event name.
func (b *Bus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byName[eventName] = append(b.byName[eventName], handler)
}

// SubscribeAll registers a handler for every event.
func (b *Bus) SubscribeAll(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, handler)
}

// Publish delivers the event to all matching subscribers in the caller's
// goroutine.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	named := b.byName[event.EventName()]
	all := b.all
	b.mu.RUnlock()

	for _, h := range named {
		h(ctx, event)
	}
	for _, h := range all {
		h(ctx, event)
	}
}
