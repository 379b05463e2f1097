// Package events provides a small in-process pub/sub bus for content
// lifecycle events. Delivery is synchronous: Emit runs every handler
// for the event type, in registration order, before returning.
package events

import (
	"sync"

	"go.uber.org/zap"
)

// Event types emitted by the admin write path.
const (
	PagePublished  = "page.published"
	FormSubmitted  = "form.submitted"
	ListingUpdated = "listing.updated"
)

// Payload is the data attached to an event. Every payload carries the
// tenant id under "tenantId".
type Payload map[string]any

// Handler reacts to one event occurrence. Handlers must not assume
// they run on any particular goroutine.
type Handler func(eventType string, payload Payload)

// Bus dispatches events to registered handlers.
type Bus struct {
	logger *zap.Logger

	mu       sync.RWMutex
	handlers map[string][]Handler
}

// New creates an empty bus.
func New(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		logger:   logger,
		handlers: make(map[string][]Handler),
	}
}

// On registers a handler for an event type. Handlers run in the order
// they were registered.
func (b *Bus) On(eventType string, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], h)
	b.mu.Unlock()
}

// Emit delivers an event to every handler of its type. A panicking
// handler is recovered and logged; the remaining handlers still run.
// Returns the number of handlers invoked.
func (b *Bus) Emit(eventType string, payload Payload) int {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[eventType]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		b.dispatch(eventType, payload, h)
	}
	return len(handlers)
}

func (b *Bus) dispatch(eventType string, payload Payload, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event", eventType),
				zap.Any("panic", r))
		}
	}()
	h(eventType, payload)
}
