package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/amirasaad/bank/pkg/domain/events"
	"github.com/amirasaad/bank/pkg/eventbus"
)

// MemoryEventBus dispatches events synchronously in the emitting goroutine.
type MemoryEventBus struct {
	*handlerRegistry
	mu        sync.RWMutex
	logger    *slog.Logger
	record    bool
	published []events.Event
}

// NewWithMemory creates an in-process event bus.
func NewWithMemory(logger *slog.Logger) *MemoryEventBus {
	return &MemoryEventBus{
		handlerRegistry: newHandlerRegistry(),
		logger:          logger.With("bus", "memory"),
	}
}

// NewRecordingMemory creates an in-process event bus that also keeps every
// emitted event for Published. Meant for tests; the history is unbounded.
func NewRecordingMemory(logger *slog.Logger) *MemoryEventBus {
	b := NewWithMemory(logger)
	b.record = true
	return b
}

// Register adds a handler for eventType.
func (b *MemoryEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.add(eventType, handler)
}

// Emit runs the handlers registered for the event's type. Handler failures
// are logged and returned joined; every handler still runs.
func (b *MemoryEventBus) Emit(ctx context.Context, event events.Event) error {
	if b.record {
		b.mu.Lock()
		b.published = append(b.published, event)
		b.mu.Unlock()
	}

	return dispatch(ctx, b.logger, b.get(event.Type()), event)
}

// Published returns a copy of every event emitted so far. It is always empty
// unless the bus was built with NewRecordingMemory.
func (b *MemoryEventBus) Published() []events.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]events.Event(nil), b.published...)
}

// ClearPublished forgets the recorded events.
func (b *MemoryEventBus) ClearPublished() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = nil
}

var _ eventbus.Bus = (*MemoryEventBus)(nil)
