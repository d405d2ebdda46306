package eventbus

import (
	"context"

	"github.com/amirasaad/bank/pkg/domain/events"
)

// HandlerFunc processes one event.
type HandlerFunc func(ctx context.Context, event events.Event) error

// Bus publishes ledger events and dispatches them to registered handlers.
type Bus interface {
	Emit(ctx context.Context, event events.Event) error
	Register(eventType string, handler HandlerFunc)
}
