package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amirasaad/bank/pkg/domain/events"
	"github.com/amirasaad/bank/pkg/eventbus"
)

// Runner is implemented by buses that consume from a broker. Run blocks until
// ctx is cancelled.
type Runner interface {
	Run(ctx context.Context) error
}

type handlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string][]eventbus.HandlerFunc
}

func newHandlerRegistry() *handlerRegistry {
	return &handlerRegistry{handlers: make(map[string][]eventbus.HandlerFunc)}
}

func (r *handlerRegistry) add(eventType string, handler eventbus.HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[eventType] = append(r.handlers[eventType], handler)
}

func (r *handlerRegistry) get(eventType string) []eventbus.HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]eventbus.HandlerFunc(nil), r.handlers[eventType]...)
}

func (r *handlerRegistry) types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		out = append(out, t)
	}
	return out
}

// dispatch runs every handler for the event and joins their failures.
// A panicking handler counts as failed.
func dispatch(
	ctx context.Context,
	logger *slog.Logger,
	handlers []eventbus.HandlerFunc,
	event events.Event,
) error {
	var errs []error
	for _, handler := range handlers {
		if err := safeCall(ctx, handler, event); err != nil {
			logger.Error("event handler failed", "type", event.Type(), "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func safeCall(ctx context.Context, handler eventbus.HandlerFunc, event events.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(ctx, event)
}

// backoff waits d before a consumer retries. It reports false when ctx ends
// first, in which case the consumer should stop.
func backoff(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
