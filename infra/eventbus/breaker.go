package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/bank/pkg/domain/events"
	"github.com/amirasaad/bank/pkg/eventbus"
	"github.com/sony/gobreaker"
)

// ErrBusUnavailable is returned by BreakerBus while the breaker is open.
var ErrBusUnavailable = errors.New("event bus unavailable")

// BreakerBus stops calling a failing broker after a run of consecutive
// publish failures and retries it once the timeout has elapsed.
type BreakerBus struct {
	inner  eventbus.Bus
	cb     *gobreaker.CircuitBreaker
	logger *slog.Logger
}

// NewBreaker wraps bus. failures is the number of consecutive Emit errors
// that opens the breaker; timeout is how long it stays open.
func NewBreaker(bus eventbus.Bus, name string, failures uint32, timeout time.Duration, logger *slog.Logger) *BreakerBus {
	if failures == 0 {
		failures = 5
	}
	logger = logger.With("breaker", name)
	return &BreakerBus{
		inner:  bus,
		logger: logger,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("circuit breaker state changed", "from", from.String(), "to", to.String())
			},
		}),
	}
}

func (b *BreakerBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.inner.Register(eventType, handler)
}

func (b *BreakerBus) Emit(ctx context.Context, event events.Event) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.inner.Emit(ctx, event)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s", ErrBusUnavailable, err)
	}
	return err
}

// State reports the breaker state, e.g. "closed" or "open".
func (b *BreakerBus) State() string {
	return b.cb.State().String()
}

// Run delegates to the wrapped bus when it consumes from a broker and
// returns immediately otherwise.
func (b *BreakerBus) Run(ctx context.Context) error {
	if r, ok := b.inner.(Runner); ok {
		return r.Run(ctx)
	}
	return nil
}

var (
	_ eventbus.Bus = (*BreakerBus)(nil)
	_ Runner       = (*BreakerBus)(nil)
)
