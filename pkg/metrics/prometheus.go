// Package metrics exposes HTTP and ledger metrics in the Prometheus format.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/amirasaad/bank/pkg/domain/events"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Recorder owns a private registry so several apps can live in one process.
type Recorder struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	ledgerEvents    *prometheus.CounterVec
	ledgerAmount    *prometheus.CounterVec
}

// New creates a Recorder whose metric names start with namespace.
func New(namespace string) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"method", "route"},
		),
		ledgerEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_events_total",
				Help:      "Total number of committed ledger events by type",
			},
			[]string{"type"},
		),
		ledgerAmount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_amount_total",
				Help:      "Sum of moved amounts by event type and currency",
			},
			[]string{"type", "currency"},
		),
	}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.requests,
		r.requestDuration,
		r.ledgerEvents,
		r.ledgerAmount,
	)
	return r
}

// Registry exposes the underlying registry, mostly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Middleware records every request under its matched route pattern.
// Errors are passed to the app's error handler first so the status is final.
func (r *Recorder) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		route := c.Route().Path
		status := strconv.Itoa(c.Response().StatusCode())
		r.requests.WithLabelValues(c.Method(), route, status).Inc()
		r.requestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return nil
	}
}

// Handler serves the registry in the text exposition format.
func (r *Recorder) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
}

// HandleEvent is an event bus handler counting ledger events.
func (r *Recorder) HandleEvent(_ context.Context, event events.Event) error {
	r.ledgerEvents.WithLabelValues(event.Type()).Inc()
	if amount, currency, ok := movedAmount(event); ok {
		r.ledgerAmount.WithLabelValues(event.Type(), currency).Add(amount.InexactFloat64())
	}
	return nil
}

// movedAmount accepts events by value (in-process buses) and by pointer
// (decoded from a broker).
func movedAmount(event events.Event) (decimal.Decimal, string, bool) {
	switch e := event.(type) {
	case events.MoneyDeposited:
		return e.Amount, e.Currency, true
	case *events.MoneyDeposited:
		return e.Amount, e.Currency, true
	case events.MoneyWithdrawn:
		return e.Amount, e.Currency, true
	case *events.MoneyWithdrawn:
		return e.Amount, e.Currency, true
	case events.MoneyTransferred:
		return e.Amount, e.Currency, true
	case *events.MoneyTransferred:
		return e.Amount, e.Currency, true
	}
	return decimal.Zero, "", false
}
