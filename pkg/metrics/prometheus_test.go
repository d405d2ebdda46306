package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/amirasaad/bank/pkg/domain/events"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_HandleEvent(t *testing.T) {
	r := New("test")
	ctx := context.Background()

	require.NoError(t, r.HandleEvent(ctx, events.MoneyDeposited{MoneyMoved: events.MoneyMoved{
		Amount: decimal.RequireFromString("10.50"), Currency: "PLN",
	}}))
	require.NoError(t, r.HandleEvent(ctx, &events.MoneyDeposited{MoneyMoved: events.MoneyMoved{
		Amount: decimal.RequireFromString("4.50"), Currency: "PLN",
	}}))
	require.NoError(t, r.HandleEvent(ctx, events.CustomerCreated{}))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.ledgerEvents.WithLabelValues(events.EventTypeMoneyDeposited)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ledgerEvents.WithLabelValues(events.EventTypeCustomerCreated)))
	assert.Equal(t, 15.0, testutil.ToFloat64(r.ledgerAmount.WithLabelValues(events.EventTypeMoneyDeposited, "PLN")))
}

func TestRecorder_MiddlewareAndHandler(t *testing.T) {
	r := New("test")
	app := fiber.New()
	app.Use(r.Middleware())
	app.Get("/metrics", r.Handler())
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		if c.Params("id") == "0" {
			return fiber.NewError(fiber.StatusNotFound, "no such item")
		}
		return c.SendString("ok")
	})

	for _, path := range []string{"/items/1", "/items/2", "/items/0"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(r.requests.WithLabelValues("GET", "/items/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.requests.WithLabelValues("GET", "/items/:id", "404")))

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(body), `test_http_requests_total{method="GET",route="/items/:id",status="200"} 2`)
}
