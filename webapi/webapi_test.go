package webapi_test

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	infraeventbus "github.com/amirasaad/bank/infra/eventbus"
	"github.com/amirasaad/bank/infra/repository"
	"github.com/amirasaad/bank/pkg/app"
	"github.com/amirasaad/bank/pkg/config"
	"github.com/amirasaad/bank/pkg/metrics"
	"github.com/amirasaad/bank/pkg/testutils"
	"github.com/amirasaad/bank/webapi"
	webtestutils "github.com/amirasaad/bank/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestPingAndBanner(t *testing.T) {
	app := webtestutils.NewTestApp(t).Fiber

	resp := webtestutils.MakeRequest(app, fiber.MethodGet, "/api/ping", "", "")
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp = webtestutils.MakeRequest(app, fiber.MethodGet, "/", "", "")
	resp.Body.Close() //nolint: errcheck
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestUnknownRouteIsProblem(t *testing.T) {
	app := webtestutils.NewTestApp(t).Fiber
	resp := webtestutils.MakeRequest(app, fiber.MethodGet, "/nope", "", "")
	p := webtestutils.DecodeProblem(t, resp)
	assert.Equal(t, fiber.StatusNotFound, p.Status)
	assert.Equal(t, "Not Found", p.Title)
}

func TestMetricsEndpoint(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := app.New(&app.Deps{
		Uow:      repository.NewUoW(testutils.NewTestDB(t)),
		EventBus: infraeventbus.NewWithMemory(logger),
		Logger:   logger,
		Metrics:  metrics.New("webtest"),
	}, &config.App{
		Auth:      &config.Auth{Strategy: "basic", Username: "api", Password: "secret"},
		RateLimit: &config.RateLimit{MaxRequests: 100, Window: time.Minute},
		Metrics:   &config.Metrics{Enabled: true, Path: "/metrics"},
	})
	require.NoError(t, err)
	fiberApp := webapi.SetupApp(a)

	resp := webtestutils.MakeRequest(fiberApp, fiber.MethodGet, "/api/ping", "", "")
	resp.Body.Close() //nolint: errcheck

	resp = webtestutils.MakeRequest(fiberApp, fiber.MethodGet, "/metrics", "", "")
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `webtest_http_requests_total{method="GET",route="/api/ping",status="200"} 1`)
}

type RateLimitTestSuite struct {
	suite.Suite
	app *fiber.App
}

func (s *RateLimitTestSuite) SetupTest() {
	s.app = webtestutils.NewTestApp(s.T(), webtestutils.WithRateLimit(5, 2*time.Second)).Fiber
}

func (s *RateLimitTestSuite) get(forwardedFor string) int {
	req := httptest.NewRequest(fiber.MethodGet, "/api/ping", nil)
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	resp, err := s.app.Test(req)
	s.Require().NoError(err)
	resp.Body.Close() //nolint: errcheck
	return resp.StatusCode
}

func (s *RateLimitTestSuite) TestRateLimit() {
	for i := range 6 {
		status := s.get("")
		if i < 5 {
			s.Equal(fiber.StatusOK, status, "request %d", i+1)
		} else {
			s.Equal(fiber.StatusTooManyRequests, status, "request %d", i+1)
		}
	}

	time.Sleep(3 * time.Second)
	s.Equal(fiber.StatusOK, s.get(""))
}

func (s *RateLimitTestSuite) TestKeyedByFirstForwardedAddress() {
	for range 5 {
		s.Equal(fiber.StatusOK, s.get("10.0.0.1, 192.168.1.1"))
	}
	s.Equal(fiber.StatusTooManyRequests, s.get("10.0.0.1"))
	s.Equal(fiber.StatusOK, s.get("10.0.0.2, 10.0.0.1"))
}

func TestRateLimitTestSuite(t *testing.T) {
	suite.Run(t, new(RateLimitTestSuite))
}
