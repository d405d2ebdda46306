// Package testutils builds an in-process API on sqlite for handler tests.
package testutils

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	infraeventbus "github.com/amirasaad/bank/infra/eventbus"
	"github.com/amirasaad/bank/infra/repository"
	"github.com/amirasaad/bank/pkg/app"
	"github.com/amirasaad/bank/pkg/config"
	"github.com/amirasaad/bank/pkg/testutils"
	"github.com/amirasaad/bank/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const (
	Username = "api"
	Password = "secret"
)

// TestApp is a fully wired API backed by an isolated sqlite database.
type TestApp struct {
	Fiber *fiber.App
	App   *app.App
	Bus   *infraeventbus.MemoryEventBus
}

// Option adjusts the configuration before the app is built.
type Option func(*config.App)

func WithStrategy(strategy string) Option {
	return func(cfg *config.App) { cfg.Auth.Strategy = strategy }
}

func WithRateLimit(max int, window time.Duration) Option {
	return func(cfg *config.App) {
		cfg.RateLimit.MaxRequests = max
		cfg.RateLimit.Window = window
	}
}

// NewTestApp builds the API with basic auth, metrics disabled and a
// generous rate limit unless opts say otherwise.
func NewTestApp(t *testing.T, opts ...Option) *TestApp {
	t.Helper()
	cfg := &config.App{
		Env: "test",
		Auth: &config.Auth{
			Strategy: "basic",
			Username: Username,
			Password: Password,
			Jwt:      &config.Jwt{Secret: "test-signing-key", Expiry: time.Hour},
		},
		RateLimit: &config.RateLimit{MaxRequests: 10000, Window: time.Minute},
		Metrics:   &config.Metrics{Path: "/metrics"},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := infraeventbus.NewRecordingMemory(logger)
	a, err := app.New(&app.Deps{
		Uow:      repository.NewUoW(testutils.NewTestDB(t)),
		EventBus: bus,
		Logger:   logger,
	}, cfg)
	require.NoError(t, err)
	return &TestApp{Fiber: webapi.SetupApp(a), App: a, Bus: bus}
}

// BasicAuth returns the Authorization header value for the test operator.
func BasicAuth() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(Username+":"+Password))
}

// Bearer returns the Authorization header value for a JWT.
func Bearer(token string) string {
	return "Bearer " + token
}

// MakeRequest sends a request through the app. authorization is the raw
// Authorization header value, empty for none.
func MakeRequest(app *fiber.App, method, path, body, authorization string) *http.Response {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, 10_000)
	if err != nil {
		panic(err)
	}
	return resp
}

// Envelope is the decoded success response.
type Envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Decode reads the success envelope and unmarshals its data into out.
func Decode(t *testing.T, resp *http.Response, out any) Envelope {
	t.Helper()
	defer resp.Body.Close() //nolint: errcheck
	var env Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

// Problem is the decoded problem details response.
type Problem struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
	Errors []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func DecodeProblem(t *testing.T, resp *http.Response) Problem {
	t.Helper()
	defer resp.Body.Close() //nolint: errcheck
	require.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
	var p Problem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	return p
}
