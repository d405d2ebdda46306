package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runnerFunc func(ctx context.Context) error

func (f runnerFunc) Run(ctx context.Context) error { return f(ctx) }

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return ln
}

func newFiber() *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestServe_GracefulShutdown(t *testing.T) {
	ln := listen(t)
	ctx, cancel := context.WithCancel(context.Background())

	consumerStopped := make(chan struct{})
	runner := runnerFunc(func(ctx context.Context) error {
		<-ctx.Done()
		close(consumerStopped)
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- serve(ctx, newFiber(), ln, runner, time.Second, discard()) }()

	url := "http://" + ln.Addr().String() + "/"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close() //nolint: errcheck
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	<-consumerStopped
}

func TestServe_ConsumerFailureStopsServer(t *testing.T) {
	ln := listen(t)
	boom := errors.New("broker gone")
	started := make(chan struct{})
	app := newFiber()
	app.Hooks().OnListen(func(fiber.ListenData) error {
		close(started)
		return nil
	})
	runner := runnerFunc(func(ctx context.Context) error {
		<-started
		return boom
	})

	err := serve(context.Background(), app, ln, runner, time.Second, discard())
	assert.ErrorIs(t, err, boom)
}
