package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirasaad/bank/infra/initializer"
	infraeventbus "github.com/amirasaad/bank/infra/eventbus"
	"github.com/amirasaad/bank/pkg/app"
	"github.com/amirasaad/bank/pkg/config"
	"github.com/amirasaad/bank/webapi"
	log "github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

// @title Bank API
// @version 1.0.0
// @description Customer directory and account ledger
// @host localhost:3000
// @BasePath /
//
// @securityDefinitions.basic BasicAuth
//
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description "Enter your Bearer token in the format: Bearer {token}"
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := initializer.InitializeDependencies(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			deps.Logger.Error("failed to release dependencies", "error", err)
		}
	}()

	a, err := app.New(deps.Deps, cfg)
	if err != nil {
		return err
	}
	fiberApp := webapi.SetupApp(a)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	deps.Logger.Info("Starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
		"event_bus", cfg.EventBus.Driver,
		"auth", a.AuthService.Strategy(),
	)
	return serve(ctx, fiberApp, ln, deps.Runner(), cfg.Server.ShutdownTimeout, deps.Logger)
}

// serve runs the HTTP server and the event consumer until ctx is cancelled
// or one of them fails, then drains in-flight requests within timeout.
func serve(
	ctx context.Context,
	fiberApp *fiber.App,
	ln net.Listener,
	runner infraeventbus.Runner,
	timeout time.Duration,
	logger *slog.Logger,
) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := fiberApp.Listener(ln); err != nil && gctx.Err() == nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if runner != nil {
		g.Go(func() error {
			if err := runner.Run(gctx); err != nil {
				return fmt.Errorf("event consumer: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "timeout", timeout)
		err := fiberApp.ShutdownWithTimeout(timeout)
		// unblocks Serve when shutdown raced its start
		_ = ln.Close()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	})
	return g.Wait()
}
