// Package app wires the ledger services and the event handlers onto a set
// of infrastructure dependencies.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/bank/pkg/config"
	"github.com/amirasaad/bank/pkg/domain/events"
	"github.com/amirasaad/bank/pkg/eventbus"
	"github.com/amirasaad/bank/pkg/metrics"
	"github.com/amirasaad/bank/pkg/repository"
	"github.com/amirasaad/bank/pkg/service/account"
	"github.com/amirasaad/bank/pkg/service/auth"
	"github.com/amirasaad/bank/pkg/service/customer"
	"github.com/gofiber/fiber/v2"
)

// Deps contains the infrastructure the application runs on.
type Deps struct {
	Uow      repository.UnitOfWork
	EventBus eventbus.Bus
	Logger   *slog.Logger
	// Metrics is nil when metrics are disabled.
	Metrics *metrics.Recorder
	// LimiterStorage backs the rate limiter; nil keeps it in memory.
	LimiterStorage fiber.Storage
}

type App struct {
	Deps            *Deps
	Config          *config.App
	AuthService     *auth.Service
	AccountService  *account.Service
	CustomerService *customer.Service
}

func New(deps *Deps, cfg *config.App) (*App, error) {
	authSvc, err := auth.New(cfg.Auth, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}
	app := &App{
		Deps:            deps,
		Config:          cfg,
		AuthService:     authSvc,
		AccountService:  account.New(deps.EventBus, deps.Uow, deps.Logger),
		CustomerService: customer.New(deps.EventBus, deps.Uow, deps.Logger),
	}
	app.setupEventBus()
	return app, nil
}

// setupEventBus registers the ledger audit log and, when enabled, the
// metrics recorder for every event type.
func (a *App) setupEventBus() {
	bus := a.Deps.EventBus
	audit := auditHandler(a.Deps.Logger.With("component", "audit"))
	for _, eventType := range events.AllTypes() {
		bus.Register(eventType, audit)
		if a.Deps.Metrics != nil {
			bus.Register(eventType, a.Deps.Metrics.HandleEvent)
		}
	}
}

func auditHandler(logger *slog.Logger) eventbus.HandlerFunc {
	return func(ctx context.Context, event events.Event) error {
		logger.InfoContext(ctx, "ledger event", "type", event.Type(), "event", event)
		return nil
	}
}
