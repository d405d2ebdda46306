// Package initializer builds the application dependencies from configuration.
package initializer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/amirasaad/bank/infra"
	"github.com/amirasaad/bank/infra/cache"
	infraeventbus "github.com/amirasaad/bank/infra/eventbus"
	infrarepository "github.com/amirasaad/bank/infra/repository"
	"github.com/amirasaad/bank/pkg/app"
	"github.com/amirasaad/bank/pkg/config"
	"github.com/amirasaad/bank/pkg/eventbus"
	"github.com/amirasaad/bank/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

// Dependencies are the initialized app dependencies plus what must be
// released on shutdown.
type Dependencies struct {
	*app.Deps
	closers []func() error
}

// Close releases every opened connection in reverse order of creation.
func (d *Dependencies) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	return errors.Join(errs...)
}

// Runner returns the consumer loop of a broker-backed bus, or nil.
func (d *Dependencies) Runner() infraeventbus.Runner {
	r, _ := d.EventBus.(infraeventbus.Runner)
	return r
}

// InitializeDependencies opens the database, migrates it when configured,
// and builds the event bus, metrics and rate-limit storage.
func InitializeDependencies(ctx context.Context, cfg *config.App) (deps *Dependencies, err error) {
	logger := NewLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	deps = &Dependencies{Deps: &app.Deps{Logger: logger}}
	defer func() {
		if err != nil {
			_ = deps.Close()
			deps = nil
		}
	}()

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return
	}
	deps.closers = append(deps.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
	if cfg.DB.Migrate {
		if err = infra.Migrate(ctx, db); err != nil {
			return
		}
		logger.Info("database migrated")
	}
	deps.Uow = infrarepository.NewUoW(db)

	var redisClient *redis.Client
	if cfg.EventBus.Driver == "redis" || cfg.RateLimit.Storage == "redis" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return
		}
		deps.closers = append(deps.closers, redisClient.Close)
	}

	deps.EventBus, err = newEventBus(ctx, cfg, redisClient, logger, deps)
	if err != nil {
		return
	}

	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.New(cfg.Metrics.Namespace)
	}
	if cfg.RateLimit.Storage == "redis" {
		deps.LimiterStorage = cache.NewRedisStorage(redisClient, cfg.Redis.KeyPrefix+"limiter:", logger)
	}
	return
}

func newEventBus(
	ctx context.Context,
	cfg *config.App,
	redisClient *redis.Client,
	logger *slog.Logger,
	deps *Dependencies,
) (eventbus.Bus, error) {
	var bus eventbus.Bus
	switch cfg.EventBus.Driver {
	case "redis":
		rb, err := infraeventbus.NewWithRedis(redisClient, cfg.Redis.Stream, cfg.Redis.Group, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis event bus: %w", err)
		}
		bus = rb
	case "kafka":
		kb, err := infraeventbus.NewWithKafka(ctx, cfg.Kafka.Brokers, kafkaConfig(cfg.Kafka), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka event bus: %w", err)
		}
		deps.closers = append(deps.closers, kb.Close)
		bus = kb
	default:
		return infraeventbus.NewWithMemory(logger), nil
	}
	return infraeventbus.NewBreaker(
		bus,
		cfg.EventBus.Driver,
		cfg.EventBus.BreakerFailures,
		cfg.EventBus.BreakerTimeout,
		logger,
	), nil
}

func kafkaConfig(cfg *config.Kafka) infraeventbus.KafkaConfig {
	return infraeventbus.KafkaConfig{
		TopicPrefix:   cfg.TopicPrefix,
		GroupID:       cfg.GroupID,
		SASLUsername:  cfg.SASLUsername,
		SASLPassword:  cfg.SASLPassword,
		TLSEnabled:    cfg.TLSEnabled,
		TLSCAFile:     cfg.TLSCAFile,
		TLSCertFile:   cfg.TLSCertFile,
		TLSKeyFile:    cfg.TLSKeyFile,
		TLSSkipVerify: cfg.TLSSkipVerify,
	}
}
