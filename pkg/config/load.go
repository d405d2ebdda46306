package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads the first env file found among envFilePath (searching parent
// directories), falling back to ./.env, then builds the configuration from
// the process environment. Variables already set in the environment win.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()
	logger.Debug("Loading environment variables")

	for _, path := range envFilePath {
		foundPath, err := FindEnvTest(path)
		if err != nil {
			logger.Debug("Environment file not found", "path", path, "error", err)
			continue
		}
		if err := godotenv.Load(foundPath); err != nil {
			logger.Error("Failed to load environment file", "path", foundPath, "error", err)
			continue
		}
		logger.Info("Environment loaded from file", "path", foundPath)
		return loadFromEnv()
	}

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found in current directory")
	}
	return loadFromEnv()
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Default().Info("App config loaded",
		"env", cfg.Env,
		"db", maskValue(cfg.DB.Url),
		"auth_strategy", cfg.Auth.Strategy,
		"auth_username", cfg.Auth.Username,
		"event_bus", cfg.EventBus.Driver,
		"redis", maskValue(cfg.Redis.URL),
		"kafka_brokers", cfg.Kafka.Brokers,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
		"rate_limit_storage", cfg.RateLimit.Storage,
		"metrics_enabled", cfg.Metrics.Enabled,
	)
	return &cfg, nil
}

// Validate rejects settings that cannot work together.
func (cfg *App) Validate() error {
	var errs []error

	if cfg.DB == nil || cfg.DB.Url == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}

	if cfg.Auth != nil {
		switch cfg.Auth.Strategy {
		case "basic":
		case "jwt":
			if cfg.Auth.Jwt == nil || cfg.Auth.Jwt.Secret == "" {
				errs = append(errs, errors.New("AUTH_JWT_SECRET is required for the jwt strategy"))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown AUTH_STRATEGY %q", cfg.Auth.Strategy))
		}
		if cfg.Auth.Username == "" {
			errs = append(errs, errors.New("AUTH_USERNAME is not set"))
		}
	}

	redisURL := ""
	if cfg.Redis != nil {
		redisURL = cfg.Redis.URL
	}

	if cfg.EventBus != nil {
		switch cfg.EventBus.Driver {
		case "memory":
		case "redis":
			if redisURL == "" {
				errs = append(errs, errors.New("REDIS_URL is required for the redis event bus"))
			}
		case "kafka":
			if cfg.Kafka == nil || len(cfg.Kafka.Brokers) == 0 {
				errs = append(errs, errors.New("KAFKA_BROKERS is required for the kafka event bus"))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown EVENT_BUS_DRIVER %q", cfg.EventBus.Driver))
		}
	}

	if cfg.RateLimit != nil {
		if !slices.Contains([]string{"memory", "redis"}, cfg.RateLimit.Storage) {
			errs = append(errs, fmt.Errorf("unknown RATE_LIMIT_STORAGE %q", cfg.RateLimit.Storage))
		} else if cfg.RateLimit.Storage == "redis" && redisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for redis rate limit storage"))
		}
	}

	return errors.Join(errs...)
}

func maskValue(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
