package initializer

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	infraeventbus "github.com/amirasaad/bank/infra/eventbus"
	"github.com/amirasaad/bank/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) *config.App {
	return &config.App{
		Env:       "test",
		Log:       &config.Log{Format: "text"},
		DB:        &config.DB{Url: "sqlite://" + filepath.Join(t.TempDir(), "bank.db"), Migrate: true, MaxOpenConns: 1, MaxIdleConns: 1},
		EventBus:  &config.EventBus{Driver: "memory"},
		Redis:     &config.Redis{},
		Kafka:     &config.Kafka{},
		RateLimit: &config.RateLimit{Storage: "memory"},
		Metrics:   &config.Metrics{Enabled: true, Namespace: "inittest"},
	}
}

func TestInitializeDependencies_Memory(t *testing.T) {
	deps, err := InitializeDependencies(context.Background(), sqliteConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close() })

	assert.NotNil(t, deps.Uow)
	assert.IsType(t, &infraeventbus.MemoryEventBus{}, deps.EventBus)
	assert.Nil(t, deps.Runner())
	assert.NotNil(t, deps.Metrics)
	assert.Nil(t, deps.LimiterStorage)

	_, err = deps.Uow.CustomerRepository()
	assert.NoError(t, err)
}

func TestInitializeDependencies_MetricsDisabled(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Metrics.Enabled = false
	deps, err := InitializeDependencies(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close() })
	assert.Nil(t, deps.Metrics)
}

func TestInitializeDependencies_RedisRequiresURL(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.EventBus.Driver = "redis"
	deps, err := InitializeDependencies(context.Background(), cfg)
	assert.ErrorContains(t, err, "REDIS_URL is not set")
	assert.Nil(t, deps)
}

func TestInitializeDependencies_KafkaHalfSASL(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.EventBus.Driver = "kafka"
	cfg.Kafka = &config.Kafka{Brokers: []string{"localhost:9092"}, SASLUsername: "bank"}
	deps, err := InitializeDependencies(context.Background(), cfg)
	assert.ErrorContains(t, err, "sasl username and password are both required")
	assert.Nil(t, deps)
}

func TestKafkaConfig_CopiesSettings(t *testing.T) {
	got := kafkaConfig(&config.Kafka{
		TopicPrefix:  "p",
		GroupID:      "g",
		SASLUsername: "u",
		SASLPassword: "pw",
		TLSEnabled:   true,
		TLSCAFile:    "ca.pem",
	})
	assert.Equal(t, infraeventbus.KafkaConfig{
		TopicPrefix:  "p",
		GroupID:      "g",
		SASLUsername: "u",
		SASLPassword: "pw",
		TLSEnabled:   true,
		TLSCAFile:    "ca.pem",
	}, got)
}

func TestInitializeDependencies_BadDatabaseURL(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.DB.Url = "mysql://localhost/bank"
	_, err := InitializeDependencies(context.Background(), cfg)
	assert.ErrorContains(t, err, "unsupported DATABASE_URL scheme")
}

func TestNewLogger_Formats(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&config.Log{Format: "json"}, &buf).Info("hello", "type", "account.created")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"type":"account.created"`)

	buf.Reset()
	NewLogger(&config.Log{Format: "text", Level: 8}, &buf).Info("hidden")
	assert.Empty(t, buf.String())
}
