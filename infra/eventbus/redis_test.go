//go:build integration

package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/amirasaad/bank/pkg/domain/events"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedisClient(tb testing.TB) *redis.Client {
	tb.Helper()
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7.0.5",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(tb, container)
	require.NoError(tb, err)

	host, err := container.Host(ctx)
	require.NoError(tb, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(tb, err)

	client := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	tb.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisBus_RunDeliversAndDeadLetters(t *testing.T) {
	client := setupRedisClient(t)
	bus, err := NewWithRedis(client, "bank.events.test", "bank-test", discardLogger())
	require.NoError(t, err)
	bus.block = 100 * time.Millisecond

	received := make(chan int64, 2)
	bus.Register(events.EventTypeAccountCreated, func(ctx context.Context, e events.Event) error {
		received <- e.(*events.AccountCreated).AccountID
		return nil
	})
	bus.Register(events.EventTypeAccountDeleted, func(ctx context.Context, e events.Event) error {
		return assert.AnError
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bus.Run(ctx) }()

	require.NoError(t, bus.Emit(ctx, events.AccountCreated{Meta: events.NewMeta(), AccountID: 42}))
	require.NoError(t, bus.Emit(ctx, events.AccountDeleted{Meta: events.NewMeta(), AccountID: 43}))

	select {
	case id := <-received:
		assert.Equal(t, int64(42), id)
	case <-time.After(10 * time.Second):
		t.Fatal("event not delivered")
	}

	assert.Eventually(t, func() bool {
		n, err := client.XLen(context.Background(), "bank.events.test-DLQ").Result()
		return err == nil && n == 1
	}, 10*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not stop")
	}
}
