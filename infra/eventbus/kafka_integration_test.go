//go:build integration

package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/amirasaad/bank/pkg/domain/events"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

func setupKafkaBrokers(tb testing.TB) []string {
	tb.Helper()
	ctx := context.Background()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("bank-test"))
	testcontainers.CleanupContainer(tb, container)
	require.NoError(tb, err)

	brokers, err := container.Brokers(ctx)
	require.NoError(tb, err)
	return brokers
}

func TestKafkaBus_RunDeliversAndDeadLetters(t *testing.T) {
	brokers := setupKafkaBrokers(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	bus, err := NewWithKafka(ctx, brokers, KafkaConfig{TopicPrefix: "bank.test", GroupID: "bank-test"}, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = bus.Close() })

	received := make(chan int64, 1)
	bus.Register(events.EventTypeAccountCreated, func(ctx context.Context, e events.Event) error {
		received <- e.(*events.AccountCreated).AccountID
		return nil
	})
	bus.Register(events.EventTypeAccountDeleted, func(ctx context.Context, e events.Event) error {
		return assert.AnError
	})

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- bus.Run(runCtx) }()

	require.NoError(t, bus.Emit(ctx, events.AccountCreated{Meta: events.NewMeta(), AccountID: 42}))
	require.NoError(t, bus.Emit(ctx, events.AccountDeleted{Meta: events.NewMeta(), AccountID: 43}))

	select {
	case id := <-received:
		assert.Equal(t, int64(42), id)
	case <-time.After(time.Minute):
		t.Fatal("event not delivered")
	}

	dlq := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   brokers,
		Topic:     dlqTopicNameFor("bank.test", events.EventTypeAccountDeleted),
		Partition: 0,
		MaxWait:   time.Second,
	})
	defer func() { _ = dlq.Close() }()
	readCtx, readCancel := context.WithTimeout(ctx, time.Minute)
	defer readCancel()
	msg, err := dlq.ReadMessage(readCtx)
	require.NoError(t, err)
	assert.Equal(t, events.EventTypeAccountDeleted, string(msg.Key))

	stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(30 * time.Second):
		t.Fatal("Run did not stop")
	}
}
