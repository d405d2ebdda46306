package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/amirasaad/bank/pkg/domain/events"
	"github.com/amirasaad/bank/pkg/eventbus"
	"github.com/redis/go-redis/v9"
)

const redisEventField = "event"

// RedisEventBus publishes events to a single Redis stream and consumes it
// through a consumer group. Handlers only run inside Run.
type RedisEventBus struct {
	*handlerRegistry
	client   *redis.Client
	stream   string
	group    string
	consumer string
	block    time.Duration
	logger   *slog.Logger
}

// NewWithRedis creates a Redis Streams event bus on an existing client.
func NewWithRedis(client *redis.Client, stream, group string, logger *slog.Logger) (*RedisEventBus, error) {
	if client == nil {
		return nil, fmt.Errorf("redis event bus: client is required")
	}
	if stream == "" || group == "" {
		return nil, fmt.Errorf("redis event bus: stream and group are required")
	}
	host, _ := os.Hostname()
	return &RedisEventBus{
		handlerRegistry: newHandlerRegistry(),
		client:          client,
		stream:          stream,
		group:           group,
		consumer:        fmt.Sprintf("%s-%d", host, os.Getpid()),
		block:           5 * time.Second,
		logger:          logger.With("bus", "redis", "stream", stream),
	}, nil
}

// Register adds a handler; it takes effect for messages read by Run.
func (b *RedisEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.add(eventType, handler)
}

// Emit appends the event to the stream.
func (b *RedisEventBus) Emit(ctx context.Context, event events.Event) error {
	envBytes, err := encodeEnvelope(event)
	if err != nil {
		return fmt.Errorf("redis event bus: %w", err)
	}

	if err := b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: b.stream,
		Values: map[string]any{redisEventField: string(envBytes)},
	}).Err(); err != nil {
		return fmt.Errorf("redis event bus: emit failed: %w", err)
	}
	b.logger.Debug("event emitted", "type", event.Type())
	return nil
}

// Run reads the stream until ctx is cancelled. Messages whose handlers fail
// are copied to the "<stream>-DLQ" stream; every read message is acked.
func (b *RedisEventBus) Run(ctx context.Context) error {
	if err := b.client.XGroupCreateMkStream(ctx, b.stream, b.group, "0").Err(); err != nil &&
		!strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("redis event bus: create group: %w", err)
	}
	b.logger.Info("consumer started", "group", b.group, "consumer", b.consumer)

	for {
		res, err := b.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    b.group,
			Consumer: b.consumer,
			Streams:  []string{b.stream, ">"},
			Count:    16,
			Block:    b.block,
		}).Result()
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				b.logger.Error("error reading from stream", "error", err)
				if !backoff(ctx, time.Second) {
					return nil
				}
			}
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				b.handleMessage(ctx, msg)
			}
		}
	}
}

func (b *RedisEventBus) handleMessage(ctx context.Context, msg redis.XMessage) {
	defer func() {
		if err := b.client.XAck(ctx, b.stream, b.group, msg.ID).Err(); err != nil {
			b.logger.Error("failed to acknowledge message", "error", err, "msg_id", msg.ID)
		}
	}()

	raw, ok := msg.Values[redisEventField].(string)
	if !ok {
		b.logger.Warn("message without event field", "msg_id", msg.ID)
		return
	}
	evt, err := decodeEnvelope([]byte(raw))
	if err != nil {
		b.logger.Error("failed to decode event", "error", err, "msg_id", msg.ID)
		b.pushToDLQ(ctx, msg.Values)
		return
	}
	if err := dispatch(ctx, b.logger, b.get(evt.Type()), evt); err != nil {
		b.pushToDLQ(ctx, msg.Values)
	}
}

func (b *RedisEventBus) pushToDLQ(ctx context.Context, values map[string]any) {
	dlqStream := b.stream + "-DLQ"
	if err := b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: dlqStream,
		Values: values,
	}).Err(); err != nil {
		b.logger.Error("failed to push to DLQ", "error", err, "stream", dlqStream)
		return
	}
	b.logger.Warn("event pushed to DLQ", "stream", dlqStream)
}

var (
	_ eventbus.Bus = (*RedisEventBus)(nil)
	_ Runner       = (*RedisEventBus)(nil)
)
