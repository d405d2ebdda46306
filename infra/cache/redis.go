package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/bank/pkg/config"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a client from cfg.URL and checks the server answers.
func NewRedisClient(ctx context.Context, cfg *config.Redis) (*redis.Client, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.New("REDIS_URL is not set")
	}
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opt.PoolSize = cfg.PoolSize
	}
	if cfg.DialTimeout > 0 {
		opt.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opt.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opt.WriteTimeout = cfg.WriteTimeout
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}

// RedisStorage implements fiber.Storage on top of a shared redis client.
// Every key is stored under prefix.
type RedisStorage struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisStorage returns a storage that does not own client; Close is a
// no-op.
func NewRedisStorage(client *redis.Client, prefix string, logger *slog.Logger) *RedisStorage {
	return &RedisStorage{client: client, prefix: prefix, logger: logger.With("component", "redis-storage")}
}

func (s *RedisStorage) key(key string) string {
	return s.prefix + key
}

// Get returns nil without error when the key is missing.
func (s *RedisStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	val, err := s.client.Get(context.Background(), s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("Redis storage get error", "key", key, "error", err)
		return nil, err
	}
	return val, nil
}

// Set stores val; exp of zero means no expiry.
func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	if err := s.client.Set(context.Background(), s.key(key), val, exp).Err(); err != nil {
		s.logger.Error("Redis storage set error", "key", key, "error", err)
		return err
	}
	return nil
}

func (s *RedisStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	return s.client.Del(context.Background(), s.key(key)).Err()
}

// Reset removes every key under the prefix.
func (s *RedisStorage) Reset() error {
	ctx := context.Background()
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return s.client.Del(ctx, batch...).Err()
	}
	return nil
}

func (s *RedisStorage) Close() error {
	return nil
}

var _ fiber.Storage = (*RedisStorage)(nil)
