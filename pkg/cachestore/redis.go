package cachestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisStoreConfig holds the configuration for the Redis client.
type RedisStoreConfig struct {
	Addr     string
	Password string
	DB       int
	// KeyPrefix namespaces entries so one Redis instance can back several
	// caches.
	KeyPrefix string
	// EntryTTL defaults to zero, meaning entries never expire — the store
	// is durable-by-default like the file store, and invalidation is an
	// explicit Delete. Setting a TTL is a documented deviation from that
	// policy for deployments that want it.
	EntryTTL time.Duration
}

// RedisStore is an EntryStore backed by Redis, for teams that want to share
// one cache across machines rather than ship a directory around.
type RedisStore struct {
	redisClient *redis.Client
	logger      zerolog.Logger
	prefix      string
	ttl         time.Duration
}

// NewRedisStore creates and connects a new RedisStore. It pings the Redis
// server to ensure connectivity before returning.
func NewRedisStore(ctx context.Context, cfg *RedisStoreConfig, logger zerolog.Logger) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info().Str("redis_address", cfg.Addr).Msg("Successfully connected to Redis.")

	return &RedisStore{
		redisClient: rdb,
		logger:      logger.With().Str("component", "RedisStore").Logger(),
		prefix:      cfg.KeyPrefix,
		ttl:         cfg.EntryTTL,
	}, nil
}

// Get retrieves the entry for key. A redis.Nil reply is a normal miss and is
// mapped to ErrNotFound; any other error is a genuine problem.
func (s *RedisStore) Get(ctx context.Context, key Key) ([]byte, error) {
	data, err := s.redisClient.Get(ctx, s.redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		s.logger.Error().Err(err).Str("key", key.String()).Msg("Unexpected Redis error during get.")
		return nil, fmt.Errorf("failed to get entry from redis: %w", err)
	}
	s.logger.Debug().Str("key", key.String()).Msg("Redis cache hit.")
	return data, nil
}

// Put stores data under key. Redis SET replaces the value atomically, so a
// reader sees either the old entry or the new one, never a partial write.
func (s *RedisStore) Put(ctx context.Context, key Key, data []byte) error {
	if err := s.redisClient.Set(ctx, s.redisKey(key), data, s.ttl).Err(); err != nil {
		s.logger.Error().Err(err).Str("key", key.String()).Msg("Failed to set entry in Redis.")
		return fmt.Errorf("failed to set entry in redis: %w", err)
	}
	s.logger.Debug().Str("key", key.String()).Msg("Stored cache entry in Redis.")
	return nil
}

// Delete removes the entry for key.
func (s *RedisStore) Delete(ctx context.Context, key Key) error {
	removed, err := s.redisClient.Del(ctx, s.redisKey(key)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete entry from redis: %w", err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the Redis client connection.
func (s *RedisStore) Close() error {
	if s.redisClient != nil {
		s.logger.Info().Msg("Closing Redis client connection...")
		return s.redisClient.Close()
	}
	return nil
}

func (s *RedisStore) redisKey(key Key) string {
	if s.prefix == "" {
		return key.String()
	}
	return s.prefix + ":" + key.String()
}
