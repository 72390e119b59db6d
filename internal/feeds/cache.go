package feeds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// Cache stores individual quotes under string keys.
type Cache interface {
	// GetMany returns the cached values among keys. Missing keys are
	// simply absent from the result.
	GetMany(ctx context.Context, keys []string) (map[string]decimal.Decimal, error)

	// SetMany stores every entry with the given TTL.
	SetMany(ctx context.Context, entries map[string]decimal.Decimal, ttl time.Duration) error
}

// CryptoKey returns the cache key of a crypto quote.
func CryptoKey(id string) string { return "quote:crypto:" + id }

// StockKey returns the cache key of a stock quote.
func StockKey(ticker string) string { return "quote:stock:" + ticker }

// RedisCache is a Cache backed by Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(addr, password string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Close closes the Redis connection.
func (r *RedisCache) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// GetMany reads all keys with a single MGET. Values that do not parse as
// decimals are treated as missing.
func (r *RedisCache) GetMany(ctx context.Context, keys []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			continue
		}
		out[keys[i]] = d
	}
	return out, nil
}

// SetMany writes every entry in one pipeline.
func (r *RedisCache) SetMany(ctx context.Context, entries map[string]decimal.Decimal, ttl time.Duration) error {
	if len(entries) == 0 {
		return nil
	}

	pipe := r.client.Pipeline()
	for k, v := range entries {
		pipe.Set(ctx, k, v.String(), ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline set: %w", err)
	}
	return nil
}
