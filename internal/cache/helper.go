package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"studygram/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// GetJSON loads the value at key into dest. Returns false on miss or when
// Redis is unavailable.
func GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if client == nil {
		return false
	}

	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			middleware.Logger.WarnContext(ctx, "cache get failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		middleware.Logger.WarnContext(ctx, "cache unmarshal failed, dropping entry", slog.String("key", key), slog.String("error", err.Error()))
		client.Del(ctx, key)
		return false
	}
	return true
}

// SetJSON stores value at key with the given TTL. Failures are logged and
// otherwise ignored; the cache is best-effort.
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if client == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "cache marshal failed", slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	if err := client.Set(ctx, key, raw, ttl).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache set failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// Delete removes the given keys.
func Delete(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache delete failed", slog.String("error", err.Error()))
	}
}

// Aside implements the cache-aside pattern: fill dest from the cached value
// at key if present, otherwise call fetch (which populates dest) and cache
// the result. When Redis is down the fetch still runs, so callers never fail
// on cache errors.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, fetch func() error) error {
	if GetJSON(ctx, key, dest) {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	SetJSON(ctx, key, dest, ttl)
	return nil
}
