// Package cache wraps the shared Redis client: cache-aside reads for user
// profiles and the module catalogue, plus the key inventory their
// invalidators use.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"studygram/internal/middleware"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// metricsHook counts failed commands per command name; redis.Nil is a cache
// miss, not a failure.
type metricsHook struct{}

func (metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// InitRedis connects the package client to addr, which is either a bare
// host:port or a redis:// URL. Redis is optional infrastructure here: on any
// failure the client stays nil and the API runs uncached.
func InitRedis(addr string) {
	opts, err := parseRedisAddr(addr)
	if err != nil {
		middleware.Logger.Warn("invalid Redis address, running without cache",
			slog.String("error", err.Error()))
		client = nil
		return
	}

	c := redis.NewClient(opts)
	c.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("Redis unreachable, running without cache",
			slog.String("error", err.Error()))
		client = nil
		return
	}

	middleware.Logger.Info("Redis connected")
	client = c
}

func parseRedisAddr(addr string) (*redis.Options, error) {
	if strings.Contains(addr, "://") {
		return redis.ParseURL(addr)
	}
	return &redis.Options{Addr: addr}, nil
}

// GetClient exposes the shared client for components that need raw commands:
// the rate limiter, the pub/sub notifier, websocket tickets and the token
// blacklist.
func GetClient() *redis.Client {
	return client
}
