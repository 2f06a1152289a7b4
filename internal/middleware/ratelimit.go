// Package middleware provides the Fiber middleware stack: structured request
// logging, tracing, Prometheus metrics and Redis-backed rate limiting.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy decides what a throttled route does when the counter store is
// unreachable.
type FailPolicy int

const (
	// FailOpen lets the request through. Post and comment writes use this:
	// a Redis outage must not stop students from sharing material.
	FailOpen FailPolicy = iota
	// FailClosed rejects with 503, for routes where unthrottled traffic is
	// worse than downtime.
	FailClosed
)

// CheckRateLimit counts one hit for the resource/identity pair and reports
// whether it stays within limit for the window. Counters live in Redis under
// throttle:<resource>:<identity> so every API replica shares them. Limits are
// off in the test, development and stress environments.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	switch env {
	case "test", "development", "stress":
		return true, nil
	}

	if rdb == nil {
		return false, fmt.Errorf("rate limit store not configured")
	}

	key := fmt.Sprintf("throttle:%s:%s", resource, id)
	hits, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if hits == 1 {
		// First hit opens the window.
		rdb.Expire(ctx, key, window)
	}
	return hits <= int64(limit), nil
}

// RateLimit enforces limit requests per window, fail-open. The identity is
// the authenticated account when present, the client IP otherwise, so logged
// in students behind one campus NAT do not share a counter. The optional name
// labels the counter (signup, login, create_post, create_comment); without it
// the request path is used.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, name ...string) fiber.Handler {
	return RateLimitWithPolicy(rdb, limit, window, FailOpen, name...)
}

// RateLimitWithPolicy is RateLimit with an explicit store-failure policy.
func RateLimitWithPolicy(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id string
		if uid := c.Locals("userID"); uid != nil {
			id = fmt.Sprintf("user:%v", uid)
		} else {
			id = fmt.Sprintf("ip:%s", c.IP())
		}

		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}

		allowed, err := CheckRateLimit(c.UserContext(), rdb, resource, id, limit, window)
		if err != nil {
			if policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit store unreachable, failing closed",
					slog.String("resource", resource),
					slog.String("error", err.Error()),
				)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "rate limit unavailable",
				})
			}
			return c.Next()
		}

		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
