package cache

import (
	"context"
	"fmt"
	"time"
)

// Key builders and TTLs for every cached value in the application.
// Keeping them in one place avoids drift between writers and invalidators.
// Posts and feed pages are never cached: their like and comment counts are
// computed per read.

const (
	UserTTL       = 10 * time.Minute
	ModuleListTTL = 30 * time.Minute
)

// UserKey is the cache key for a single user profile.
func UserKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// ModuleListKey is the cache key for the grouped module catalogue.
func ModuleListKey() string {
	return "modules:all"
}

// InvalidateUser drops the cached profile for a user.
func InvalidateUser(ctx context.Context, userID uint) {
	Delete(ctx, UserKey(userID))
}

// InvalidateModules drops the cached module catalogue.
func InvalidateModules(ctx context.Context) {
	Delete(ctx, ModuleListKey())
}
