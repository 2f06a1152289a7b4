package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"studygram/internal/cache"
	"studygram/internal/config"
	"studygram/internal/database"
	"studygram/internal/models"
	"studygram/internal/seed"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedBuiltIns bool
}

// InitRuntime connects to DB and Redis and optionally runs built-in seeding.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	// Connect DB
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if cfg.DBReadHost != "" {
		if err := database.ConnectReadReplica(cfg); err != nil {
			log.Printf("read replica unavailable, falling back to primary: %v", err)
		}
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := ensureDevTestAccount(cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development test account: %w", err)
	}

	if opts.SeedBuiltIns {
		if err := seed.Modules(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed module catalogue: %w", err)
		}
		// A catalogue change lands at boot; drop any grouping cached before it.
		cache.InvalidateModules(context.Background())
	}

	return db, r, nil
}

// ensureDevTestAccount creates a known login for local development so the
// frontend can be exercised without going through signup first.
func ensureDevTestAccount(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapAccount {
		return nil
	}

	email := strings.TrimSpace(strings.ToLower(cfg.DevAccountEmail))
	if email == "" {
		email = "test.student@stud.example.edu"
	}
	password := cfg.DevAccountPassword
	if password == "" {
		return fmt.Errorf("DEV_ACCOUNT_PASSWORD must be set when DEV_BOOTSTRAP_ACCOUNT is enabled")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash dev account password: %w", err)
	}

	var existing models.User
	findErr := db.Where("email = ?", email).First(&existing).Error
	switch {
	case errors.Is(findErr, gorm.ErrRecordNotFound):
		user := models.User{
			FirstName: "Test",
			LastName:  "Student",
			Email:     email,
			Password:  string(hashedPassword),
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		log.Printf("development test account created (%s)", email)
	case findErr != nil:
		return findErr
	default:
		// Account exists, keep its credentials as-is.
	}

	return nil
}
