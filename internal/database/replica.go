package database

import (
	"fmt"
	"time"

	"studygram/internal/config"
	"studygram/internal/middleware"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var readDB *gorm.DB

// GetReadDB returns the read-replica connection, or nil when no replica is
// configured. Callers fall back to the primary.
func GetReadDB() *gorm.DB {
	return readDB
}

// SetReadDB overrides the read-replica connection. Intended for tests.
func SetReadDB(db *gorm.DB) {
	readDB = db
}

// ConnectReadReplica opens a read-only connection when DB_READ_HOST is set.
// The replica shares credentials and database name with the primary.
func ConnectReadReplica(cfg *config.Config) error {
	if cfg.DBReadHost == "" {
		return nil
	}

	sslMode := cfg.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBReadHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		sslMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: &CustomGormLogger{
			logger: middleware.Logger,
			Config: logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to connect to read replica: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	middleware.Logger.Info("Read replica connected successfully")
	readDB = db
	return nil
}
