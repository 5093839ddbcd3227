package config

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// InitDB opens the MySQL connection backing the corpus embedding cache.
// It returns a nil handle when no DSN is configured.
func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := cfg.Database.Dsn
	if dsn == "" {
		slog.Info("database dsn empty, skipping database init")
		return nil, nil
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to configure database pool: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	slog.Info("database initialized")
	return db, nil
}
