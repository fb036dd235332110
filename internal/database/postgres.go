package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PostgresOptions tunes the connection pool behind the gorm handle.
type PostgresOptions struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// ConnectPostgres establishes a connection to the PostgreSQL database.
func ConnectPostgres(opts PostgresOptions) (*gorm.DB, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("postgres dsn must not be empty")
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 25
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 5
	}

	db, err := gorm.Open(postgres.Open(opts.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
