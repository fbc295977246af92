// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/unclebandit/crm-backend/internal/config"
	"github.com/unclebandit/crm-backend/internal/logger"
)

// Open connects to PostgreSQL and verifies the connection. The caller owns the
// returned handle and must Close it on shutdown.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*sql.DB, error) {
	logger.Info("Connecting to database", logger.Fields{
		"host":     cfg.Host,
		"port":     cfg.Port,
		"database": cfg.Name,
		"user":     cfg.User,
		"from_url": cfg.URL != "",
	})

	conn, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database", logger.Fields{
		"max_open_conns": cfg.MaxOpenConns,
		"max_idle_conns": cfg.MaxIdleConns,
	})
	return conn, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
        id           BIGSERIAL PRIMARY KEY,
        first_name   TEXT NOT NULL,
        last_name    TEXT NOT NULL,
        phone_number TEXT NOT NULL UNIQUE,
        created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE TABLE IF NOT EXISTS addresses (
        id              BIGSERIAL PRIMARY KEY,
        customer_id     BIGINT NOT NULL REFERENCES customers (id) ON DELETE CASCADE,
        address_details TEXT NOT NULL,
        city            TEXT NOT NULL,
        state           TEXT NOT NULL,
        pin_code        TEXT NOT NULL,
        created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE INDEX IF NOT EXISTS idx_addresses_customer_id ON addresses (customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_addresses_location ON addresses (city, state, pin_code)`,
}

// EnsureSchema creates the tables if they don't exist yet.
func EnsureSchema(ctx context.Context, conn *sql.DB) error {
	for _, stmt := range schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	logger.Info("Database schema ready")
	return nil
}
