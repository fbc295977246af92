package testutil

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"

	_ "github.com/lib/pq"

	"github.com/unclebandit/crm-backend/internal/db"
)

var (
	dbOnce sync.Once
	conn   *sql.DB
	dbErr  error
)

// DB returns a shared connection to TEST_POSTGRES_DSN with the schema in place,
// skipping the test when the variable is unset.
func DB(tb testing.TB) *sql.DB {
	tb.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		tb.Skip("TEST_POSTGRES_DSN not set")
	}

	dbOnce.Do(func() {
		conn, dbErr = sql.Open("postgres", dsn)
		if dbErr != nil {
			return
		}
		if dbErr = conn.Ping(); dbErr != nil {
			return
		}
		dbErr = db.EnsureSchema(context.Background(), conn)
	})
	if dbErr != nil {
		tb.Fatalf("failed to init test database: %v", dbErr)
	}

	Reset(tb, conn)
	return conn
}

// Reset empties both tables and restarts their id sequences.
func Reset(tb testing.TB, conn *sql.DB) {
	tb.Helper()
	if _, err := conn.Exec(`TRUNCATE addresses, customers RESTART IDENTITY CASCADE`); err != nil {
		tb.Fatalf("failed to truncate tables: %v", err)
	}
}
