// Package testutil provides shared helpers for integration tests.
// Helpers skip the calling test when the backing service is not configured,
// so `go test ./...` passes on a machine with neither Postgres nor Redis.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/pkordes/flight-dashboard/migrations"
)

// DatabaseEnv names the variable holding the Postgres DSN used by tests.
const DatabaseEnv = "TEST_DATABASE_URL"

// NewPool opens a *pgxpool.Pool on the test database and closes it when the
// test finishes. Repositories under test take the pool (or a tx begun on it).
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), requireEnv(t, DatabaseEnv))
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

// NewSQLDB opens a database/sql handle on the test database, for callers
// such as goose that do not speak pgx natively.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := openSQLDB(requireEnv(t, DatabaseEnv))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// Migrate applies every pending migration to the database named by
// TEST_DATABASE_URL. It is meant for TestMain and reports whether a database
// was configured at all.
func Migrate(ctx context.Context) (bool, error) {
	dsn := os.Getenv(DatabaseEnv)
	if dsn == "" {
		return false, nil
	}

	db, err := openSQLDB(dsn)
	if err != nil {
		return true, fmt.Errorf("testutil.Migrate: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return true, fmt.Errorf("testutil.Migrate: provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return true, fmt.Errorf("testutil.Migrate: up: %w", err)
	}
	return true, nil
}

func openSQLDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

// requireEnv returns the value of key, skipping the test if it is unset.
func requireEnv(t *testing.T, key string) string {
	t.Helper()
	v := os.Getenv(key)
	if v == "" {
		t.Skipf("%s not set; skipping integration test", key)
	}
	return v
}
