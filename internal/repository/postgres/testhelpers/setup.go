package testhelpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// TestDB represents a test database connection
type TestDB struct {
	DB     *sqlx.DB
	Logger *zap.Logger
}

// SetupTestDB connects to the test database and skips the test when it is unreachable.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	host := getEnv("TEST_DB_HOST", "localhost")
	port := getEnv("TEST_DB_PORT", "5433")
	user := getEnv("TEST_DB_USER", "postgres")
	password := getEnv("TEST_DB_PASSWORD", "postgres")
	dbname := getEnv("TEST_DB_NAME", "bus_eta_test")
	sslmode := getEnv("TEST_DB_SSLMODE", "disable")

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s connect_timeout=2",
		host, port, user, password, dbname, sslmode,
	)

	var db *sqlx.DB
	var err error
	maxRetries := 3
	retryDelay := 200 * time.Millisecond

	for i := 0; i < maxRetries; i++ {
		db, err = sqlx.Connect("postgres", connStr)
		if err == nil {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
			retryDelay *= 2
		}
	}

	if err != nil {
		t.Skipf("PostgreSQL not available for integration tests: %v", err)
	}

	return &TestDB{
		DB:     db,
		Logger: zap.NewNop(),
	}
}

// Close closes the database connection
func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		tdb.DB.Close()
	}
}

// Cleanup removes every row of the given namespace
func (tdb *TestDB) Cleanup(ctx context.Context, namespace string) error {
	tables := []string{
		"favorite_snapshots",
		"favorite_legacy_routes",
	}

	for _, table := range tables {
		query := fmt.Sprintf("DELETE FROM %s WHERE namespace = $1", table)
		if _, err := tdb.DB.ExecContext(ctx, query, namespace); err != nil {
			return fmt.Errorf("cleanup %s: %w", table, err)
		}
	}

	return nil
}

// SeedLegacy inserts legacy favorite keys
func (tdb *TestDB) SeedLegacy(ctx context.Context, namespace string, keys ...string) error {
	for _, k := range keys {
		_, err := tdb.DB.ExecContext(ctx,
			`INSERT INTO favorite_legacy_routes (namespace, route_key) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			namespace, k)
		if err != nil {
			return fmt.Errorf("seed legacy %s: %w", k, err)
		}
	}
	return nil
}

// getEnv gets environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
