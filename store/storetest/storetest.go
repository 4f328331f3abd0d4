// Package storetest opens throwaway migrated SQLite stores for tests.
package storetest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"tasktrack/config"
	"tasktrack/db"
	"tasktrack/logger"
	"tasktrack/store"

	"github.com/stretchr/testify/require"
)

// New returns a store over a fresh SQLite file in t.TempDir, plus the raw
// handle for tests that need to poke at rows directly.
func New(t testing.TB) (*store.SQLStore, *sql.DB) {
	t.Helper()
	ctx := t.Context()
	log := logger.NewForTests()

	cfg := config.DBConfig{
		Driver: config.DriverSQLite,
		Name:   filepath.Join(t.TempDir(), "tasktrack.db"),
	}
	handle, err := db.Open(ctx, cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { handle.Close() })

	require.NoError(t, db.RunMigrations(ctx, handle, cfg.Driver, log))
	return store.New(handle, cfg.Driver, log), handle
}
