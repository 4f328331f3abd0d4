package db

import (
	"path/filepath"
	"testing"

	"tasktrack/config"
	"tasktrack/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverName(t *testing.T) {
	t.Run("Should map every supported dialect", func(t *testing.T) {
		for dialect, want := range map[string]string{
			config.DriverPostgres: "postgres",
			config.DriverMySQL:    "mysql",
			config.DriverSQLite:   "sqlite",
		} {
			got, err := DriverName(dialect)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("Should reject an unknown dialect", func(t *testing.T) {
		_, err := DriverName("oracle")
		assert.ErrorContains(t, err, "unsupported database driver")
	})
}

func TestOpenAndMigrate(t *testing.T) {
	t.Run("Should open sqlite and apply migrations twice", func(t *testing.T) {
		ctx := t.Context()
		log := logger.NewForTests()
		cfg := config.DBConfig{Driver: config.DriverSQLite, Name: filepath.Join(t.TempDir(), "m.db")}

		handle, err := Open(ctx, cfg, log)
		require.NoError(t, err)
		defer handle.Close()

		require.NoError(t, RunMigrations(ctx, handle, cfg.Driver, log))
		require.NoError(t, RunMigrations(ctx, handle, cfg.Driver, log))

		for _, table := range []string{"users", "tasks", "goose_db_version"} {
			var name string
			err := handle.QueryRowContext(ctx,
				"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
			require.NoError(t, err, "table %s should exist", table)
		}
	})

	t.Run("Should fail for an unknown driver", func(t *testing.T) {
		_, err := Open(t.Context(), config.DBConfig{Driver: "oracle"}, logger.NewForTests())
		assert.Error(t, err)
	})

	t.Run("Should refuse a nil handle", func(t *testing.T) {
		err := RunMigrations(t.Context(), nil, config.DriverSQLite, logger.NewForTests())
		assert.ErrorContains(t, err, "nil")
	})

	t.Run("Should refuse a dialect without migrations", func(t *testing.T) {
		ctx := t.Context()
		log := logger.NewForTests()
		cfg := config.DBConfig{Driver: config.DriverSQLite, Name: filepath.Join(t.TempDir(), "m.db")}
		handle, err := Open(ctx, cfg, log)
		require.NoError(t, err)
		defer handle.Close()

		err = RunMigrations(ctx, handle, "oracle", log)
		assert.ErrorContains(t, err, "no migrations")
	})
}
