package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"tasktrack/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver, registered as "sqlite"
)

// DriverName maps a configured dialect onto the database/sql driver name.
func DriverName(dialect string) (string, error) {
	switch dialect {
	case config.DriverPostgres:
		return "postgres", nil
	case config.DriverMySQL:
		return "mysql", nil
	case config.DriverSQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", dialect)
	}
}

// Open returns a pooled handle for cfg and verifies it with a ping. The
// caller owns the handle and closes it on shutdown.
func Open(ctx context.Context, cfg config.DBConfig, log *slog.Logger) (*sql.DB, error) {
	driver, err := DriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	log.Info(fmt.Sprintf("[db] Attempting to open %s database connection...", cfg.Driver))

	handle, err := sql.Open(driver, cfg.DataSourceName())
	if err != nil {
		log.Error(fmt.Sprintf("[db] Error opening database: %v", err))
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Connection pool tuning. SQLite allows a single writer, so it gets a
	// single connection; that also keeps in-memory databases shared.
	if cfg.Driver == config.DriverSQLite {
		handle.SetMaxOpenConns(1)
	} else {
		handle.SetMaxOpenConns(cfg.MaxOpenConns)
		handle.SetMaxIdleConns(cfg.MaxIdleConns)
		handle.SetConnMaxLifetime(30 * time.Minute)
	}

	log.Info("[db] Pinging database to verify connection...")
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := handle.PingContext(pingCtx); err != nil {
		handle.Close()
		log.Error(fmt.Sprintf("[db] Failed to ping database: %v", err))
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	log.Info(fmt.Sprintf("[db] Successfully connected to %s.", cfg.Driver))
	return handle, nil
}
