package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"tasktrack/config"

	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrationsFS embed.FS

// goose keeps its base FS, dialect and logger in package state.
var gooseMu sync.Mutex

var gooseDialects = map[string]string{
	config.DriverPostgres: "postgres",
	config.DriverMySQL:    "mysql",
	config.DriverSQLite:   "sqlite3",
}

// RunMigrations applies every pending embedded migration for dialect.
func RunMigrations(ctx context.Context, handle *sql.DB, dialect string, log *slog.Logger) error {
	if handle == nil {
		return fmt.Errorf("database connection is nil, call Open first")
	}
	gooseDialect, ok := gooseDialects[dialect]
	if !ok {
		return fmt.Errorf("no migrations for database driver %q", dialect)
	}

	gooseMu.Lock()
	defer func() {
		goose.SetBaseFS(nil)
		gooseMu.Unlock()
	}()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, handle, "migrations/"+dialect); err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}

	log.Info("[db] Migrations completed successfully.")
	return nil
}

// gooseLogger routes goose output through slog.
type gooseLogger struct {
	log *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Debug("[db] " + strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Error("[db] " + strings.TrimSpace(fmt.Sprintf(format, v...)))
}
