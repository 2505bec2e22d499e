// Package database applies the embedded goose migrations for both
// supported backends.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "postgres"
)

// goose keeps its dialect, base FS and logger in package state.
var mu sync.Mutex

// Migrate brings the schema up to date. A nil logger silences goose.
func Migrate(ctx context.Context, db *sql.DB, dialect string, logger *slog.Logger) error {
	dir, err := setup(dialect, logger)
	if err != nil {
		return err
	}
	defer mu.Unlock()

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Status logs the applied state of every migration.
func Status(ctx context.Context, db *sql.DB, dialect string, logger *slog.Logger) error {
	dir, err := setup(dialect, logger)
	if err != nil {
		return err
	}
	defer mu.Unlock()

	if err := goose.StatusContext(ctx, db, dir); err != nil {
		return fmt.Errorf("goose status: %w", err)
	}
	return nil
}

// Version returns the current schema version.
func Version(ctx context.Context, db *sql.DB, dialect string) (int64, error) {
	if _, err := setup(dialect, nil); err != nil {
		return 0, err
	}
	defer mu.Unlock()

	v, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("goose version: %w", err)
	}
	return v, nil
}

// setup locks mu and configures goose. The caller unlocks on success.
func setup(dialect string, logger *slog.Logger) (string, error) {
	var dir string
	switch dialect {
	case DialectSQLite:
		dir = "migrations/sqlite"
	case DialectPostgres:
		dir = "migrations/postgres"
	default:
		return "", fmt.Errorf("database: unknown dialect %q", dialect)
	}

	mu.Lock()
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(dialect); err != nil {
		mu.Unlock()
		return "", fmt.Errorf("set dialect: %w", err)
	}
	if logger == nil {
		goose.SetLogger(goose.NopLogger())
	} else {
		goose.SetLogger(gooseLogger{logger})
	}
	return dir, nil
}

// gooseLogger adapts slog to goose.Logger.
type gooseLogger struct {
	l *slog.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.l.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.l.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
