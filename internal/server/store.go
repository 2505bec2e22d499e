package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sakif/notes-news/internal/config"
	"github.com/sakif/notes-news/internal/repository"
	"github.com/sakif/notes-news/internal/repository/postgres"
	"github.com/sakif/notes-news/internal/repository/sqlite"
)

// OpenStore opens (and migrates) the database named by cfg.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig) (repository.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.Path); dir != "." && cfg.Path != ":memory:" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
			}
		}
		return sqlite.New(cfg.Path)
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.URL)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
