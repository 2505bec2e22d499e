package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/sakif/notes-news/internal/database"
	"github.com/sakif/notes-news/internal/repository"
	"github.com/sakif/notes-news/internal/repository/postgres"
	"github.com/sakif/notes-news/internal/repository/sqlite"
	"github.com/sakif/notes-news/internal/server"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|status]",
		Short:     "Apply pending migrations (default) or show their status",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}
			ctx := cmd.Context()

			// opening a store applies pending migrations
			store, err := server.OpenStore(ctx, a.cfg.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			db, dialect, release, err := sqlHandle(store)
			if err != nil {
				return err
			}
			defer release()

			if action == "status" {
				return database.Status(ctx, db, dialect, a.logger)
			}
			return printVersion(ctx, cmd, db, dialect)
		},
	}
}

func printVersion(ctx context.Context, cmd *cobra.Command, db *sql.DB, dialect string) error {
	version, err := database.Version(ctx, db, dialect)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "database is at version %d\n", version)
	return nil
}

// sqlHandle returns a database/sql view of store for goose.
func sqlHandle(store repository.Store) (*sql.DB, string, func(), error) {
	switch s := store.(type) {
	case *sqlite.DB:
		return s.Conn(), database.DialectSQLite, func() {}, nil
	case *postgres.Storage:
		db := stdlib.OpenDBFromPool(s.Pool())
		return db, database.DialectPostgres, func() { db.Close() }, nil
	default:
		return nil, "", nil, fmt.Errorf("migrations are not supported for %T", store)
	}
}
