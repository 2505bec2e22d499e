// Package postgres implements the repository interfaces on PostgreSQL
// through a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/sakif/notes-news/internal/database"
	"github.com/sakif/notes-news/internal/model"
	"github.com/sakif/notes-news/internal/repository"
)

var _ repository.Store = (*Storage)(nil)

type Storage struct {
	pool     *pgxpool.Pool
	users    *UserStore
	notes    *NoteStore
	news     *NewsStore
	comments *CommentStore
}

// New connects to dbURL, pings it and applies pending migrations.
func New(ctx context.Context, dbURL string) (*Storage, error) {
	const op = "postgres.New"

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		pool:     pool,
		users:    &UserStore{pool: pool},
		notes:    &NoteStore{pool: pool},
		news:     &NewsStore{pool: pool},
		comments: &CommentStore{pool: pool},
	}, nil
}

// migrate runs goose through a database/sql view of the pool.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return database.Migrate(ctx, db, database.DialectPostgres, nil)
}

func (s *Storage) Users() repository.UserRepository       { return s.users }
func (s *Storage) Notes() repository.NoteRepository       { return s.notes }
func (s *Storage) News() repository.NewsRepository        { return s.news }
func (s *Storage) Comments() repository.CommentRepository { return s.comments }

// Pool exposes the pgx pool for maintenance commands.
func (s *Storage) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

func (s *Storage) Stats(ctx context.Context) (model.Stats, error) {
	const op = "postgres.Stats"

	var st model.Stats
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM notes),
			(SELECT COUNT(*) FROM news),
			(SELECT COUNT(*) FROM comments)`,
	).Scan(&st.Users, &st.Notes, &st.News, &st.Comments)
	if err != nil {
		return model.Stats{}, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
