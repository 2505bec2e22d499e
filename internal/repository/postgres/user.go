package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/xid"

	"github.com/sakif/notes-news/internal/apperror"
	"github.com/sakif/notes-news/internal/model"
	"github.com/sakif/notes-news/internal/repository"
)

var _ repository.UserRepository = (*UserStore)(nil)

type UserStore struct {
	pool *pgxpool.Pool
}

const userColumns = `id, username, password_hash, github_id, created_at, updated_at`

func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	const op = "postgres.UserStore.Create"

	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Username, user.PasswordHash, user.GitHubID, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Username)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.get(ctx, `id`, id)
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.get(ctx, `username`, username)
}

func (s *UserStore) get(ctx context.Context, column, key string) (*model.User, error) {
	const op = "postgres.UserStore.get"

	var u model.User
	err := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = $1`, key,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.GitHubID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("user", key)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

// UpsertGitHub keeps the ID and username of a returning GitHub user.
func (s *UserStore) UpsertGitHub(ctx context.Context, user *model.User) error {
	const op = "postgres.UserStore.UpsertGitHub"

	if user.GitHubID == nil {
		return fmt.Errorf("%s: missing github id", op)
	}

	now := time.Now().UTC()
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (`+userColumns+`) VALUES ($1, $2, '', $3, $4, $4)
		ON CONFLICT (github_id) DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id, username, created_at, updated_at`,
		xid.New().String(), user.Username, *user.GitHubID, now,
	).Scan(&user.ID, &user.Username, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Username)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
