package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/notes-news/internal/apperror"
	"github.com/sakif/notes-news/internal/model"
	"github.com/sakif/notes-news/internal/repository"
)

var _ repository.UserRepository = (*UserStore)(nil)

type UserStore struct {
	conn *sql.DB
}

const userColumns = `id, username, password_hash, github_id, created_at, updated_at`

// Create inserts a new user and fills in ID and timestamps.
// A taken username is reported as apperror.ErrConflict.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	var githubID sql.NullInt64
	if user.GitHubID != nil {
		githubID = sql.NullInt64{Int64: *user.GitHubID, Valid: true}
	}

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.PasswordHash, githubID, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Username)
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row, id)
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row, username)
}

// UpsertGitHub keeps the internal ID of a returning GitHub user and only
// refreshes updated_at. New users are inserted under user.Username.
func (s *UserStore) UpsertGitHub(ctx context.Context, user *model.User) error {
	if user.GitHubID == nil {
		return fmt.Errorf("sqlite: upsert github user %q: missing github id", user.Username)
	}

	var existing model.User
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, username, created_at FROM users WHERE github_id = ?`, *user.GitHubID,
	).Scan(&existing.ID, &existing.Username, &existing.CreatedAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("sqlite: looking up github user %d: %w", *user.GitHubID, err)
	}

	if existing.ID == "" {
		return s.Create(ctx, user)
	}

	user.ID = existing.ID
	user.Username = existing.Username
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now().UTC()
	_, err = s.conn.ExecContext(ctx,
		`UPDATE users SET updated_at = ? WHERE id = ?`, user.UpdatedAt, user.ID)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}
	return nil
}

func scanUser(row scanner, key string) (*model.User, error) {
	var (
		u        model.User
		githubID sql.NullInt64
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &githubID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", key)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", key, err)
	}
	if githubID.Valid {
		id := githubID.Int64
		u.GitHubID = &id
	}
	return &u, nil
}
