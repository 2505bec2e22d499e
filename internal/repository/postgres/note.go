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

var _ repository.NoteRepository = (*NoteStore)(nil)

type NoteStore struct {
	pool *pgxpool.Pool
}

const noteColumns = `id, title, text, slug, author_id, created_at, updated_at`

func (s *NoteStore) Create(ctx context.Context, note *model.Note) error {
	const op = "postgres.NoteStore.Create"

	now := time.Now().UTC()
	note.ID = xid.New().String()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO notes (`+noteColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		note.ID, note.Title, note.Text, note.Slug, note.AuthorID, note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("note", note.Slug)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *NoteStore) GetBySlug(ctx context.Context, slug string) (*model.Note, error) {
	const op = "postgres.NoteStore.GetBySlug"

	var n model.Note
	err := s.pool.QueryRow(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE slug = $1`, slug,
	).Scan(&n.ID, &n.Title, &n.Text, &n.Slug, &n.AuthorID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("note", slug)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &n, nil
}

func (s *NoteStore) ListByAuthor(ctx context.Context, authorID string) ([]model.Note, error) {
	const op = "postgres.NoteStore.ListByAuthor"

	rows, err := s.pool.Query(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE author_id = $1 ORDER BY created_at, id`, authorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	notes := []model.Note{}
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Text, &n.Slug, &n.AuthorID, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return notes, nil
}

func (s *NoteStore) Update(ctx context.Context, note *model.Note) error {
	const op = "postgres.NoteStore.Update"

	note.UpdatedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE notes SET title = $1, text = $2, slug = $3, updated_at = $4 WHERE id = $5`,
		note.Title, note.Text, note.Slug, note.UpdatedAt, note.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("note", note.Slug)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("note", note.ID)
	}
	return nil
}

func (s *NoteStore) Delete(ctx context.Context, id string) error {
	const op = "postgres.NoteStore.Delete"

	tag, err := s.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("note", id)
	}
	return nil
}

func (s *NoteStore) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	const op = "postgres.NoteStore.SlugTaken"

	var taken bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM notes WHERE slug = $1 AND id <> $2)`, slug, excludeID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return taken, nil
}
