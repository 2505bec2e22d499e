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

var _ repository.NoteRepository = (*NoteStore)(nil)

type NoteStore struct {
	conn *sql.DB
}

const noteColumns = `id, title, text, slug, author_id, created_at, updated_at`

func (s *NoteStore) Create(ctx context.Context, note *model.Note) error {
	now := time.Now().UTC()
	note.ID = xid.New().String()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO notes (`+noteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		note.ID, note.Title, note.Text, note.Slug, note.AuthorID, note.CreatedAt.UTC(), note.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("note", note.Slug)
		}
		return fmt.Errorf("sqlite: inserting note %q: %w", note.Slug, err)
	}
	return nil
}

func (s *NoteStore) GetBySlug(ctx context.Context, slug string) (*model.Note, error) {
	var n model.Note
	err := s.conn.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE slug = ?`, slug,
	).Scan(&n.ID, &n.Title, &n.Text, &n.Slug, &n.AuthorID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("note", slug)
		}
		return nil, fmt.Errorf("sqlite: getting note %s: %w", slug, err)
	}
	return &n, nil
}

// ListByAuthor returns the author's notes, oldest first.
func (s *NoteStore) ListByAuthor(ctx context.Context, authorID string) ([]model.Note, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE author_id = ? ORDER BY created_at, id`,
		authorID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing notes: %w", err)
	}
	defer rows.Close()

	notes := []model.Note{}
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Text, &n.Slug, &n.AuthorID, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning note row: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating note rows: %w", err)
	}
	return notes, nil
}

// Update writes title, text and slug. The author never changes.
func (s *NoteStore) Update(ctx context.Context, note *model.Note) error {
	note.UpdatedAt = time.Now().UTC()
	res, err := s.conn.ExecContext(ctx,
		`UPDATE notes SET title = ?, text = ?, slug = ?, updated_at = ? WHERE id = ?`,
		note.Title, note.Text, note.Slug, note.UpdatedAt, note.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("note", note.Slug)
		}
		return fmt.Errorf("sqlite: updating note %s: %w", note.ID, err)
	}
	if err := checkAffected(res, apperror.NotFound("note", note.ID)); err != nil {
		return err
	}
	return nil
}

func (s *NoteStore) Delete(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting note %s: %w", id, err)
	}
	return checkAffected(res, apperror.NotFound("note", id))
}

func (s *NoteStore) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	var taken bool
	err := s.conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM notes WHERE slug = ? AND id <> ?)`, slug, excludeID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking slug %q: %w", slug, err)
	}
	return taken, nil
}
