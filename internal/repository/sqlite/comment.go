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

var _ repository.CommentRepository = (*CommentStore)(nil)

type CommentStore struct {
	conn *sql.DB
}

const commentSelect = `
	SELECT c.id, c.news_id, c.author_id, u.username, c.text, c.created, c.updated_at
	FROM comments c JOIN users u ON u.id = c.author_id`

// Create inserts a comment. A zero Created is set to now.
func (s *CommentStore) Create(ctx context.Context, comment *model.Comment) error {
	now := time.Now().UTC()
	comment.ID = xid.New().String()
	if comment.Created.IsZero() {
		comment.Created = now
	}
	comment.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO comments (id, news_id, author_id, text, created, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		comment.ID, comment.NewsID, comment.AuthorID, comment.Text, comment.Created.UTC(), comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting comment on news %s: %w", comment.NewsID, err)
	}
	return nil
}

func (s *CommentStore) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	row := s.conn.QueryRowContext(ctx, commentSelect+` WHERE c.id = ?`, id)
	c, err := scanComment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("comment", id)
		}
		return nil, fmt.Errorf("sqlite: getting comment %s: %w", id, err)
	}
	return c, nil
}

// ListByNews returns the comments of one news item, oldest first.
func (s *CommentStore) ListByNews(ctx context.Context, newsID string) ([]model.Comment, error) {
	rows, err := s.conn.QueryContext(ctx,
		commentSelect+` WHERE c.news_id = ? ORDER BY c.created, c.id`, newsID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments: %w", err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comment rows: %w", err)
	}
	return comments, nil
}

// Update rewrites the text only.
func (s *CommentStore) Update(ctx context.Context, comment *model.Comment) error {
	comment.UpdatedAt = time.Now().UTC()
	res, err := s.conn.ExecContext(ctx,
		`UPDATE comments SET text = ?, updated_at = ? WHERE id = ?`,
		comment.Text, comment.UpdatedAt, comment.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating comment %s: %w", comment.ID, err)
	}
	return checkAffected(res, apperror.NotFound("comment", comment.ID))
}

func (s *CommentStore) Delete(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting comment %s: %w", id, err)
	}
	return checkAffected(res, apperror.NotFound("comment", id))
}

func scanComment(row scanner) (*model.Comment, error) {
	var c model.Comment
	if err := row.Scan(&c.ID, &c.NewsID, &c.AuthorID, &c.AuthorName, &c.Text, &c.Created, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
