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

var _ repository.CommentRepository = (*CommentStore)(nil)

type CommentStore struct {
	pool *pgxpool.Pool
}

const commentSelect = `
	SELECT c.id, c.news_id, c.author_id, u.username, c.text, c.created, c.updated_at
	FROM comments c JOIN users u ON u.id = c.author_id`

func (s *CommentStore) Create(ctx context.Context, comment *model.Comment) error {
	const op = "postgres.CommentStore.Create"

	now := time.Now().UTC()
	comment.ID = xid.New().String()
	if comment.Created.IsZero() {
		comment.Created = now
	}
	comment.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO comments (id, news_id, author_id, text, created, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		comment.ID, comment.NewsID, comment.AuthorID, comment.Text, comment.Created, comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *CommentStore) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	const op = "postgres.CommentStore.GetByID"

	var c model.Comment
	err := s.pool.QueryRow(ctx, commentSelect+` WHERE c.id = $1`, id).
		Scan(&c.ID, &c.NewsID, &c.AuthorID, &c.AuthorName, &c.Text, &c.Created, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("comment", id)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

func (s *CommentStore) ListByNews(ctx context.Context, newsID string) ([]model.Comment, error) {
	const op = "postgres.CommentStore.ListByNews"

	rows, err := s.pool.Query(ctx, commentSelect+` WHERE c.news_id = $1 ORDER BY c.created, c.id`, newsID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	comments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Comment, error) {
		var c model.Comment
		err := row.Scan(&c.ID, &c.NewsID, &c.AuthorID, &c.AuthorName, &c.Text, &c.Created, &c.UpdatedAt)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return comments, nil
}

func (s *CommentStore) Update(ctx context.Context, comment *model.Comment) error {
	const op = "postgres.CommentStore.Update"

	comment.UpdatedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE comments SET text = $1, updated_at = $2 WHERE id = $3`,
		comment.Text, comment.UpdatedAt, comment.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("comment", comment.ID)
	}
	return nil
}

func (s *CommentStore) Delete(ctx context.Context, id string) error {
	const op = "postgres.CommentStore.Delete"

	tag, err := s.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("comment", id)
	}
	return nil
}
