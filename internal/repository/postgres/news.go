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

var _ repository.NewsRepository = (*NewsStore)(nil)

type NewsStore struct {
	pool *pgxpool.Pool
}

const newsSelect = `
	SELECT n.id, n.title, n.text, n.date, n.created_at,
		(SELECT COUNT(*) FROM comments c WHERE c.news_id = n.id)
	FROM news n`

func (s *NewsStore) Create(ctx context.Context, news *model.News) error {
	const op = "postgres.NewsStore.Create"

	now := time.Now().UTC()
	news.ID = xid.New().String()
	if news.CreatedAt.IsZero() {
		news.CreatedAt = now
	}
	if news.Date.IsZero() {
		news.Date = now
	}
	y, m, d := news.Date.UTC().Date()
	news.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	_, err := s.pool.Exec(ctx,
		`INSERT INTO news (id, title, text, date, created_at) VALUES ($1, $2, $3, $4, $5)`,
		news.ID, news.Title, news.Text, news.Date, news.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *NewsStore) GetByID(ctx context.Context, id string) (*model.News, error) {
	const op = "postgres.NewsStore.GetByID"

	var n model.News
	err := s.pool.QueryRow(ctx, newsSelect+` WHERE n.id = $1`, id).
		Scan(&n.ID, &n.Title, &n.Text, &n.Date, &n.CreatedAt, &n.CommentCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("news", id)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &n, nil
}

// List returns one page of news, newest date first. Limit 0 means no limit.
func (s *NewsStore) List(ctx context.Context, opts repository.ListOptions) ([]model.News, error) {
	const op = "postgres.NewsStore.List"

	var limit *int
	if opts.Limit > 0 {
		limit = &opts.Limit
	}
	rows, err := s.pool.Query(ctx,
		newsSelect+` ORDER BY n.date DESC, n.created_at DESC, n.id DESC LIMIT $1 OFFSET $2`,
		limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	list := []model.News{}
	for rows.Next() {
		var n model.News
		if err := rows.Scan(&n.ID, &n.Title, &n.Text, &n.Date, &n.CreatedAt, &n.CommentCount); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		list = append(list, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}
