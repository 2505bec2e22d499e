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

var _ repository.NewsRepository = (*NewsStore)(nil)

type NewsStore struct {
	conn *sql.DB
}

// The comment count is a correlated subquery so the whole page is one query.
const newsSelect = `
	SELECT n.id, n.title, n.text, n.date, n.created_at,
		(SELECT COUNT(*) FROM comments c WHERE c.news_id = n.id)
	FROM news n`

// Create inserts a news item. A zero Date defaults to today (UTC).
func (s *NewsStore) Create(ctx context.Context, news *model.News) error {
	now := time.Now().UTC()
	news.ID = xid.New().String()
	if news.CreatedAt.IsZero() {
		news.CreatedAt = now
	}
	if news.Date.IsZero() {
		news.Date = now
	}
	news.Date = truncateDay(news.Date)

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO news (id, title, text, date, created_at) VALUES (?, ?, ?, ?, ?)`,
		news.ID, news.Title, news.Text, news.Date, news.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting news %q: %w", news.Title, err)
	}
	return nil
}

func (s *NewsStore) GetByID(ctx context.Context, id string) (*model.News, error) {
	row := s.conn.QueryRowContext(ctx, newsSelect+` WHERE n.id = ?`, id)
	n, err := scanNews(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("news", id)
		}
		return nil, fmt.Errorf("sqlite: getting news %s: %w", id, err)
	}
	return n, nil
}

// List returns one page of news, newest date first. Limit 0 means no limit.
func (s *NewsStore) List(ctx context.Context, opts repository.ListOptions) ([]model.News, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.conn.QueryContext(ctx,
		newsSelect+` ORDER BY n.date DESC, n.created_at DESC, n.id DESC LIMIT ? OFFSET ?`,
		limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing news: %w", err)
	}
	defer rows.Close()

	list := []model.News{}
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning news row: %w", err)
		}
		list = append(list, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating news rows: %w", err)
	}
	return list, nil
}

func scanNews(row scanner) (*model.News, error) {
	var n model.News
	if err := row.Scan(&n.ID, &n.Title, &n.Text, &n.Date, &n.CreatedAt, &n.CommentCount); err != nil {
		return nil, err
	}
	return &n, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
