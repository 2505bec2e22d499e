package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/sakif/notes-news/internal/apperror"
	"github.com/sakif/notes-news/internal/model"
	"github.com/sakif/notes-news/internal/repository"
	"github.com/sakif/notes-news/internal/validator"
)

const (
	// DefaultNewsPerPage mirrors the stock NEWS_COUNT_ON_HOME_PAGE setting.
	DefaultNewsPerPage = 10

	MaxNewsTitleLength = 250
)

// HomePage is one page of the news feed. PrevPage and NextPage are 0 when
// there is no such page.
type HomePage struct {
	News     []model.News
	Page     int
	PrevPage int
	NextPage int
}

// NewsDetail is a news item with its comments, oldest first.
type NewsDetail struct {
	News     *model.News
	Comments []model.Comment
}

type NewsService struct {
	news     repository.NewsRepository
	comments repository.CommentRepository
	perPage  int
	logger   *slog.Logger
}

// NewsServiceConfig is the optional part of NewsService wiring.
type NewsServiceConfig struct {
	PerPage int // <= 0 means DefaultNewsPerPage
	Logger  *slog.Logger
}

func NewNewsService(news repository.NewsRepository, comments repository.CommentRepository, cfg NewsServiceConfig) *NewsService {
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = DefaultNewsPerPage
	}
	return &NewsService{
		news:     news,
		comments: comments,
		perPage:  perPage,
		logger:   orDefault(cfg.Logger),
	}
}

// PerPage is the number of items on a full home page.
func (s *NewsService) PerPage() int {
	return s.perPage
}

// Home returns page (1-based) of the feed, newest date first. Page 1 is
// always valid; a later page with nothing on it is not found.
func (s *NewsService) Home(ctx context.Context, page int) (*HomePage, error) {
	if page < 1 {
		page = 1
	}
	if page > math.MaxInt/s.perPage {
		return nil, apperror.NotFound("news page", fmt.Sprint(page))
	}

	// one extra row tells us whether a next page exists
	list, err := s.news.List(ctx, repository.ListOptions{
		Limit:  s.perPage + 1,
		Offset: (page - 1) * s.perPage,
	})
	if err != nil {
		return nil, fmt.Errorf("listing news: %w", err)
	}
	if page > 1 && len(list) == 0 {
		return nil, apperror.NotFound("news page", fmt.Sprint(page))
	}

	hp := &HomePage{News: list, Page: page}
	if len(list) > s.perPage {
		hp.News = list[:s.perPage]
		hp.NextPage = page + 1
	}
	if page > 1 {
		hp.PrevPage = page - 1
	}
	return hp, nil
}

// Get returns a news item and its comments.
func (s *NewsService) Get(ctx context.Context, id string) (*NewsDetail, error) {
	news, err := s.news.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByNews(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing comments of %s: %w", id, err)
	}
	return &NewsDetail{News: news, Comments: comments}, nil
}

// Create publishes a news item. News has no author; operators add it from
// the command line. A zero date means today.
func (s *NewsService) Create(ctx context.Context, title, text string, date time.Time) (*model.News, error) {
	title = strings.TrimSpace(title)
	if msg := validator.CheckLength(title, MaxNewsTitleLength); msg != "" {
		return nil, apperror.ValidationFailed("title", msg)
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperror.ValidationFailed("text", validator.Required)
	}

	news := &model.News{Title: title, Text: text, Date: date}
	if err := s.news.Create(ctx, news); err != nil {
		return nil, fmt.Errorf("creating news: %w", err)
	}

	s.logger.Info("news created", slog.String("id", news.ID), slog.String("title", news.Title))
	return news, nil
}
