package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/notes-news/internal/apperror"
	"github.com/sakif/notes-news/internal/model"
	"github.com/sakif/notes-news/internal/repository"
	"github.com/sakif/notes-news/internal/validator"
)

// CommentService lets authenticated users comment on news and change or
// remove their own comments.
type CommentService struct {
	news     repository.NewsRepository
	comments repository.CommentRepository
	logger   *slog.Logger
	now      clock
}

func NewCommentService(news repository.NewsRepository, comments repository.CommentRepository, logger *slog.Logger) *CommentService {
	return &CommentService{
		news:     news,
		comments: comments,
		logger:   orDefault(logger),
		now:      time.Now,
	}
}

// Create adds the caller's comment to a news item.
func (s *CommentService) Create(ctx context.Context, userID, newsID, text string) (*model.Comment, error) {
	if _, err := s.news.GetByID(ctx, newsID); err != nil {
		return nil, err
	}
	if err := checkText(text); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		NewsID:   newsID,
		AuthorID: userID,
		Text:     text,
		Created:  s.now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	s.logger.Info("comment created",
		slog.String("id", comment.ID),
		slog.String("news", newsID),
		slog.String("author", userID),
	)
	return comment, nil
}

// Get returns a comment if the caller wrote it.
func (s *CommentService) Get(ctx context.Context, userID, commentID string) (*model.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := checkAuthor("comment", commentID, comment.AuthorID, userID); err != nil {
		return nil, err
	}
	return comment, nil
}

// Update replaces the text of the caller's comment.
func (s *CommentService) Update(ctx context.Context, userID, commentID, text string) (*model.Comment, error) {
	comment, err := s.Get(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}
	if err := checkText(text); err != nil {
		return nil, err
	}

	comment.Text = text
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("updating comment %s: %w", commentID, err)
	}

	s.logger.Info("comment updated", slog.String("id", commentID))
	return comment, nil
}

// Delete removes the caller's comment and returns the news item it was on.
func (s *CommentService) Delete(ctx context.Context, userID, commentID string) (string, error) {
	comment, err := s.Get(ctx, userID, commentID)
	if err != nil {
		return "", err
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		return "", fmt.Errorf("deleting comment %s: %w", commentID, err)
	}

	s.logger.Info("comment deleted", slog.String("id", commentID), slog.String("news", comment.NewsID))
	return comment.NewsID, nil
}

func checkText(text string) error {
	if strings.TrimSpace(text) == "" {
		return apperror.ValidationFailed("text", validator.Required)
	}
	if validator.ContainsBanned(text) {
		return apperror.ValidationFailed("text", validator.CommentWarning)
	}
	return nil
}
