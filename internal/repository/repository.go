// Package repository declares the storage contracts the service layer
// depends on. Implementations live in the sqlite and postgres subpackages.
//
// Every lookup returns an *apperror.AppError wrapping apperror.ErrNotFound
// when the row does not exist, and every write that would break a UNIQUE
// constraint returns one wrapping apperror.ErrConflict.
package repository

import (
	"context"

	"github.com/sakif/notes-news/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// UpsertGitHub inserts or refreshes the user identified by user.GitHubID
	// and fills in user.ID.
	UpsertGitHub(ctx context.Context, user *model.User) error
}

type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	GetBySlug(ctx context.Context, slug string) (*model.Note, error)
	ListByAuthor(ctx context.Context, authorID string) ([]model.Note, error)
	Update(ctx context.Context, note *model.Note) error
	Delete(ctx context.Context, id string) error
	// SlugTaken reports whether any note other than excludeID uses slug.
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
}

type NewsRepository interface {
	Create(ctx context.Context, news *model.News) error
	GetByID(ctx context.Context, id string) (*model.News, error)
	// List returns news ordered by date, newest first, with CommentCount set.
	List(ctx context.Context, opts ListOptions) ([]model.News, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	// ListByNews returns the comments of one news item, oldest first.
	ListByNews(ctx context.Context, newsID string) ([]model.Comment, error)
	Update(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, id string) error
}

// Store bundles the repositories of one database. Both backends implement it.
type Store interface {
	Users() UserRepository
	Notes() NoteRepository
	News() NewsRepository
	Comments() CommentRepository
	Stats(ctx context.Context) (model.Stats, error)
	Close() error
}
