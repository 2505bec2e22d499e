package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/notes-news/internal/apperror"
	"github.com/sakif/notes-news/internal/model"
	"github.com/sakif/notes-news/internal/repository"
	"github.com/sakif/notes-news/internal/validator"
)

// NoteInput is the note form. An empty Slug is derived from Title.
type NoteInput struct {
	Title string
	Text  string
	Slug  string
}

// NoteService manages personal notes. Every method takes the caller's user
// id and only ever touches that user's notes.
type NoteService struct {
	notes  repository.NoteRepository
	logger *slog.Logger
}

func NewNoteService(notes repository.NoteRepository, logger *slog.Logger) *NoteService {
	return &NoteService{notes: notes, logger: orDefault(logger)}
}

// List returns the caller's notes, oldest first.
func (s *NoteService) List(ctx context.Context, userID string) ([]model.Note, error) {
	notes, err := s.notes.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	return notes, nil
}

// Get returns the note at slug if the caller wrote it.
func (s *NoteService) Get(ctx context.Context, userID, slug string) (*model.Note, error) {
	note, err := s.notes.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := checkAuthor("note", slug, note.AuthorID, userID); err != nil {
		return nil, err
	}
	return note, nil
}

// Create validates in and stores a new note owned by the caller.
func (s *NoteService) Create(ctx context.Context, userID string, in NoteInput) (*model.Note, error) {
	if err := s.clean(ctx, &in, ""); err != nil {
		return nil, err
	}

	note := &model.Note{
		Title:    in.Title,
		Text:     in.Text,
		Slug:     in.Slug,
		AuthorID: userID,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, s.mapSlugConflict(err, in.Slug, "creating note")
	}

	s.logger.Info("note created",
		slog.String("id", note.ID),
		slog.String("slug", note.Slug),
		slog.String("author", userID),
	)
	return note, nil
}

// Update rewrites the caller's note at slug. The note may keep its own slug.
func (s *NoteService) Update(ctx context.Context, userID, slug string, in NoteInput) (*model.Note, error) {
	note, err := s.Get(ctx, userID, slug)
	if err != nil {
		return nil, err
	}
	if err := s.clean(ctx, &in, note.ID); err != nil {
		return nil, err
	}

	note.Title = in.Title
	note.Text = in.Text
	note.Slug = in.Slug
	if err := s.notes.Update(ctx, note); err != nil {
		return nil, s.mapSlugConflict(err, in.Slug, "updating note")
	}

	s.logger.Info("note updated", slog.String("id", note.ID), slog.String("slug", note.Slug))
	return note, nil
}

// Delete removes the caller's note at slug.
func (s *NoteService) Delete(ctx context.Context, userID, slug string) error {
	note, err := s.Get(ctx, userID, slug)
	if err != nil {
		return err
	}
	if err := s.notes.Delete(ctx, note.ID); err != nil {
		return fmt.Errorf("deleting note %s: %w", note.ID, err)
	}

	s.logger.Info("note deleted", slog.String("id", note.ID), slog.String("slug", slug))
	return nil
}

// clean trims and validates in, fills in a derived slug, and checks that
// no other note (excludeID aside) holds the slug.
func (s *NoteService) clean(ctx context.Context, in *NoteInput, excludeID string) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)

	if msg := validator.CheckLength(in.Title, validator.MaxTitleLength); msg != "" {
		return apperror.ValidationFailed("title", msg)
	}
	if strings.TrimSpace(in.Text) == "" {
		return apperror.ValidationFailed("text", validator.Required)
	}

	if in.Slug == "" {
		in.Slug = validator.Slugify(in.Title)
	}
	if msg := validator.CheckSlug(in.Slug); msg != "" {
		return apperror.ValidationFailed("slug", msg)
	}

	taken, err := s.notes.SlugTaken(ctx, in.Slug, excludeID)
	if err != nil {
		return fmt.Errorf("checking slug: %w", err)
	}
	if taken {
		return apperror.ValidationFailed("slug", validator.Taken(in.Slug))
	}
	return nil
}

// mapSlugConflict reports a UNIQUE violation that raced past clean with the
// same field error clean would have produced.
func (s *NoteService) mapSlugConflict(err error, slug, op string) error {
	if errors.Is(err, apperror.ErrConflict) {
		return apperror.ValidationFailed("slug", validator.Taken(slug))
	}
	s.logger.Error("note write failed", slog.String("slug", slug), slog.String("error", err.Error()))
	return fmt.Errorf("%s: %w", op, err)
}
