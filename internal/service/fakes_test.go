package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/sakif/notes-news/internal/apperror"
	"github.com/sakif/notes-news/internal/model"
	"github.com/sakif/notes-news/internal/repository"
)

// In-memory fakes of the repository interfaces. Each returns copies so a
// test cannot change stored state through a returned pointer. Setting one
// of the *Err fields simulates a database failure.

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[string]*model.User
	nextID    int
	createErr error
	getErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.users {
		if u.Username == user.Username {
			return apperror.Conflict("user", user.Username)
		}
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	out := *u
	return &out, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (f *fakeUserRepo) UpsertGitHub(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	for _, u := range f.users {
		if u.GitHubID != nil && *u.GitHubID == *user.GitHubID {
			*user = *u
			f.mu.Unlock()
			return nil
		}
	}
	f.mu.Unlock()
	return f.Create(ctx, user)
}

type fakeNoteRepo struct {
	mu        sync.Mutex
	notes     []*model.Note
	nextID    int
	createErr error
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{}
}

func (f *fakeNoteRepo) Create(_ context.Context, note *model.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, n := range f.notes {
		if n.Slug == note.Slug {
			return apperror.Conflict("note", note.Slug)
		}
	}
	f.nextID++
	note.ID = fmt.Sprintf("note-%d", f.nextID)
	stored := *note
	f.notes = append(f.notes, &stored)
	return nil
}

func (f *fakeNoteRepo) GetBySlug(_ context.Context, slug string) (*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notes {
		if n.Slug == slug {
			out := *n
			return &out, nil
		}
	}
	return nil, apperror.NotFound("note", slug)
}

func (f *fakeNoteRepo) ListByAuthor(_ context.Context, authorID string) ([]model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Note{}
	for _, n := range f.notes {
		if n.AuthorID == authorID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNoteRepo) Update(_ context.Context, note *model.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notes {
		if n.ID == note.ID {
			*n = *note
			return nil
		}
	}
	return apperror.NotFound("note", note.ID)
}

func (f *fakeNoteRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.notes {
		if n.ID == id {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("note", id)
}

func (f *fakeNoteRepo) SlugTaken(_ context.Context, slug, excludeID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notes {
		if n.Slug == slug && n.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNoteRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.notes)
}

type fakeNewsRepo struct {
	mu     sync.Mutex
	items  map[string]*model.News
	nextID int
}

func newFakeNewsRepo() *fakeNewsRepo {
	return &fakeNewsRepo{items: make(map[string]*model.News)}
}

func (f *fakeNewsRepo) Create(_ context.Context, news *model.News) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	news.ID = fmt.Sprintf("news-%d", f.nextID)
	if news.Date.IsZero() {
		news.Date = time.Now()
	}
	stored := *news
	f.items[news.ID] = &stored
	return nil
}

func (f *fakeNewsRepo) GetByID(_ context.Context, id string) (*model.News, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.items[id]
	if !ok {
		return nil, apperror.NotFound("news", id)
	}
	out := *n
	return &out, nil
}

func (f *fakeNewsRepo) List(_ context.Context, opts repository.ListOptions) ([]model.News, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]model.News, 0, len(f.items))
	for _, n := range f.items {
		all = append(all, *n)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })

	if opts.Offset >= len(all) {
		return []model.News{}, nil
	}
	all = all[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(all) {
		all = all[:opts.Limit]
	}
	return all, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[string]*model.Comment
	nextID   int
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*model.Comment)}
}

func (f *fakeCommentRepo) Create(_ context.Context, c *model.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c.ID = fmt.Sprintf("comment-%d", f.nextID)
	stored := *c
	f.comments[c.ID] = &stored
	return nil
}

func (f *fakeCommentRepo) GetByID(_ context.Context, id string) (*model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return nil, apperror.NotFound("comment", id)
	}
	out := *c
	return &out, nil
}

func (f *fakeCommentRepo) ListByNews(_ context.Context, newsID string) ([]model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Comment{}
	for _, c := range f.comments {
		if c.NewsID == newsID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.Before(out[j].Created) })
	return out, nil
}

func (f *fakeCommentRepo) Update(_ context.Context, c *model.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.comments[c.ID]
	if !ok {
		return apperror.NotFound("comment", c.ID)
	}
	stored.Text = c.Text
	return nil
}

func (f *fakeCommentRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[id]; !ok {
		return apperror.NotFound("comment", id)
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeCommentRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.comments)
}
