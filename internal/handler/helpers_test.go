package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sakif/notes-news/internal/auth"
	"github.com/sakif/notes-news/internal/handler"
	"github.com/sakif/notes-news/internal/model"
	"github.com/sakif/notes-news/internal/repository/sqlite"
	"github.com/sakif/notes-news/internal/service"
	"github.com/sakif/notes-news/web"
)

const testSecret = "handler-test-secret-0123456789"

// testEnv wires real services over an in-memory database behind a router
// laid out like the production one.
type testEnv struct {
	store  *sqlite.DB
	tokens *auth.TokenService
	router chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	tokens, err := auth.NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)
	renderer, err := handler.NewTemplateRenderer(web.Templates)
	require.NoError(t, err)

	noteSvc := service.NewNoteService(store.Notes(), logger)
	newsSvc := service.NewNewsService(store.News(), store.Comments(), service.NewsServiceConfig{PerPage: 3, Logger: logger})
	commentSvc := service.NewCommentService(store.News(), store.Comments(), logger)
	authSvc := service.NewAuthService(store.Users(), tokens, auth.NewPasswordService(auth.MinCost), logger)

	notes := handler.NewNoteHandler(noteSvc, renderer, logger)
	news := handler.NewNewsHandler(newsSvc, commentSvc, renderer, logger)
	api := handler.NewAPIHandler(newsSvc, commentSvc, noteSvc, authSvc, logger)

	r := chi.NewRouter()
	r.Use(auth.OptionalAuth(tokens))
	login := auth.RequireLogin(tokens, handler.LoginURL)

	r.Route("/notes", func(r chi.Router) {
		r.Use(login)
		r.Get("/", notes.HandleList)
		r.Get("/add/", notes.HandleAddForm)
		r.Post("/add/", notes.HandleAdd)
		r.Get("/{slug}/", notes.HandleDetail)
		r.Post("/{slug}/edit/", notes.HandleEdit)
		r.Delete("/{slug}/delete/", notes.HandleDelete)
	})
	r.Get("/news/", news.HandleHome)
	r.Get("/news/{id}/", news.HandleDetail)
	r.With(login).Post("/news/{id}/", news.HandleComment)
	r.With(login).Post("/news/{id}/edit/", news.HandleEditComment)

	r.Route("/api", func(r chi.Router) {
		r.Get("/news", api.HandleListNews)
		r.Get("/news/{id}", api.HandleGetNews)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Post("/news/{id}/comments", api.HandleCreateComment)
			r.Get("/notes", api.HandleListNotes)
			r.Get("/me", api.HandleMe)
		})
	})

	return &testEnv{store: store, tokens: tokens, router: r}
}

func (e *testEnv) createUser(t *testing.T, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "hash"}
	require.NoError(t, e.store.Users().Create(context.Background(), user))
	return user
}

func (e *testEnv) createNote(t *testing.T, author *model.User, slug string) *model.Note {
	t.Helper()
	note := &model.Note{Title: "Заголовок", Text: "Текст", Slug: slug, AuthorID: author.ID}
	require.NoError(t, e.store.Notes().Create(context.Background(), note))
	return note
}

func (e *testEnv) createNews(t *testing.T, title string, date time.Time) *model.News {
	t.Helper()
	news := &model.News{Title: title, Text: "Просто текст.", Date: date}
	require.NoError(t, e.store.News().Create(context.Background(), news))
	return news
}

func (e *testEnv) createComment(t *testing.T, news *model.News, author *model.User, text string) *model.Comment {
	t.Helper()
	c := &model.Comment{NewsID: news.ID, AuthorID: author.ID, Text: text, Created: time.Now().UTC()}
	require.NoError(t, e.store.Comments().Create(context.Background(), c))
	return c
}

func (e *testEnv) countComments(t *testing.T) int {
	t.Helper()
	stats, err := e.store.Stats(context.Background())
	require.NoError(t, err)
	return stats.Comments
}

func (e *testEnv) countNotes(t *testing.T) int {
	t.Helper()
	stats, err := e.store.Stats(context.Background())
	require.NoError(t, err)
	return stats.Notes
}

// do sends req as user (nil for anonymous) and returns the recorded response.
func (e *testEnv) do(t *testing.T, req *http.Request, user *model.User) *httptest.ResponseRecorder {
	t.Helper()
	if user != nil {
		token, err := e.tokens.Generate(auth.Identity{UserID: user.ID, Username: user.Username})
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}
