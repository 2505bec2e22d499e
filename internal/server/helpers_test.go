package server_test

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

	"github.com/stretchr/testify/require"

	"github.com/sakif/notes-news/internal/auth"
	"github.com/sakif/notes-news/internal/config"
	"github.com/sakif/notes-news/internal/model"
	"github.com/sakif/notes-news/internal/repository"
	"github.com/sakif/notes-news/internal/server"
)

func testConfig() *config.Config {
	return &config.Config{
		Env: "test",
		HTTP: config.HTTPConfig{
			Host:            "127.0.0.1",
			Port:            "0",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			IdleTimeout:     5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"},
		Auth: config.AuthConfig{
			JWTSecret:  "server-test-secret-0123456789",
			SessionTTL: time.Hour,
			BcryptCost: auth.MinCost,
			LoginRate:  100,
			LoginBurst: 100,
		},
		News: config.NewsConfig{CountOnHomePage: 10},
	}
}

type testApp struct {
	srv    *server.Server
	store  repository.Store
	tokens *auth.TokenService
}

func newTestApp(t *testing.T, cfg *config.Config) *testApp {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv, err := server.New(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	require.NoError(t, err)

	return &testApp{srv: srv, store: srv.Store(), tokens: tokens}
}

// client is a logged-in (or anonymous, when user is nil) visitor.
type client struct {
	app  *testApp
	user *model.User
}

func (a *testApp) anonymous() *client { return &client{app: a} }

func (a *testApp) loggedIn(t *testing.T, username string) *client {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "unused"}
	require.NoError(t, a.store.Users().Create(context.Background(), user))
	return &client{app: a, user: user}
}

func (c *client) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	if c.user != nil {
		token, err := c.app.tokens.Generate(auth.Identity{UserID: c.user.ID, Username: c.user.Username})
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	rr := httptest.NewRecorder()
	c.app.srv.Handler().ServeHTTP(rr, req)
	return rr
}

func (c *client) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	return c.do(t, httptest.NewRequest(http.MethodGet, target, nil))
}

func (c *client) post(t *testing.T, target string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(t, req)
}

func (c *client) delete(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	return c.do(t, httptest.NewRequest(http.MethodDelete, target, nil))
}

func (a *testApp) stats(t *testing.T) model.Stats {
	t.Helper()
	stats, err := a.store.Stats(context.Background())
	require.NoError(t, err)
	return stats
}

func (a *testApp) createNote(t *testing.T, author *model.User, slug string) *model.Note {
	t.Helper()
	note := &model.Note{Title: "Заголовок", Text: "Текст", Slug: slug, AuthorID: author.ID}
	require.NoError(t, a.store.Notes().Create(context.Background(), note))
	return note
}

func (a *testApp) createNews(t *testing.T, title string, date time.Time) *model.News {
	t.Helper()
	news := &model.News{Title: title, Text: "Просто текст.", Date: date}
	require.NoError(t, a.store.News().Create(context.Background(), news))
	return news
}

func (a *testApp) createComment(t *testing.T, news *model.News, author *model.User, text string, created time.Time) *model.Comment {
	t.Helper()
	c := &model.Comment{NewsID: news.ID, AuthorID: author.ID, Text: text, Created: created}
	require.NoError(t, a.store.Comments().Create(context.Background(), c))
	return c
}

func loginRedirect(target string) string {
	return auth.LoginRedirectURL("/auth/login/", target)
}
