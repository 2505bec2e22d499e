package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/notes-news/internal/model"
	"github.com/sakif/notes-news/internal/validator"
)

func TestAPI_ListNews(t *testing.T) {
	env := newTestEnv(t)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < 4; i++ {
		env.createNews(t, "Новость", today.AddDate(0, 0, -i))
	}

	rr := env.do(t, httptest.NewRequest(http.MethodGet, "/api/news", nil), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		News     []model.News `json:"news"`
		Page     int          `json:"page"`
		NextPage int          `json:"nextPage"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Len(t, body.News, 3)
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, 2, body.NextPage)
	for i := 1; i < len(body.News); i++ {
		assert.False(t, body.News[i].Date.After(body.News[i-1].Date), "news must be newest first")
	}

	rr = env.do(t, httptest.NewRequest(http.MethodGet, "/api/news?page=9", nil), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPI_GetNews(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "Автор")
	news := env.createNews(t, "Новость", time.Now())
	env.createComment(t, news, author, "первый")
	env.createComment(t, news, author, "второй")

	rr := env.do(t, httptest.NewRequest(http.MethodGet, "/api/news/"+news.ID, nil), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		News     model.News      `json:"news"`
		Comments []model.Comment `json:"comments"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, news.ID, body.News.ID)
	require.Len(t, body.Comments, 2)
	assert.Equal(t, "первый", body.Comments[0].Text)
	assert.Equal(t, "Автор", body.Comments[0].AuthorName)

	rr = env.do(t, httptest.NewRequest(http.MethodGet, "/api/news/missing", nil), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), `"error":"not_found"`)
}

func TestAPI_CreateComment(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "Автор")
	news := env.createNews(t, "Новость", time.Now())
	target := "/api/news/" + news.ID + "/comments"

	t.Run("anonymous gets 401", func(t *testing.T) {
		rr := env.do(t, jsonRequest(http.MethodPost, target, `{"text":"привет"}`), nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, 0, env.countComments(t))
	})

	t.Run("banned word is a validation error", func(t *testing.T) {
		rr := env.do(t, jsonRequest(http.MethodPost, target, `{"text":"Какой-то текст, Негодяй, еще текст"}`), author)
		require.Equal(t, http.StatusBadRequest, rr.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.Equal(t, "validation_error", body["error"])
		assert.Equal(t, "text", body["field"])
		assert.Equal(t, validator.CommentWarning, body["message"])
		assert.Equal(t, 0, env.countComments(t))
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := env.do(t, jsonRequest(http.MethodPost, target, `{"text":`), author)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), `"error":"invalid_request"`)
	})

	t.Run("unknown news", func(t *testing.T) {
		rr := env.do(t, jsonRequest(http.MethodPost, "/api/news/missing/comments", `{"text":"привет"}`), author)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("valid comment is created", func(t *testing.T) {
		rr := env.do(t, jsonRequest(http.MethodPost, target, `{"text":"Текст комментария"}`), author)
		require.Equal(t, http.StatusCreated, rr.Code)

		var c model.Comment
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&c))
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, author.ID, c.AuthorID)
		assert.Equal(t, news.ID, c.NewsID)
		assert.Equal(t, 1, env.countComments(t))
	})
}

func TestAPI_ListNotes(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "Автор")
	reader := env.createUser(t, "Читатель")
	env.createNote(t, author, "note-slug")

	rr := env.do(t, httptest.NewRequest(http.MethodGet, "/api/notes", nil), author)
	require.Equal(t, http.StatusOK, rr.Code)
	var notes []model.Note
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "note-slug", notes[0].Slug)

	rr = env.do(t, httptest.NewRequest(http.MethodGet, "/api/notes", nil), reader)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = env.do(t, httptest.NewRequest(http.MethodGet, "/api/notes", nil), nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAPI_Me(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Автор")

	rr := env.do(t, httptest.NewRequest(http.MethodGet, "/api/me", nil), user)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"username":"Автор"`)
	assert.NotContains(t, rr.Body.String(), "hash")
}
