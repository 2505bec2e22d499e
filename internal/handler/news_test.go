package handler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/notes-news/internal/handler"
	"github.com/sakif/notes-news/internal/validator"
)

func TestNewsHandler_Home(t *testing.T) {
	env := newTestEnv(t)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < 4; i++ {
		env.createNews(t, "Новость", today.AddDate(0, 0, -i))
	}

	rr := env.do(t, httptest.NewRequest(http.MethodGet, "/news/", nil), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/news/?page=2")

	for _, page := range []string{"abc", "0", "5"} {
		rr = env.do(t, httptest.NewRequest(http.MethodGet, "/news/?page="+page, nil), nil)
		assert.Equal(t, http.StatusNotFound, rr.Code, "page=%s", page)
	}
}

func TestNewsHandler_Comment(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "Автор")
	news := env.createNews(t, "Новость", time.Now())
	detail := "/news/" + news.ID + "/"

	t.Run("anonymous is redirected", func(t *testing.T) {
		rr := env.do(t, formRequest(http.MethodPost, detail, url.Values{"text": {"Текст"}}), nil)
		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/auth/login/?next="+detail, rr.Header().Get("Location"))
		assert.Equal(t, 0, env.countComments(t))
	})

	t.Run("bad words re-render the page", func(t *testing.T) {
		for _, word := range validator.BadWords {
			rr := env.do(t, formRequest(http.MethodPost, detail, url.Values{"text": {"Какой-то текст, " + word + ", еще текст"}}), author)
			require.Equal(t, http.StatusOK, rr.Code)
			assert.Contains(t, rr.Body.String(), validator.CommentWarning)
		}
		assert.Equal(t, 0, env.countComments(t))
	})

	t.Run("valid comment redirects to the comments anchor", func(t *testing.T) {
		rr := env.do(t, formRequest(http.MethodPost, detail, url.Values{"text": {"Текст комментария"}}), author)
		require.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, handler.CommentsURL(news.ID), rr.Header().Get("Location"))
		assert.Equal(t, 1, env.countComments(t))
	})
}

func TestNewsHandler_EditCommentByOtherUser(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "Автор")
	reader := env.createUser(t, "Читатель")
	news := env.createNews(t, "Новость", time.Now())
	comment := env.createComment(t, news, author, "Текст комментария")

	rr := env.do(t, formRequest(http.MethodPost, "/news/"+comment.ID+"/edit/", url.Values{"text": {"Обновлённый"}}), reader)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, formRequest(http.MethodPost, "/news/"+comment.ID+"/edit/", url.Values{"text": {"Обновлённый"}}), author)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, handler.CommentsURL(news.ID), rr.Header().Get("Location"))
}
