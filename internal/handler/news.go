package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/notes-news/internal/apperror"
	"github.com/sakif/notes-news/internal/service"
)

// NewsHandler serves the news feed and the comments under each item.
// Reading is public; commenting and comment changes need a login.
type NewsHandler struct {
	pages
	news     *service.NewsService
	comments *service.CommentService
}

func NewNewsHandler(news *service.NewsService, comments *service.CommentService, renderer Renderer, logger *slog.Logger) *NewsHandler {
	return &NewsHandler{
		pages:    pages{renderer: renderer, logger: logger},
		news:     news,
		comments: comments,
	}
}

// CommentsURL is the detail page of a news item scrolled to its comments.
func CommentsURL(newsID string) string {
	return fmt.Sprintf("/news/%s/#comments", newsID)
}

// HandleHome renders one page of the feed.
//
// HTTP: GET /news/?page=N
func (h *NewsHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	home, err := h.news.Home(r.Context(), page)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	data := h.view(r, "Новости")
	data.Home = home
	h.render(w, r, http.StatusOK, PageNewsHome, data)
}

// HandleDetail renders a news item, its comments, and for logged-in
// visitors the comment form.
//
// HTTP: GET /news/{id}/
func (h *NewsHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	h.renderDetail(w, r, NewForm(nil))
}

// HandleComment adds the caller's comment. Rejected text re-renders the
// detail page with the error and stores nothing.
//
// HTTP: POST /news/{id}/
func (h *NewsHandler) HandleComment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest)
		return
	}
	form := NewForm(r.PostForm)
	newsID := chi.URLParam(r, "id")

	if _, err := h.comments.Create(r.Context(), callerID(r), newsID, form.Get("text")); err != nil {
		if form.AddError(err) {
			h.renderDetail(w, r, form)
			return
		}
		h.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, CommentsURL(newsID), http.StatusFound)
}

// HandleEditCommentForm renders the edit form of the caller's comment.
//
// HTTP: GET /news/{id}/edit/  (id is the comment id)
func (h *NewsHandler) HandleEditCommentForm(w http.ResponseWriter, r *http.Request) {
	comment, err := h.comments.Get(r.Context(), callerID(r), chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	form := NewForm(nil)
	form.Set("text", comment.Text)

	data := h.view(r, "Редактировать комментарий")
	data.Form = form
	data.Comment = comment
	h.render(w, r, http.StatusOK, PageCommentForm, data)
}

// HandleEditComment saves the caller's comment.
//
// HTTP: POST /news/{id}/edit/
func (h *NewsHandler) HandleEditComment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest)
		return
	}
	form := NewForm(r.PostForm)
	commentID := chi.URLParam(r, "id")

	comment, err := h.comments.Update(r.Context(), callerID(r), commentID, form.Get("text"))
	if err != nil {
		if !form.AddError(err) {
			h.renderError(w, r, err)
			return
		}
		// the form needs the comment for its cancel link
		current, getErr := h.comments.Get(r.Context(), callerID(r), commentID)
		if getErr != nil {
			h.renderError(w, r, getErr)
			return
		}
		data := h.view(r, "Редактировать комментарий")
		data.Form = form
		data.Comment = current
		h.render(w, r, http.StatusOK, PageCommentForm, data)
		return
	}
	http.Redirect(w, r, CommentsURL(comment.NewsID), http.StatusFound)
}

// HandleDeleteCommentConfirm asks before deleting.
//
// HTTP: GET /news/{id}/delete/
func (h *NewsHandler) HandleDeleteCommentConfirm(w http.ResponseWriter, r *http.Request) {
	comment, err := h.comments.Get(r.Context(), callerID(r), chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	data := h.view(r, "Удалить комментарий")
	data.Comment = comment
	h.render(w, r, http.StatusOK, PageCommentDelete, data)
}

// HandleDeleteComment removes the caller's comment.
//
// HTTP: POST /news/{id}/delete/ and DELETE /news/{id}/delete/
func (h *NewsHandler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	newsID, err := h.comments.Delete(r.Context(), callerID(r), chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, CommentsURL(newsID), http.StatusFound)
}

func (h *NewsHandler) renderDetail(w http.ResponseWriter, r *http.Request, form *Form) {
	detail, err := h.news.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	data := h.view(r, detail.News.Title)
	data.Detail = detail
	data.Form = form
	h.render(w, r, http.StatusOK, PageNewsDetail, data)
}

// pageParam reads ?page. Absent means 1; anything that is not a positive
// integer is a missing page.
func pageParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, apperror.NotFound("news page", raw)
	}
	return page, nil
}
