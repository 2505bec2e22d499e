package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/notes-news/internal/apperror"
	"github.com/sakif/notes-news/internal/auth"
)

// errorStatus maps a domain error to an HTTP status and a machine-readable
// kind. ErrForbidden deliberately shares ErrNotFound's 404.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case apperror.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// pages is embedded by every HTML handler.
type pages struct {
	renderer Renderer
	logger   *slog.Logger
}

// view starts the ViewData of a page with the caller filled in.
func (p *pages) view(r *http.Request, title string) *ViewData {
	data := &ViewData{Title: title}
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		data.User = &id
	}
	return data
}

// render executes the page into a buffer first, so a template failure still
// produces a clean 500 instead of half a page.
func (p *pages) render(w http.ResponseWriter, r *http.Request, status int, page string, data *ViewData) {
	var buf bytes.Buffer
	if err := p.renderer.Render(&buf, page, data); err != nil {
		p.logger.Error("rendering page",
			slog.String("page", page),
			slog.String("requestID", middleware.GetReqID(r.Context())),
			slog.String("error", err.Error()),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// renderError shows the error page for err. Missing and foreign records
// both become the same 404; anything unexpected is logged and becomes 500.
func (p *pages) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, _ := errorStatus(err)
	if status == http.StatusInternalServerError {
		p.logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("requestID", middleware.GetReqID(r.Context())),
			slog.String("error", err.Error()),
		)
	}
	p.renderStatus(w, r, status)
}

func (p *pages) renderStatus(w http.ResponseWriter, r *http.Request, status int) {
	data := p.view(r, http.StatusText(status))
	data.Status = status
	data.Message = statusMessage(status)
	p.render(w, r, status, PageError, data)
}

// NotFound is the router's 404 page.
func (p *pages) NotFound(w http.ResponseWriter, r *http.Request) {
	p.renderStatus(w, r, http.StatusNotFound)
}

func statusMessage(status int) string {
	switch status {
	case http.StatusNotFound:
		return "Страница не найдена."
	case http.StatusBadRequest:
		return "Некорректный запрос."
	case http.StatusMethodNotAllowed:
		return "Метод не поддерживается."
	default:
		return "Что-то пошло не так. Попробуйте позже."
	}
}

// callerID is the authenticated user; routes that call it sit behind
// RequireLogin, so an empty result only happens on miswired routes.
func callerID(r *http.Request) string {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}
