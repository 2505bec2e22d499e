package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/sakif/notes-news/internal/apperror"
	"github.com/sakif/notes-news/internal/model"
	"github.com/sakif/notes-news/internal/service"
)

// APIHandler serves the JSON API under /api. Payloads go through
// go-chi/render; errors share one shape:
//
//	{"error": "validation_error", "message": "Не ругайтесь!", "field": "text"}
type APIHandler struct {
	news     *service.NewsService
	comments *service.CommentService
	notes    *service.NoteService
	auth     *service.AuthService
	logger   *slog.Logger
}

func NewAPIHandler(
	news *service.NewsService,
	comments *service.CommentService,
	notes *service.NoteService,
	authService *service.AuthService,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		news:     news,
		comments: comments,
		notes:    notes,
		auth:     authService,
		logger:   logger,
	}
}

// ErrResponse is the body of every API error.
type ErrResponse struct {
	HTTPStatusCode int `json:"-"`

	Kind    string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

// ErrFromDomain maps a service error onto an ErrResponse. Internal details
// never reach the client.
func ErrFromDomain(err error) *ErrResponse {
	status, kind := errorStatus(err)
	resp := &ErrResponse{HTTPStatusCode: status, Kind: kind}

	var appErr *apperror.AppError
	if status != http.StatusInternalServerError && errors.As(err, &appErr) {
		resp.Message = appErr.Message
		resp.Field = appErr.Field
		return resp
	}
	resp.Message = "An internal error occurred"
	return resp
}

// ErrInvalidRequest is a body that could not be decoded.
func ErrInvalidRequest(err error) *ErrResponse {
	return &ErrResponse{
		HTTPStatusCode: http.StatusBadRequest,
		Kind:           "invalid_request",
		Message:        err.Error(),
	}
}

// CommentRequest is the body of POST /api/news/{id}/comments.
type CommentRequest struct {
	Text string `json:"text"`
}

func (c *CommentRequest) Bind(r *http.Request) error {
	return nil
}

// HomeResponse is one page of the feed.
type HomeResponse struct {
	News     []model.News `json:"news"`
	Page     int          `json:"page"`
	PrevPage int          `json:"prevPage,omitempty"`
	NextPage int          `json:"nextPage,omitempty"`
}

func (h *HomeResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if h.News == nil {
		h.News = []model.News{}
	}
	return nil
}

// NewsDetailResponse is a news item with its comments, oldest first.
type NewsDetailResponse struct {
	News     *model.News     `json:"news"`
	Comments []model.Comment `json:"comments"`
}

func (n *NewsDetailResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if n.Comments == nil {
		n.Comments = []model.Comment{}
	}
	return nil
}

// CommentResponse wraps a stored comment.
type CommentResponse struct {
	*model.Comment
}

func (c *CommentResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// HandleListNews returns one page of the feed.
//
// HTTP: GET /api/news?page=N
func (h *APIHandler) HandleListNews(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	home, err := h.news.Home(r.Context(), page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, &HomeResponse{
		News:     home.News,
		Page:     home.Page,
		PrevPage: home.PrevPage,
		NextPage: home.NextPage,
	})
}

// HandleGetNews returns a news item and its comments.
//
// HTTP: GET /api/news/{id}
func (h *APIHandler) HandleGetNews(w http.ResponseWriter, r *http.Request) {
	detail, err := h.news.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, &NewsDetailResponse{News: detail.News, Comments: detail.Comments})
}

// HandleCreateComment adds the caller's comment to a news item.
//
// HTTP: POST /api/news/{id}/comments
// Auth: required
func (h *APIHandler) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
	data := &CommentRequest{}
	if err := render.Bind(r, data); err != nil {
		h.respond(w, r, ErrInvalidRequest(err))
		return
	}

	comment, err := h.comments.Create(r.Context(), callerID(r), chi.URLParam(r, "id"), data.Text)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	h.respond(w, r, &CommentResponse{Comment: comment})
}

// HandleListNotes returns the caller's notes.
//
// HTTP: GET /api/notes
// Auth: required
func (h *APIHandler) HandleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.List(r.Context(), callerID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if notes == nil {
		notes = []model.Note{}
	}
	render.JSON(w, r, notes)
}

// HandleMe returns the caller's profile.
//
// HTTP: GET /api/me
// Auth: required
func (h *APIHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.GetUserByID(r.Context(), callerID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, user)
}

func (h *APIHandler) respond(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		h.logger.Error("rendering API response", slog.String("error", err.Error()))
	}
}

// fail logs unexpected errors with the request id and renders err.
func (h *APIHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	resp := ErrFromDomain(err)
	if resp.HTTPStatusCode == http.StatusInternalServerError {
		h.logger.Error("API request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("requestID", middleware.GetReqID(r.Context())),
			slog.String("error", err.Error()),
		)
	}
	h.respond(w, r, resp)
}
