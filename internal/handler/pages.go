// Package handler turns HTTP requests into service calls and service
// results into HTML pages or JSON. It never talks to the database.
package handler

import (
	"log/slog"
	"net/http"
)

// PageHandler serves the pages that belong to neither app.
type PageHandler struct {
	pages
}

func NewPageHandler(renderer Renderer, logger *slog.Logger) *PageHandler {
	return &PageHandler{pages: pages{renderer: renderer, logger: logger}}
}

// HandleIndex renders the landing page.
//
// HTTP: GET /
func (h *PageHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, PageIndex, h.view(r, ""))
}

// HandleNotFound is mounted as the router's NotFound handler.
func (h *PageHandler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	h.NotFound(w, r)
}

// HandleMethodNotAllowed is mounted as the router's MethodNotAllowed handler.
func (h *PageHandler) HandleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.renderStatus(w, r, http.StatusMethodNotAllowed)
}
