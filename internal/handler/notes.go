package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/notes-news/internal/service"
)

// DoneURL is where every successful note change lands.
const DoneURL = "/notes/done/"

// NoteHandler serves the notes app. Every route sits behind RequireLogin and
// every lookup is scoped to the caller by NoteService.
type NoteHandler struct {
	pages
	notes *service.NoteService
}

func NewNoteHandler(notes *service.NoteService, renderer Renderer, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{
		pages: pages{renderer: renderer, logger: logger},
		notes: notes,
	}
}

// HandleList renders the caller's notes.
//
// HTTP: GET /notes/
func (h *NoteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.List(r.Context(), callerID(r))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	data := h.view(r, "Мои заметки")
	data.Notes = notes
	h.render(w, r, http.StatusOK, PageNotesList, data)
}

// HandleAddForm renders an empty note form.
//
// HTTP: GET /notes/add/
func (h *NoteHandler) HandleAddForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "Добавить заметку", NewForm(nil))
}

// HandleAdd creates a note. A validation failure re-renders the form with
// the submitted values and nothing is stored.
//
// HTTP: POST /notes/add/
func (h *NoteHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest)
		return
	}
	form := NewForm(r.PostForm)

	if _, err := h.notes.Create(r.Context(), callerID(r), noteInput(form)); err != nil {
		if form.AddError(err) {
			h.renderForm(w, r, "Добавить заметку", form)
			return
		}
		h.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, DoneURL, http.StatusFound)
}

// HandleDone renders the success page.
//
// HTTP: GET /notes/done/
func (h *NoteHandler) HandleDone(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, PageNoteDone, h.view(r, "Успешно!"))
}

// HandleDetail renders one of the caller's notes.
//
// HTTP: GET /notes/{slug}/
func (h *NoteHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	note, err := h.notes.Get(r.Context(), callerID(r), chi.URLParam(r, "slug"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	data := h.view(r, note.Title)
	data.Note = note
	h.render(w, r, http.StatusOK, PageNoteDetail, data)
}

// HandleEditForm renders the form pre-filled with the note.
//
// HTTP: GET /notes/{slug}/edit/
func (h *NoteHandler) HandleEditForm(w http.ResponseWriter, r *http.Request) {
	note, err := h.notes.Get(r.Context(), callerID(r), chi.URLParam(r, "slug"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	form := NewForm(nil)
	form.Set("title", note.Title)
	form.Set("text", note.Text)
	form.Set("slug", note.Slug)
	h.renderForm(w, r, "Редактировать заметку", form)
}

// HandleEdit saves changes to a note.
//
// HTTP: POST /notes/{slug}/edit/
func (h *NoteHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest)
		return
	}
	form := NewForm(r.PostForm)

	_, err := h.notes.Update(r.Context(), callerID(r), chi.URLParam(r, "slug"), noteInput(form))
	if err != nil {
		if form.AddError(err) {
			h.renderForm(w, r, "Редактировать заметку", form)
			return
		}
		h.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, DoneURL, http.StatusFound)
}

// HandleDeleteConfirm asks before deleting.
//
// HTTP: GET /notes/{slug}/delete/
func (h *NoteHandler) HandleDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	note, err := h.notes.Get(r.Context(), callerID(r), chi.URLParam(r, "slug"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	data := h.view(r, "Удалить заметку")
	data.Note = note
	h.render(w, r, http.StatusOK, PageNoteDelete, data)
}

// HandleDelete removes a note.
//
// HTTP: POST /notes/{slug}/delete/ and DELETE /notes/{slug}/delete/
func (h *NoteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.notes.Delete(r.Context(), callerID(r), chi.URLParam(r, "slug")); err != nil {
		h.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, DoneURL, http.StatusFound)
}

func (h *NoteHandler) renderForm(w http.ResponseWriter, r *http.Request, title string, form *Form) {
	data := h.view(r, title)
	data.Form = form
	h.render(w, r, http.StatusOK, PageNoteForm, data)
}

func noteInput(form *Form) service.NoteInput {
	return service.NoteInput{
		Title: value(form.Values, "title"),
		Text:  form.Get("text"),
		Slug:  value(form.Values, "slug"),
	}
}
