package handler

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"
	"unicode/utf8"
)

// Page names, one per templates/<name>.html.
const (
	PageIndex         = "index"
	PageError         = "error"
	PageNotesList     = "notes_list"
	PageNoteForm      = "note_form"
	PageNoteDetail    = "note_detail"
	PageNoteDelete    = "note_delete"
	PageNoteDone      = "note_done"
	PageNewsHome      = "news_home"
	PageNewsDetail    = "news_detail"
	PageCommentForm   = "comment_form"
	PageCommentDelete = "comment_delete"
	PageLogin         = "login"
	PageLogout        = "logout"
	PageSignup        = "signup"
)

const layoutFile = "base.html"

// Renderer writes a named page. Handlers depend on this rather than on
// html/template so tests can swap in a recording renderer.
type Renderer interface {
	Render(w io.Writer, page string, data *ViewData) error
}

// TemplateRenderer renders pages parsed once from an fs.FS laid out as
// templates/base.html plus one templates/<page>.html per page.
type TemplateRenderer struct {
	pages map[string]*template.Template
}

var _ Renderer = (*TemplateRenderer)(nil)

// NewTemplateRenderer parses every page together with the layout. Each page
// gets its own template set because every page defines "content".
func NewTemplateRenderer(fsys fs.FS) (*TemplateRenderer, error) {
	files, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("handler: listing templates: %w", err)
	}

	layout := path.Join("templates", layoutFile)
	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if path.Base(file) == layoutFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".html")
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(fsys, layout, file)
		if err != nil {
			return nil, fmt.Errorf("handler: parsing %s: %w", file, err)
		}
		pages[name] = tmpl
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("handler: no page templates found")
	}
	return &TemplateRenderer{pages: pages}, nil
}

func (tr *TemplateRenderer) Render(w io.Writer, page string, data *ViewData) error {
	tmpl, ok := tr.pages[page]
	if !ok {
		return fmt.Errorf("handler: unknown page %q", page)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("2006-01-02")
	},
	"datetime": func(t time.Time) string {
		return t.Local().Format("02.01.2006 15:04")
	},
	"truncate": truncate,
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n])) + "…"
}
