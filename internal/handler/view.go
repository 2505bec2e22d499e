package handler

import (
	"errors"
	"net/url"
	"strings"

	"github.com/sakif/notes-news/internal/apperror"
	"github.com/sakif/notes-news/internal/auth"
	"github.com/sakif/notes-news/internal/model"
	"github.com/sakif/notes-news/internal/service"
)

// ViewData is the single value every template receives. Pages read only the
// fields they need; the rest stay zero.
type ViewData struct {
	Title  string
	User   *auth.Identity // nil for anonymous visitors
	Form   *Form
	GitHub bool

	Notes   []model.Note
	Note    *model.Note
	Home    *service.HomePage
	Detail  *service.NewsDetail
	Comment *model.Comment

	Status  int
	Message string
}

// Form carries submitted values back into a re-rendered form together with
// the error for each field. The "" key holds errors that belong to the
// whole form.
type Form struct {
	Values url.Values
	Errors map[string]string
}

func NewForm(values url.Values) *Form {
	if values == nil {
		values = url.Values{}
	}
	return &Form{Values: values, Errors: map[string]string{}}
}

func (f *Form) Get(field string) string {
	return f.Values.Get(field)
}

func (f *Form) Set(field, value string) {
	f.Values.Set(field, value)
}

// Error returns the message attached to field, if any.
func (f *Form) Error(field string) string {
	return f.Errors[field]
}

// AddError attaches err to the form if it is a validation error and reports
// whether it did. Any other error is left for the caller.
func (f *Form) AddError(err error) bool {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || !errors.Is(err, apperror.ErrValidation) {
		return false
	}
	f.Errors[appErr.Field] = appErr.Message
	return true
}

// value reads and trims one field of a parsed form.
func value(values url.Values, field string) string {
	return strings.TrimSpace(values.Get(field))
}
