// Package service holds the business rules of the notes and news apps.
//
// Services take plain values (a caller id, form fields) rather than HTTP
// types, return *model values or *apperror.AppError, and never decide
// status codes. The handler layer maps errors to responses.
package service

import (
	"log/slog"
	"time"

	"github.com/sakif/notes-news/internal/apperror"
)

// checkAuthor lets a caller act on a record only if they wrote it.
// Other users' records are reported as ErrForbidden, which every handler
// renders exactly like a missing record.
func checkAuthor(resource, id, authorID, callerID string) error {
	if callerID == "" || authorID != callerID {
		return apperror.Forbidden(resource, id)
	}
	return nil
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// clock is swapped in tests.
type clock func() time.Time
