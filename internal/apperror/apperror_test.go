package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("note", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("slug", "slug is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("note", "abc123"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "Forbidden wraps ErrForbidden",
			err:       Forbidden("comment", "abc123"),
			target:    ErrForbidden,
			wantMatch: true,
		},
		{
			name:      "Forbidden does NOT match ErrNotFound",
			err:       Forbidden("comment", "abc123"),
			target:    ErrNotFound,
			wantMatch: false,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("note", "abc123"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "wrapped ValidationFailed still matches",
			err:       fmt.Errorf("creating note: %w", ValidationFailed("title", "too long")),
			target:    ErrValidation,
			wantMatch: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("note", "abc123"),
			wantMessage: "note not found with id abc123",
		},
		{
			name:        "Forbidden message is indistinguishable from NotFound",
			err:         Forbidden("note", "abc123"),
			wantMessage: "note not found with id abc123",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("text", "Не ругайтесь!"),
			wantMessage: "Не ругайтесь!",
		},
		{
			name:        "Conflict message includes resource and id",
			err:         Conflict("note", "abc123"),
			wantMessage: "note conflict with id abc123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(NotFound("news", "x")) {
		t.Error("IsNotFound(NotFound) = false, want true")
	}
	if !IsNotFound(fmt.Errorf("wrapped: %w", Forbidden("news", "x"))) {
		t.Error("IsNotFound(wrapped Forbidden) = false, want true")
	}
	if IsNotFound(ValidationFailed("text", "bad")) {
		t.Error("IsNotFound(ValidationFailed) = true, want false")
	}
}

func TestUnwrap(t *testing.T) {
	err := NotFound("note", "abc123")
	if unwrapped := err.Unwrap(); unwrapped != ErrNotFound {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, ErrNotFound)
	}
}

func TestValidationFailedField(t *testing.T) {
	err := ValidationFailed("slug", "slug taken")

	if err.Field != "slug" {
		t.Errorf("Field = %q, want %q", err.Field, "slug")
	}
}
