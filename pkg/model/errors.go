package model

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnauthorized matches (via errors.Is) any APIError with status 401.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	// RequestID echoes the X-Request-ID the client sent, for log correlation.
	RequestID string `json:"request_id,omitempty"`
}

func (e *APIError) Error() string {
	text := http.StatusText(e.Status)
	if text == "" {
		text = "status " + fmt.Sprint(e.Status)
	}
	if e.Message == "" {
		return text
	}
	return fmt.Sprintf("%s: %s", text, e.Message)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// UserMessage is what a view should show: the backend message when it sent
// one, otherwise the given fallback.
func (e *APIError) UserMessage(fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

// FieldError describes a validation error on a specific form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError aggregates the field errors of one form submission.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError returns nil when no field failed, so callers can write
// `if err := NewValidationError(errs...); err != nil`.
func NewValidationError(fields ...FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// Field returns the message recorded for a field, if any.
func (e *ValidationError) Field(name string) (string, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message, true
		}
	}
	return "", false
}
