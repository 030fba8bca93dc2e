package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{"with message", &APIError{Status: 400, Message: "Error: Username is already taken!"}, "Bad Request: Error: Username is already taken!"},
		{"status only", &APIError{Status: 404}, "Not Found"},
		{"unknown status", &APIError{Status: 599}, "status 599"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIError_UserMessage(t *testing.T) {
	err := &APIError{Status: 401, Message: "Bad credentials"}
	if got := err.UserMessage("Login failed. Please try again."); got != "Bad credentials" {
		t.Errorf("UserMessage() = %q, want backend message", got)
	}
	empty := &APIError{Status: 500}
	if got := empty.UserMessage("Login failed. Please try again."); got != "Login failed. Please try again." {
		t.Errorf("UserMessage() = %q, want fallback", got)
	}
}

func TestNewValidationError(t *testing.T) {
	if err := NewValidationError(); err != nil {
		t.Fatalf("expected nil for no fields, got %v", err)
	}

	err := NewValidationError(
		FieldError{Field: "username", Message: "Username must be at least 3 characters long"},
		FieldError{Field: "price", Message: "Price must be greater than 0"},
	)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Fields) != 2 {
		t.Errorf("Fields length = %d, want 2", len(verr.Fields))
	}
	msg, ok := verr.Field("price")
	if !ok || msg != "Price must be greater than 0" {
		t.Errorf("Field(price) = %q, %v", msg, ok)
	}
	if _, ok := verr.Field("email"); ok {
		t.Error("Field(email) should not be set")
	}
	want := "invalid input: username: Username must be at least 3 characters long; price: Price must be greater than 0"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestAPIError_IsUnauthorized(t *testing.T) {
	wrapped := fmt.Errorf("list portfolio: %w", &APIError{Status: 401})
	if !errors.Is(wrapped, ErrUnauthorized) {
		t.Error("401 should match ErrUnauthorized")
	}
	if errors.Is(&APIError{Status: 403}, ErrUnauthorized) {
		t.Error("403 should not match ErrUnauthorized")
	}
}
