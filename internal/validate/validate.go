// Package validate holds the form rules applied before anything is sent
// to the backend.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/me/fintrade/pkg/model"
	"github.com/shopspring/decimal"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	upperPattern    = regexp.MustCompile(`[A-Z]`)
	lowerPattern    = regexp.MustCompile(`[a-z]`)
	digitPattern    = regexp.MustCompile(`\d`)

	maxQuantity = decimal.NewFromInt(1_000_000)
	maxPrice    = decimal.NewFromInt(100_000)
)

// Errors collects field errors for one form.
type Errors []model.FieldError

// Add records msg against field when msg is not empty.
func (e *Errors) Add(field, msg string) {
	if msg != "" {
		*e = append(*e, model.FieldError{Field: field, Message: msg})
	}
}

// Err returns a *model.ValidationError, or nil when nothing failed.
func (e Errors) Err() error {
	return model.NewValidationError(e...)
}

// Username returns the problem with a username, or "".
func Username(s string) string {
	n := utf8.RuneCountInString(s)
	switch {
	case n < 3:
		return "Username must be at least 3 characters long"
	case n > 50:
		return "Username must be less than 50 characters"
	case !usernamePattern.MatchString(s):
		return "Username can only contain letters, numbers, and underscores"
	}
	return ""
}

// Password returns the problem with a new password, or "".
func Password(s string) string {
	n := utf8.RuneCountInString(s)
	switch {
	case n < 6:
		return "Password must be at least 6 characters long"
	case n > 100:
		return "Password must be less than 100 characters"
	case !upperPattern.MatchString(s) || !lowerPattern.MatchString(s) || !digitPattern.MatchString(s):
		return "Password must contain at least one uppercase letter, one lowercase letter, and one number"
	}
	return ""
}

// Email returns the problem with an email address, or "".
func Email(s string) string {
	if !emailPattern.MatchString(s) || utf8.RuneCountInString(s) > 100 {
		return "Please enter a valid email address"
	}
	return ""
}

// Name checks a required name field of at most 50 characters.
func Name(label, s string) string {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return label + " is required"
	case utf8.RuneCountInString(s) > 50:
		return label + " must be less than 50 characters"
	}
	return ""
}

// Required reports a missing value.
func Required(label, s string) string {
	if strings.TrimSpace(s) == "" {
		return label + " is required"
	}
	return ""
}

// Quantity returns the problem with a share quantity, or "".
func Quantity(q decimal.Decimal) string {
	switch {
	case !q.IsPositive():
		return "Quantity must be greater than 0"
	case q.GreaterThan(maxQuantity):
		return "Quantity must be less than 1,000,000"
	}
	return ""
}

// Price returns the problem with a share price, or "".
func Price(p decimal.Decimal) string {
	switch {
	case !p.IsPositive():
		return "Price must be greater than 0"
	case p.GreaterThan(maxPrice):
		return "Price must be less than $100,000"
	}
	return ""
}

// TransactionType returns the problem with a BUY/SELL value, or "".
func TransactionType(t model.TransactionType) string {
	if !t.IsValid() {
		return "Transaction type is required"
	}
	return ""
}
