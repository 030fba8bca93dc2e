package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/me/fintrade/pkg/model"
	"github.com/shopspring/decimal"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// parseAmount parses a decimal flag value, recording a field error when it
// is malformed. An empty string yields zero.
func parseAmount(errs *[]model.FieldError, field, s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		*errs = append(*errs, model.FieldError{Field: field, Message: "must be a number"})
		return decimal.Zero
	}
	return d
}

// dateBound turns a --from/--to value into the backend's LocalDateTime.
// Bare dates cover the whole day.
func dateBound(s string, end bool) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	ts, err := model.ParseTimestamp(s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	if len(s) == len("2006-01-02") && end {
		ts.Time = ts.Add(24*time.Hour - time.Second)
	}
	return ts.Format(model.LocalDateTimeLayout), nil
}
