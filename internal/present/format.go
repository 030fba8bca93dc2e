// Package present formats backend values for display and implements the
// client-side list filters.
package present

import (
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/dustin/go-humanize"
	"github.com/me/fintrade/pkg/model"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency is configured.
const DefaultCurrency = money.USD

var hundred = decimal.NewFromInt(100)

// Currency renders amount in the given ISO currency, e.g. "$1,234.50".
// Unknown codes fall back to DefaultCurrency.
func Currency(amount decimal.Decimal, code string) string {
	if code == "" || money.GetCurrency(code) == nil {
		code = DefaultCurrency
	}
	cur := money.New(0, code).Currency()
	minor := amount.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction)).IntPart()
	return cur.Formatter().Format(minor)
}

// SignedCurrency is Currency with an explicit "+" on gains.
func SignedCurrency(amount decimal.Decimal, code string) string {
	if amount.IsPositive() {
		return "+" + Currency(amount, code)
	}
	return Currency(amount, code)
}

// Number renders d with thousands separators and two decimals.
func Number(d decimal.Decimal) string {
	return humanize.FormatFloat("#,###.##", d.InexactFloat64())
}

// Quantity renders a share count, dropping a zero fraction.
func Quantity(d decimal.Decimal) string {
	if d.IsInteger() {
		return humanize.Comma(d.IntPart())
	}
	return Number(d)
}

// Percent renders a percentage value with two decimals and a sign on gains.
func Percent(p decimal.Decimal) string {
	s := p.StringFixed(2) + "%"
	if p.IsPositive() {
		return "+" + s
	}
	return s
}

// TotalReturnPercentage is total profit/loss over total cost, in percent.
// It is zero when nothing was invested.
func TotalReturnPercentage(s *model.PortfolioSummary) decimal.Decimal {
	if s == nil {
		return decimal.Zero
	}
	cost := s.TotalCost()
	if cost.IsZero() {
		return decimal.Zero
	}
	return s.TotalProfitLoss.Div(cost).Mul(hundred)
}

// Date renders a backend timestamp as "Jan 2, 2006".
func Date(ts model.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Format("Jan 2, 2006")
}

// DateTime renders a backend timestamp with its time of day.
func DateTime(ts model.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Format("Jan 2, 2006 15:04")
}

// Ago renders ts relative to now, e.g. "3 hours ago".
func Ago(ts model.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return humanize.Time(ts.Time)
}

// Until renders a future instant relative to now, e.g. "23 hours from now".
func Until(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

func containsFold(s, term string) bool {
	return strings.Contains(strings.ToLower(s), term)
}
