package present

import (
	"strings"
	"testing"
	"time"

	"github.com/me/fintrade/pkg/model"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCurrency(t *testing.T) {
	tests := []struct {
		amount decimal.Decimal
		code   string
		want   string
	}{
		{d("1234.5"), "USD", "$1,234.50"},
		{d("0"), "USD", "$0.00"},
		{d("0.005"), "USD", "$0.01"},
		{d("99"), "", "$99.00"},
		{d("99"), "NOPE", "$99.00"},
	}
	for _, tt := range tests {
		if got := Currency(tt.amount, tt.code); got != tt.want {
			t.Errorf("Currency(%s, %q) = %q, want %q", tt.amount, tt.code, got, tt.want)
		}
	}

	neg := Currency(d("-12.3"), "USD")
	if !strings.Contains(neg, "-") || !strings.Contains(neg, "12.30") {
		t.Errorf("Currency(-12.3) = %q", neg)
	}
	if got := SignedCurrency(d("5"), "USD"); got != "+$5.00" {
		t.Errorf("SignedCurrency(5) = %q", got)
	}
}

func TestNumberFormatting(t *testing.T) {
	if got := Number(d("1234567.891")); got != "1,234,567.89" {
		t.Errorf("Number = %q", got)
	}
	if got := Quantity(d("1500")); got != "1,500" {
		t.Errorf("Quantity(1500) = %q", got)
	}
	if got := Quantity(d("2.5")); got != "2.50" {
		t.Errorf("Quantity(2.5) = %q", got)
	}
	if got := Percent(d("4.7619")); got != "+4.76%" {
		t.Errorf("Percent = %q", got)
	}
	if got := Percent(d("-3")); got != "-3.00%" {
		t.Errorf("Percent = %q", got)
	}
}

func TestTotalReturnPercentage(t *testing.T) {
	tests := []struct {
		name    string
		summary *model.PortfolioSummary
		want    string
	}{
		{"nil", nil, "0"},
		{"no investment", &model.PortfolioSummary{}, "0"},
		{"gain", &model.PortfolioSummary{TotalValue: d("1100"), TotalProfitLoss: d("100")}, "10"},
		{"loss", &model.PortfolioSummary{TotalValue: d("750"), TotalProfitLoss: d("-250")}, "-25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalReturnPercentage(tt.summary); !got.Equal(d(tt.want)) {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFilterPortfolio(t *testing.T) {
	items := []model.Portfolio{
		{Symbol: "AAPL", CompanyName: "Apple Inc."},
		{Symbol: "MSFT", CompanyName: "Microsoft"},
		{Symbol: "GOOGL", CompanyName: "Alphabet"},
	}
	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"AAPL", "MSFT", "GOOGL"}},
		{"aapl", []string{"AAPL"}},
		{"SOFT", []string{"MSFT"}},
		{"al", []string{"GOOGL"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		var got []string
		for _, p := range FilterPortfolio(items, tt.term) {
			got = append(got, p.Symbol)
		}
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("FilterPortfolio(%q) = %v, want %v", tt.term, got, tt.want)
		}
	}
}

func TestFilterTransactions(t *testing.T) {
	items := []model.Transaction{
		{ID: 1, Symbol: "TSLA", CompanyName: "Tesla"},
		{ID: 2, Symbol: "NVDA", CompanyName: "NVIDIA"},
	}
	got := FilterTransactions(items, "nvidia")
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("FilterTransactions = %+v", got)
	}
	if got := Recent(items, 1); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("Recent = %+v", got)
	}
}

func TestDates(t *testing.T) {
	ts := model.Timestamp{Time: time.Date(2024, 3, 5, 14, 30, 0, 0, time.Local)}
	if got := Date(ts); got != "Mar 5, 2024" {
		t.Errorf("Date = %q", got)
	}
	if got := DateTime(ts); got != "Mar 5, 2024 14:30" {
		t.Errorf("DateTime = %q", got)
	}
	if got := Date(model.Timestamp{}); got != "-" {
		t.Errorf("Date(zero) = %q", got)
	}
	if got := Ago(model.Timestamp{Time: time.Now().Add(-3 * time.Hour)}); got != "3 hours ago" {
		t.Errorf("Ago = %q", got)
	}
}
