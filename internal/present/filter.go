package present

import (
	"strings"

	"github.com/me/fintrade/pkg/model"
)

// FilterPortfolio keeps holdings whose symbol or company name contains term,
// ignoring case. An empty term keeps everything.
func FilterPortfolio(items []model.Portfolio, term string) []model.Portfolio {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items
	}
	var out []model.Portfolio
	for _, p := range items {
		if containsFold(p.Symbol, term) || containsFold(p.CompanyName, term) {
			out = append(out, p)
		}
	}
	return out
}

// FilterTransactions keeps transactions whose symbol or company name
// contains term, ignoring case. An empty term keeps everything.
func FilterTransactions(items []model.Transaction, term string) []model.Transaction {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items
	}
	var out []model.Transaction
	for _, t := range items {
		if containsFold(t.Symbol, term) || containsFold(t.CompanyName, term) {
			out = append(out, t)
		}
	}
	return out
}

// Recent returns at most n items from the front of a newest-first list.
func Recent(items []model.Transaction, n int) []model.Transaction {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}
