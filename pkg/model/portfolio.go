package model

import "github.com/shopspring/decimal"

func init() {
	// The backend binds amounts to BigDecimal and expects JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Portfolio is one holding row.
type Portfolio struct {
	ID                   int64           `json:"id"`
	Symbol               string          `json:"symbol"`
	CompanyName          string          `json:"companyName"`
	Quantity             decimal.Decimal `json:"quantity"`
	AveragePrice         decimal.Decimal `json:"averagePrice"`
	CurrentPrice         decimal.Decimal `json:"currentPrice"`
	TotalValue           decimal.Decimal `json:"totalValue"`
	TotalCost            decimal.Decimal `json:"totalCost"`
	ProfitLoss           decimal.Decimal `json:"profitLoss"`
	ProfitLossPercentage decimal.Decimal `json:"profitLossPercentage"`
	CreatedAt            Timestamp       `json:"createdAt"`
	UpdatedAt            Timestamp       `json:"updatedAt"`
}

// PortfolioSummary is returned by GET /portfolio/summary.
type PortfolioSummary struct {
	TotalValue      decimal.Decimal `json:"totalValue"`
	TotalProfitLoss decimal.Decimal `json:"totalProfitLoss"`
}

// TotalCost is the amount invested, recovered from value minus profit/loss.
func (s PortfolioSummary) TotalCost() decimal.Decimal {
	return s.TotalValue.Sub(s.TotalProfitLoss)
}

// AddToPortfolioRequest is the body of POST /portfolio/add.
type AddToPortfolioRequest struct {
	Symbol      string          `json:"symbol"`
	CompanyName string          `json:"companyName"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// RemoveFromPortfolioRequest is the body of POST /portfolio/remove.
type RemoveFromPortfolioRequest struct {
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
}
