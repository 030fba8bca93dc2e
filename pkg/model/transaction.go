package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a trade.
type TransactionType string

const (
	TransactionBuy  TransactionType = "BUY"
	TransactionSell TransactionType = "SELL"
)

// ParseTransactionType accepts any letter case.
func ParseTransactionType(s string) (TransactionType, bool) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.IsValid()
}

// IsValid reports whether t is BUY or SELL.
func (t TransactionType) IsValid() bool {
	return t == TransactionBuy || t == TransactionSell
}

// String returns the string representation of the transaction type.
func (t TransactionType) String() string {
	return string(t)
}

// Transaction is one recorded trade.
type Transaction struct {
	ID              int64           `json:"id"`
	Symbol          string          `json:"symbol"`
	CompanyName     string          `json:"companyName"`
	TransactionType TransactionType `json:"transactionType"`
	Quantity        decimal.Decimal `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Commission      decimal.Decimal `json:"commission"`
	Notes           string          `json:"notes"`
	TransactionDate Timestamp       `json:"transactionDate"`
	CreatedAt       Timestamp       `json:"createdAt"`
	UpdatedAt       Timestamp       `json:"updatedAt"`
}

// CreateTransactionRequest is the body of POST /transactions/create.
type CreateTransactionRequest struct {
	Symbol          string           `json:"symbol"`
	CompanyName     string           `json:"companyName"`
	TransactionType TransactionType  `json:"transactionType"`
	Quantity        decimal.Decimal  `json:"quantity"`
	Price           decimal.Decimal  `json:"price"`
	Commission      *decimal.Decimal `json:"commission,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

// TransactionFilters narrows GET /transactions/filter. Empty fields are not sent.
// Dates use LocalDateTimeLayout.
type TransactionFilters struct {
	Type      TransactionType
	StartDate string
	EndDate   string
}

// IsEmpty reports whether no filter is set.
func (f TransactionFilters) IsEmpty() bool {
	return f.Type == "" && f.StartDate == "" && f.EndDate == ""
}
