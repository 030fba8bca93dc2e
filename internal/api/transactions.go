package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/me/fintrade/pkg/model"
)

// TransactionAPI wraps /transactions.
type TransactionAPI struct{ c *Client }

func (t *TransactionAPI) list(ctx context.Context, path string, q url.Values) ([]model.Transaction, error) {
	var out []model.Transaction
	if err := t.c.do(ctx, call{method: http.MethodGet, path: path, query: q, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns every transaction of the signed-in user.
func (t *TransactionAPI) List(ctx context.Context) ([]model.Transaction, error) {
	return t.list(ctx, "/transactions/all", nil)
}

// Recent returns the latest transactions, newest first.
func (t *TransactionAPI) Recent(ctx context.Context, opts model.RecentOptions) ([]model.Transaction, error) {
	opts.Clamp()
	return t.list(ctx, "/transactions/recent", url.Values{"limit": {strconv.Itoa(opts.Limit)}})
}

// Search asks the backend for transactions matching symbol.
func (t *TransactionAPI) Search(ctx context.Context, symbol string) ([]model.Transaction, error) {
	return t.list(ctx, "/transactions/search", url.Values{"symbol": {symbol}})
}

// Filter narrows by type and/or date range. Unset filters are not sent.
func (t *TransactionAPI) Filter(ctx context.Context, f model.TransactionFilters) ([]model.Transaction, error) {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", f.Type.String())
	}
	if f.StartDate != "" {
		q.Set("startDate", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("endDate", f.EndDate)
	}
	return t.list(ctx, "/transactions/filter", q)
}

// Create records a trade.
func (t *TransactionAPI) Create(ctx context.Context, req model.CreateTransactionRequest) (*model.Transaction, error) {
	var out model.Transaction
	if err := t.c.do(ctx, call{method: http.MethodPost, path: "/transactions/create", body: req, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns one transaction.
func (t *TransactionAPI) Get(ctx context.Context, id int64) (*model.Transaction, error) {
	var out model.Transaction
	if err := t.c.do(ctx, call{method: http.MethodGet, path: idPath("/transactions/%d", id), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces a transaction.
func (t *TransactionAPI) Update(ctx context.Context, id int64, tx model.Transaction) (*model.Transaction, error) {
	var out model.Transaction
	err := t.c.do(ctx, call{
		method: http.MethodPut,
		path:   idPath("/transactions/update/%d", id),
		body:   tx,
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a transaction.
func (t *TransactionAPI) Delete(ctx context.Context, id int64) (*model.MessageResponse, error) {
	var out model.MessageResponse
	if err := t.c.do(ctx, call{method: http.MethodDelete, path: idPath("/transactions/delete/%d", id), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}
