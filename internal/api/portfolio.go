package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/me/fintrade/pkg/model"
)

// PortfolioAPI wraps /portfolio.
type PortfolioAPI struct{ c *Client }

// List returns every holding of the signed-in user.
func (p *PortfolioAPI) List(ctx context.Context) ([]model.Portfolio, error) {
	var out []model.Portfolio
	if err := p.c.do(ctx, call{method: http.MethodGet, path: "/portfolio/all", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

// Search asks the backend for holdings matching symbol.
func (p *PortfolioAPI) Search(ctx context.Context, symbol string) ([]model.Portfolio, error) {
	var out []model.Portfolio
	err := p.c.do(ctx, call{
		method: http.MethodGet,
		path:   "/portfolio/search",
		query:  url.Values{"symbol": {symbol}},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Summary returns total value and total profit/loss.
func (p *PortfolioAPI) Summary(ctx context.Context) (*model.PortfolioSummary, error) {
	var out model.PortfolioSummary
	if err := p.c.do(ctx, call{method: http.MethodGet, path: "/portfolio/summary", out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// Add buys into a holding, creating it if needed.
func (p *PortfolioAPI) Add(ctx context.Context, req model.AddToPortfolioRequest) (*model.Portfolio, error) {
	var out model.Portfolio
	if err := p.c.do(ctx, call{method: http.MethodPost, path: "/portfolio/add", body: req, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveResult is the outcome of POST /portfolio/remove: the backend returns
// the remaining holding, or only a message when the holding was closed.
type RemoveResult struct {
	Holding *model.Portfolio
	Message string
}

// Remove sells quantity out of a holding.
func (p *PortfolioAPI) Remove(ctx context.Context, req model.RemoveFromPortfolioRequest) (*RemoveResult, error) {
	var raw json.RawMessage
	if err := p.c.do(ctx, call{method: http.MethodPost, path: "/portfolio/remove", body: req, out: &raw}); err != nil {
		return nil, err
	}

	var probe struct {
		ID      *int64 `json:"id"`
		Message string `json:"message"`
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &probe); err != nil {
			return nil, fmt.Errorf("parse remove response: %w", err)
		}
	}
	res := &RemoveResult{Message: probe.Message}
	if probe.ID != nil {
		var h model.Portfolio
		if err := json.Unmarshal(raw, &h); err != nil {
			return nil, fmt.Errorf("parse remove response: %w", err)
		}
		res.Holding = &h
	}
	return res, nil
}

// Update replaces a holding.
func (p *PortfolioAPI) Update(ctx context.Context, id int64, holding model.Portfolio) (*model.Portfolio, error) {
	var out model.Portfolio
	err := p.c.do(ctx, call{
		method: http.MethodPut,
		path:   idPath("/portfolio/update/%d", id),
		body:   holding,
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a holding.
func (p *PortfolioAPI) Delete(ctx context.Context, id int64) (*model.MessageResponse, error) {
	var out model.MessageResponse
	if err := p.c.do(ctx, call{method: http.MethodDelete, path: idPath("/portfolio/delete/%d", id), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}
