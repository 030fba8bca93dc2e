package apitest

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/me/fintrade/pkg/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// recalculate derives the computed columns the way the backend entity does.
func (h *holding) recalculate() {
	h.TotalValue = h.Quantity.Mul(h.CurrentPrice)
	h.TotalCost = h.Quantity.Mul(h.AveragePrice)
	h.ProfitLoss = h.TotalValue.Sub(h.TotalCost)
	h.ProfitLossPercentage = decimal.Zero
	if h.TotalCost.IsPositive() {
		h.ProfitLossPercentage = h.ProfitLoss.DivRound(h.TotalCost, 4).Mul(hundred)
	}
	h.UpdatedAt = model.Timestamp{Time: time.Now().Truncate(time.Second)}
}

func (s *Server) holdingsLocked(owner int64, match func(*holding) bool) []model.Portfolio {
	out := []model.Portfolio{}
	for _, h := range s.portfolios {
		if h.owner == owner && (match == nil || match(h)) {
			out = append(out, h.Portfolio)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

func (s *Server) holdingBySymbolLocked(owner int64, symbol string) *holding {
	for _, h := range s.portfolios {
		if h.owner == owner && h.Symbol == symbol {
			return h
		}
	}
	return nil
}

func (s *Server) handlePortfolioList(w http.ResponseWriter, r *http.Request) {
	acct := accountFromContext(r.Context())
	s.mu.Lock()
	defer s.mu.Unlock()
	respondOK(w, s.holdingsLocked(acct.ID, nil))
}

func (s *Server) handlePortfolioSearch(w http.ResponseWriter, r *http.Request) {
	acct := accountFromContext(r.Context())
	q := strings.ToLower(r.URL.Query().Get("symbol"))
	s.mu.Lock()
	defer s.mu.Unlock()
	respondOK(w, s.holdingsLocked(acct.ID, func(h *holding) bool {
		return strings.Contains(strings.ToLower(h.Symbol), q)
	}))
}

func (s *Server) handlePortfolioSummary(w http.ResponseWriter, r *http.Request) {
	acct := accountFromContext(r.Context())
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum model.PortfolioSummary
	for _, p := range s.holdingsLocked(acct.ID, nil) {
		sum.TotalValue = sum.TotalValue.Add(p.TotalValue)
		sum.TotalProfitLoss = sum.TotalProfitLoss.Add(p.ProfitLoss)
	}
	respondOK(w, sum)
}

func (s *Server) handlePortfolioAdd(w http.ResponseWriter, r *http.Request) {
	acct := accountFromContext(r.Context())
	var req model.AddToPortfolioRequest
	if err := decodeBody(r, &req); err != nil || req.Symbol == "" {
		respondMessage(w, http.StatusBadRequest, "Error: malformed request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if h := s.holdingBySymbolLocked(acct.ID, req.Symbol); h != nil {
		newQty := h.Quantity.Add(req.Quantity)
		newCost := h.TotalCost.Add(req.Quantity.Mul(req.Price))
		h.Quantity = newQty
		h.AveragePrice = newCost.DivRound(newQty, 2)
		h.CurrentPrice = req.Price
		h.recalculate()
		respondOK(w, h.Portfolio)
		return
	}

	now := model.Timestamp{Time: time.Now().Truncate(time.Second)}
	h := &holding{
		Portfolio: model.Portfolio{
			ID:           s.nextIDLocked("portfolios"),
			Symbol:       req.Symbol,
			CompanyName:  req.CompanyName,
			Quantity:     req.Quantity,
			AveragePrice: req.Price,
			CurrentPrice: req.Price,
			CreatedAt:    now,
		},
		owner: acct.ID,
	}
	h.recalculate()
	s.portfolios[h.ID] = h
	respondOK(w, h.Portfolio)
}

func (s *Server) handlePortfolioRemove(w http.ResponseWriter, r *http.Request) {
	acct := accountFromContext(r.Context())
	var req model.RemoveFromPortfolioRequest
	if err := decodeBody(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Error: malformed request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.holdingBySymbolLocked(acct.ID, req.Symbol)
	if h == nil {
		respondMessage(w, http.StatusOK, "Portfolio item removed successfully")
		return
	}
	newQty := h.Quantity.Sub(req.Quantity)
	if !newQty.IsPositive() {
		delete(s.portfolios, h.ID)
		respondMessage(w, http.StatusOK, "Portfolio item removed successfully")
		return
	}
	h.Quantity = newQty
	h.recalculate()
	respondOK(w, h.Portfolio)
}

func (s *Server) handlePortfolioUpdate(w http.ResponseWriter, r *http.Request) {
	acct := accountFromContext(r.Context())
	id, ok := pathID(r)
	if !ok {
		respondSpringError(w, http.StatusBadRequest)
		return
	}
	var in model.Portfolio
	if err := decodeBody(r, &in); err != nil {
		respondMessage(w, http.StatusBadRequest, "Error: malformed request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	h, found := s.portfolios[id]
	if !found || h.owner != acct.ID {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	h.Symbol = in.Symbol
	h.CompanyName = in.CompanyName
	h.Quantity = in.Quantity
	h.AveragePrice = in.AveragePrice
	if !in.CurrentPrice.IsZero() {
		h.CurrentPrice = in.CurrentPrice
	}
	h.recalculate()
	respondOK(w, h.Portfolio)
}

func (s *Server) handlePortfolioDelete(w http.ResponseWriter, r *http.Request) {
	acct := accountFromContext(r.Context())
	id, ok := pathID(r)
	if !ok {
		respondSpringError(w, http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	h, found := s.portfolios[id]
	if !found || h.owner != acct.ID {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	delete(s.portfolios, id)
	respondMessage(w, http.StatusOK, "Portfolio item deleted successfully")
}
