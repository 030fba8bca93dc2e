package apitest

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/me/fintrade/pkg/model"
	"github.com/shopspring/decimal"
)

// totalAmount is quantity times price plus commission.
func totalAmount(qty, price, commission decimal.Decimal) decimal.Decimal {
	return qty.Mul(price).Add(commission)
}

// tradesLocked returns the owner's trades, newest first.
func (s *Server) tradesLocked(owner int64, match func(*trade) bool) []model.Transaction {
	out := []model.Transaction{}
	for _, t := range s.transactions {
		if t.owner == owner && (match == nil || match(t)) {
			out = append(out, t.Transaction)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TransactionDate.Equal(out[j].TransactionDate.Time) {
			return out[i].ID > out[j].ID
		}
		return out[i].TransactionDate.After(out[j].TransactionDate.Time)
	})
	return out
}

func (s *Server) ownTradeLocked(w http.ResponseWriter, r *http.Request) *trade {
	id, ok := pathID(r)
	if !ok {
		respondSpringError(w, http.StatusBadRequest)
		return nil
	}
	t, found := s.transactions[id]
	if !found || t.owner != accountFromContext(r.Context()).ID {
		w.WriteHeader(http.StatusNotFound)
		return nil
	}
	return t
}

func (s *Server) handleTransactionList(w http.ResponseWriter, r *http.Request) {
	acct := accountFromContext(r.Context())
	s.mu.Lock()
	defer s.mu.Unlock()
	respondOK(w, s.tradesLocked(acct.ID, nil))
}

func (s *Server) handleTransactionRecent(w http.ResponseWriter, r *http.Request) {
	acct := accountFromContext(r.Context())
	limit := model.DefaultRecentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondSpringError(w, http.StatusBadRequest)
			return
		}
		limit = n
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.tradesLocked(acct.ID, nil)
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	respondOK(w, out)
}

func (s *Server) handleTransactionSearch(w http.ResponseWriter, r *http.Request) {
	acct := accountFromContext(r.Context())
	q := strings.ToLower(r.URL.Query().Get("symbol"))
	s.mu.Lock()
	defer s.mu.Unlock()
	respondOK(w, s.tradesLocked(acct.ID, func(t *trade) bool {
		return strings.Contains(strings.ToLower(t.Symbol), q)
	}))
}

// handleTransactionFilter applies type when given, else the date range when
// both ends are given, else nothing.
func (s *Server) handleTransactionFilter(w http.ResponseWriter, r *http.Request) {
	acct := accountFromContext(r.Context())
	q := r.URL.Query()

	var match func(*trade) bool
	switch {
	case q.Get("type") != "":
		typ, ok := model.ParseTransactionType(q.Get("type"))
		if !ok {
			respondSpringError(w, http.StatusBadRequest)
			return
		}
		match = func(t *trade) bool { return t.TransactionType == typ }
	case q.Get("startDate") != "" && q.Get("endDate") != "":
		start, err1 := model.ParseTimestamp(q.Get("startDate"))
		end, err2 := model.ParseTimestamp(q.Get("endDate"))
		if err1 != nil || err2 != nil {
			respondSpringError(w, http.StatusBadRequest)
			return
		}
		match = func(t *trade) bool {
			d := t.TransactionDate.Time
			return !d.Before(start.Time) && !d.After(end.Time)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	respondOK(w, s.tradesLocked(acct.ID, match))
}

func (s *Server) handleTransactionCreate(w http.ResponseWriter, r *http.Request) {
	acct := accountFromContext(r.Context())
	var req model.CreateTransactionRequest
	if err := decodeBody(r, &req); err != nil || req.Symbol == "" || !req.TransactionType.IsValid() {
		respondMessage(w, http.StatusBadRequest, "Error: malformed request")
		return
	}
	commission := decimal.Zero
	if req.Commission != nil {
		commission = *req.Commission
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := model.Timestamp{Time: time.Now().Truncate(time.Second)}
	t := &trade{
		Transaction: model.Transaction{
			ID:              s.nextIDLocked("transactions"),
			Symbol:          req.Symbol,
			CompanyName:     req.CompanyName,
			TransactionType: req.TransactionType,
			Quantity:        req.Quantity,
			Price:           req.Price,
			Commission:      commission,
			TotalAmount:     totalAmount(req.Quantity, req.Price, commission),
			Notes:           req.Notes,
			TransactionDate: now,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		owner: acct.ID,
	}
	s.transactions[t.ID] = t
	respondOK(w, t.Transaction)
}

func (s *Server) handleTransactionGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.ownTradeLocked(w, r); t != nil {
		respondOK(w, t.Transaction)
	}
}

func (s *Server) handleTransactionUpdate(w http.ResponseWriter, r *http.Request) {
	var in model.Transaction
	if err := decodeBody(r, &in); err != nil {
		respondMessage(w, http.StatusBadRequest, "Error: malformed request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.ownTradeLocked(w, r)
	if t == nil {
		return
	}
	t.Symbol = in.Symbol
	t.CompanyName = in.CompanyName
	if in.TransactionType.IsValid() {
		t.TransactionType = in.TransactionType
	}
	t.Quantity = in.Quantity
	t.Price = in.Price
	t.Commission = in.Commission
	t.Notes = in.Notes
	t.TotalAmount = totalAmount(t.Quantity, t.Price, t.Commission)
	t.UpdatedAt = model.Timestamp{Time: time.Now().Truncate(time.Second)}
	respondOK(w, t.Transaction)
}

func (s *Server) handleTransactionDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.ownTradeLocked(w, r)
	if t == nil {
		return
	}
	delete(s.transactions, t.ID)
	respondMessage(w, http.StatusOK, "Transaction deleted successfully")
}
