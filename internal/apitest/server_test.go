package apitest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/me/fintrade/pkg/model"
	"github.com/shopspring/decimal"
)

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func signIn(t *testing.T, h http.Handler, username, password string) model.AuthResponse {
	t.Helper()
	w := do(t, h, "POST", "/api/auth/signin", "", model.LoginRequest{Username: username, Password: password})
	if w.Code != http.StatusOK {
		t.Fatalf("signin status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp model.AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode signin: %v", err)
	}
	return resp
}

func TestSignIn(t *testing.T) {
	s := New(nil)
	s.AddUser("alice", "Secret1", model.RoleAdmin)
	h := s.Handler()

	resp := signIn(t, h, "alice", "Secret1")
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if len(resp.Roles) != 1 || resp.Roles[0] != "ROLE_ADMIN" {
		t.Errorf("roles = %v", resp.Roles)
	}
	if resp.FirstName != "Alice" {
		t.Errorf("firstName = %q", resp.FirstName)
	}

	w := do(t, h, "POST", "/api/auth/signin", "", model.LoginRequest{Username: "alice", Password: "nope"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password status = %d, want 401", w.Code)
	}
}

func TestSignUp_Duplicate(t *testing.T) {
	s := New(nil)
	s.AddUser("alice", "Secret1", model.RoleUser)
	h := s.Handler()

	w := do(t, h, "POST", "/api/auth/signup", "", model.RegisterRequest{
		Username: "alice", Email: "other@example.com", Password: "Secret1",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var msg model.MessageResponse
	json.Unmarshal(w.Body.Bytes(), &msg)
	if msg.Message != "Error: Username is already taken!" {
		t.Errorf("message = %q", msg.Message)
	}

	w = do(t, h, "POST", "/api/auth/signup", "", model.RegisterRequest{
		Username: "bob", Email: "bob@example.com", Password: "Secret1",
	})
	if w.Code != http.StatusOK {
		t.Errorf("new user status = %d, want 200", w.Code)
	}
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	s := New(nil)
	s.AddUser("alice", "Secret1", model.RoleUser)
	h := s.Handler()

	if w := do(t, h, "GET", "/api/portfolio/all", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", w.Code)
	}
	if w := do(t, h, "GET", "/api/portfolio/all", "garbage", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token status = %d, want 401", w.Code)
	}

	tok := signIn(t, h, "alice", "Secret1").Token
	if w := do(t, h, "GET", "/api/portfolio/all", tok, nil); w.Code != http.StatusOK {
		t.Errorf("valid token status = %d, want 200", w.Code)
	}
	if w := do(t, h, "GET", "/api/admin/users", tok, nil); w.Code != http.StatusForbidden {
		t.Errorf("admin route as user status = %d, want 403", w.Code)
	}

	s.Revoke(tok)
	if w := do(t, h, "GET", "/api/portfolio/all", tok, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("revoked token status = %d, want 401", w.Code)
	}
}

func TestPortfolio_AddAveragesPrice(t *testing.T) {
	s := New(nil)
	s.AddUser("alice", "Secret1", model.RoleUser)
	h := s.Handler()
	tok := signIn(t, h, "alice", "Secret1").Token

	add := func(qty, price string) model.Portfolio {
		w := do(t, h, "POST", "/api/portfolio/add", tok, model.AddToPortfolioRequest{
			Symbol: "AAPL", CompanyName: "Apple Inc.",
			Quantity: decimal.RequireFromString(qty), Price: decimal.RequireFromString(price),
		})
		if w.Code != http.StatusOK {
			t.Fatalf("add status = %d: %s", w.Code, w.Body.String())
		}
		var p model.Portfolio
		json.Unmarshal(w.Body.Bytes(), &p)
		return p
	}

	add("10", "100")
	p := add("10", "110")

	if !p.Quantity.Equal(decimal.NewFromInt(20)) {
		t.Errorf("quantity = %s, want 20", p.Quantity)
	}
	if !p.AveragePrice.Equal(decimal.NewFromInt(105)) {
		t.Errorf("averagePrice = %s, want 105", p.AveragePrice)
	}
	if !p.TotalValue.Equal(decimal.NewFromInt(2200)) {
		t.Errorf("totalValue = %s, want 2200", p.TotalValue)
	}
	if !p.ProfitLoss.Equal(decimal.NewFromInt(100)) {
		t.Errorf("profitLoss = %s, want 100", p.ProfitLoss)
	}
	if !p.ProfitLossPercentage.Equal(decimal.RequireFromString("4.76")) {
		t.Errorf("profitLossPercentage = %s, want 4.76", p.ProfitLossPercentage)
	}
}

func TestPortfolio_RemoveClosesHolding(t *testing.T) {
	s := New(nil)
	s.AddUser("alice", "Secret1", model.RoleUser)
	h := s.Handler()
	tok := signIn(t, h, "alice", "Secret1").Token

	do(t, h, "POST", "/api/portfolio/add", tok, model.AddToPortfolioRequest{
		Symbol: "MSFT", CompanyName: "Microsoft",
		Quantity: decimal.NewFromInt(5), Price: decimal.NewFromInt(300),
	})

	w := do(t, h, "POST", "/api/portfolio/remove", tok, model.RemoveFromPortfolioRequest{
		Symbol: "MSFT", Quantity: decimal.NewFromInt(2),
	})
	var partial map[string]any
	json.Unmarshal(w.Body.Bytes(), &partial)
	if partial["id"] == nil {
		t.Errorf("partial remove should return the holding, got %s", w.Body.String())
	}

	w = do(t, h, "POST", "/api/portfolio/remove", tok, model.RemoveFromPortfolioRequest{
		Symbol: "MSFT", Quantity: decimal.NewFromInt(3),
	})
	var msg model.MessageResponse
	json.Unmarshal(w.Body.Bytes(), &msg)
	if msg.Message == "" {
		t.Errorf("closing remove should return a message, got %s", w.Body.String())
	}

	w = do(t, h, "GET", "/api/portfolio/all", tok, nil)
	if got := w.Body.String(); got != "[]\n" {
		t.Errorf("portfolio after close = %s, want []", got)
	}
}

func TestTransactions_FilterAndRecent(t *testing.T) {
	s := New(nil)
	s.AddUser("alice", "Secret1", model.RoleUser)
	h := s.Handler()
	tok := signIn(t, h, "alice", "Secret1").Token

	fee := decimal.RequireFromString("1.50")
	for i, typ := range []model.TransactionType{model.TransactionBuy, model.TransactionSell, model.TransactionBuy} {
		w := do(t, h, "POST", "/api/transactions/create", tok, model.CreateTransactionRequest{
			Symbol: "AAPL", CompanyName: "Apple", TransactionType: typ,
			Quantity: decimal.NewFromInt(int64(i + 1)), Price: decimal.NewFromInt(10), Commission: &fee,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("create status = %d", w.Code)
		}
		if i == 0 {
			var tx model.Transaction
			json.Unmarshal(w.Body.Bytes(), &tx)
			if !tx.TotalAmount.Equal(decimal.RequireFromString("11.50")) {
				t.Errorf("totalAmount = %s, want 11.50", tx.TotalAmount)
			}
		}
	}

	var got []model.Transaction
	w := do(t, h, "GET", "/api/transactions/filter?type=SELL", tok, nil)
	json.Unmarshal(w.Body.Bytes(), &got)
	if len(got) != 1 || got[0].TransactionType != model.TransactionSell {
		t.Errorf("filter type=SELL returned %d rows", len(got))
	}

	w = do(t, h, "GET", "/api/transactions/recent?limit=2", tok, nil)
	json.Unmarshal(w.Body.Bytes(), &got)
	if len(got) != 2 {
		t.Errorf("recent limit=2 returned %d rows", len(got))
	}
}

func TestAdmin_Toggle(t *testing.T) {
	s := New(nil)
	s.AddUser("root", "Secret1", model.RoleAdmin)
	bob := s.AddUser("bob", "Secret1", model.RoleUser)
	h := s.Handler()
	tok := signIn(t, h, "root", "Secret1").Token

	w := do(t, h, "PUT", "/api/admin/users/2/toggle-status", tok, struct{}{})
	if w.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", w.Code)
	}
	var u model.User
	json.Unmarshal(w.Body.Bytes(), &u)
	if u.ID != bob.ID || u.Enabled {
		t.Errorf("toggled user = %+v, want bob disabled", u)
	}

	w = do(t, h, "POST", "/api/auth/signin", "", model.LoginRequest{Username: "bob", Password: "Secret1"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("disabled signin status = %d, want 401", w.Code)
	}
}
