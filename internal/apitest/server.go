// Package apitest provides an in-memory fake of the fintrade backend for
// tests. It speaks the same REST dialect (paths, JSON shapes, bearer JWTs,
// {"message": ...} errors) as the real service.
package apitest

import (
	"crypto/rand"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/me/fintrade/internal/logging"
	"github.com/me/fintrade/pkg/model"
	"github.com/shopspring/decimal"
)

// Server is the fake backend.
type Server struct {
	mu           sync.Mutex
	users        map[int64]*account
	portfolios   map[int64]*holding
	transactions map[int64]*trade
	revoked      map[string]bool
	lastID       map[string]int64 // per table, like database sequences

	signingKey []byte
	tokenTTL   time.Duration
	signInGate chan struct{}
	requests   []string

	logger *slog.Logger
	ts     *httptest.Server
}

type account struct {
	model.User
	password string
}

type holding struct {
	model.Portfolio
	owner int64
}

type trade struct {
	model.Transaction
	owner int64
}

// New creates a fake backend without starting a listener; use Handler with
// your own server, or NewServer.
func New(logger *slog.Logger) *Server {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic(err)
	}
	return &Server{
		users:        make(map[int64]*account),
		portfolios:   make(map[int64]*holding),
		transactions: make(map[int64]*trade),
		revoked:      make(map[string]bool),
		lastID:       make(map[string]int64),
		signingKey:   key,
		tokenTTL:     24 * time.Hour,
		logger:       logging.OrDiscard(logger).With("component", "fake-backend"),
	}
}

// NewServer starts the fake backend on a loopback listener and closes it
// when the test ends.
func NewServer(tb testing.TB) *Server {
	tb.Helper()
	s := New(nil)
	s.ts = httptest.NewServer(s.Handler())
	tb.Cleanup(s.ts.Close)
	return s
}

// URL is the API base URL (including /api) of a started server.
func (s *Server) URL() string {
	return s.ts.URL + "/api"
}

// Handler returns the backend's routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))
	r.Use(s.recordMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signin", s.handleSignIn)
		r.Post("/auth/signup", s.handleSignUp)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Route("/portfolio", func(r chi.Router) {
				r.Get("/all", s.handlePortfolioList)
				r.Get("/search", s.handlePortfolioSearch)
				r.Get("/summary", s.handlePortfolioSummary)
				r.Post("/add", s.handlePortfolioAdd)
				r.Post("/remove", s.handlePortfolioRemove)
				r.Put("/update/{id}", s.handlePortfolioUpdate)
				r.Delete("/delete/{id}", s.handlePortfolioDelete)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/all", s.handleTransactionList)
				r.Get("/recent", s.handleTransactionRecent)
				r.Get("/search", s.handleTransactionSearch)
				r.Get("/filter", s.handleTransactionFilter)
				r.Post("/create", s.handleTransactionCreate)
				r.Get("/{id}", s.handleTransactionGet)
				r.Put("/update/{id}", s.handleTransactionUpdate)
				r.Delete("/delete/{id}", s.handleTransactionDelete)
			})

			r.Route("/admin/users", func(r chi.Router) {
				r.Use(s.adminMiddleware)
				r.Get("/", s.handleUserList)
				r.Get("/{id}", s.handleUserGet)
				r.Put("/{id}", s.handleUserUpdate)
				r.Delete("/{id}", s.handleUserDelete)
				r.Put("/{id}/toggle-status", s.handleUserToggle)
			})
		})
	})
	return r
}

// AddUser seeds an account and returns it.
func (s *Server) AddUser(username, password string, role model.Role) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(model.RegisterRequest{
		Username:  username,
		Password:  password,
		Email:     username + "@example.com",
		FirstName: capitalize(username),
		LastName:  "Tester",
	}, role).User
}

func (s *Server) addUserLocked(req model.RegisterRequest, role model.Role) *account {
	now := model.Timestamp{Time: time.Now().Truncate(time.Second)}
	a := &account{
		User: model.User{
			ID:        s.nextIDLocked("users"),
			Username:  req.Username,
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Role:      role,
			Enabled:   true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		password: req.Password,
	}
	s.users[a.ID] = a
	return a
}

func (s *Server) nextIDLocked(table string) int64 {
	s.lastID[table]++
	return s.lastID[table]
}

// SetPrice marks every holding of symbol to price.
func (s *Server) SetPrice(symbol string, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.portfolios {
		if h.Symbol == symbol {
			h.CurrentPrice = price
			h.recalculate()
		}
	}
}

// Revoke makes the backend reject token with 401 from now on.
func (s *Server) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = true
}

// HoldSignIn blocks every sign-in request until release is called.
func (s *Server) HoldSignIn() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.signInGate = gate
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.signInGate = nil
			s.mu.Unlock()
			close(gate)
		})
	}
}

// Requests returns "METHOD /path" for every request served so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
