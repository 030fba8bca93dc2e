// Package session holds the client's single source of truth for who is
// signed in. The Store persists the bearer token in client-local storage so
// the identity survives a restart, and publishes every change to its
// subscribers.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/me/fintrade/internal/logging"
	"github.com/me/fintrade/internal/store"
	"github.com/me/fintrade/pkg/model"
)

// Storage keys.
const (
	TokenKey   = "token"
	ProfileKey = "session"
)

// DefaultLoginError is shown when the backend gives no reason for a failed sign-in.
const DefaultLoginError = "Login failed. Please try again."

// ErrSuperseded is returned by Login when a Logout completed while the
// sign-in request was in flight. The response is discarded.
var ErrSuperseded = errors.New("login superseded by logout")

// Authenticator exchanges credentials for a token. *api.AuthAPI satisfies it.
type Authenticator interface {
	SignIn(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
}

// LoginError is a failed sign-in. Its message is fit to show the user.
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string { return e.Message }
func (e *LoginError) Unwrap() error { return e.Err }

// state is one published value. token is empty iff sess is nil.
type state struct {
	sess  *model.Session
	token string
}

// Store is the session store. The zero value is not usable; call New.
type Store struct {
	auth    Authenticator
	storage store.Storage
	logger  *slog.Logger

	// mu serialises commits: epoch checks, storage writes and publication.
	mu    sync.Mutex
	epoch uint64

	current atomic.Pointer[state]

	subMu  sync.Mutex
	subs   []subscriber
	nextID int
}

type subscriber struct {
	id int
	fn func(*model.Session)
}

// New creates a Store. A token already in storage counts as signed in, but
// no session is published until Restore rebuilds it.
func New(auth Authenticator, storage store.Storage, logger *slog.Logger) *Store {
	s := &Store{
		auth:    auth,
		storage: storage,
		logger:  logging.OrDiscard(logger).With("component", "session"),
	}
	s.current.Store(&state{})
	return s
}

// Login signs in with the backend and, on success, persists the token and
// publishes the new session. A failed sign-in changes nothing.
func (s *Store) Login(ctx context.Context, creds model.LoginRequest) (*model.Session, error) {
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	s.logger.Debug("signing in", "username", creds.Username)
	resp, err := s.auth.SignIn(ctx, creds)
	if err != nil {
		s.logger.Info("sign-in failed", "username", creds.Username, "error", err)
		return nil, &LoginError{Message: loginMessage(err), Err: err}
	}
	if resp == nil || resp.Token == "" {
		return nil, &LoginError{Message: DefaultLoginError, Err: errors.New("sign-in response has no token")}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		s.logger.Info("discarding sign-in response after logout", "username", creds.Username)
		return nil, ErrSuperseded
	}

	sess := model.NewSession(resp)
	if err := s.storage.SetItem(ctx, TokenKey, sess.Token); err != nil {
		return nil, &LoginError{Message: DefaultLoginError, Err: fmt.Errorf("persist token: %w", err)}
	}
	s.saveProfile(ctx, sess)
	s.publishLocked(sess)

	s.logger.Info("signed in", "username", sess.Username, "role", sess.Role)
	return sess.Clone(), nil
}

func loginMessage(err error) string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage(DefaultLoginError)
	}
	return DefaultLoginError
}

// Logout forgets the session locally. It never fails: storage errors are
// logged and the in-memory state is cleared regardless.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	s.logger.Info("signed out")
}

// Expire is Logout in response to the backend rejecting token. A rejection
// of any token other than the one currently held is stale and ignored, so a
// late 401 cannot end a session created after its request was sent.
func (s *Store) Expire(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if held, _ := s.persistedToken(context.Background()); token == "" || token != held {
		s.logger.Debug("ignoring rejection of a token that is no longer held")
		return
	}
	if prev := s.current.Load().sess; prev != nil {
		s.logger.Warn("session rejected by backend, signing out", "username", prev.Username)
	}
	s.clearLocked()
}

func (s *Store) clearLocked() {
	s.epoch++
	ctx := context.Background()
	if err := s.storage.RemoveItem(ctx, TokenKey); err != nil {
		s.logger.Error("remove persisted token", "error", err)
	}
	if err := s.storage.RemoveItem(ctx, ProfileKey); err != nil {
		s.logger.Error("remove persisted profile", "error", err)
	}
	s.publishLocked(nil)
}

// Restore rebuilds the session persisted by a previous run, if any. The
// stored token alone decides whether a session exists; the stored profile
// only fills in its details.
func (s *Store) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok, err := s.storage.GetItem(ctx, TokenKey)
	if err != nil {
		return fmt.Errorf("read persisted token: %w", err)
	}
	if !ok || token == "" {
		return nil
	}

	sess := s.loadProfile(ctx)
	if sess == nil {
		sess = sessionFromToken(token)
		s.logger.Debug("rebuilt session from token claims", "username", sess.Username)
	}
	sess.Token = token
	s.publishLocked(sess)
	return nil
}

func (s *Store) saveProfile(ctx context.Context, sess *model.Session) {
	data, err := json.Marshal(sess)
	if err == nil {
		err = s.storage.SetItem(ctx, ProfileKey, string(data))
	}
	if err != nil {
		s.logger.Warn("persist session profile", "error", err)
	}
}

func (s *Store) loadProfile(ctx context.Context) *model.Session {
	raw, ok, err := s.storage.GetItem(ctx, ProfileKey)
	if err != nil || !ok {
		return nil
	}
	var sess model.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		s.logger.Warn("discarding unreadable session profile", "error", err)
		return nil
	}
	if sess.Role == "" {
		sess.Role = model.RoleUser
	}
	return &sess
}

// sessionFromToken is the fallback when no profile was persisted.
func sessionFromToken(token string) *model.Session {
	info, _ := ParseToken(token)
	return &model.Session{
		Username:    info.Username,
		DisplayName: info.Username,
		Role:        model.RoleUser,
	}
}

// publishLocked swaps the current state and notifies subscribers in order.
// Callers hold s.mu.
func (s *Store) publishLocked(sess *model.Session) {
	st := &state{}
	if sess != nil {
		st.sess = sess.Clone()
		st.token = sess.Token
	}
	s.current.Store(st)

	s.subMu.Lock()
	subs := append([]subscriber(nil), s.subs...)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(st.sess.Clone())
	}
}

// persistedToken reads the stored token. When storage cannot be read it
// falls back to the token last published.
func (s *Store) persistedToken(ctx context.Context) (string, bool) {
	token, ok, err := s.storage.GetItem(ctx, TokenKey)
	if err != nil {
		s.logger.Warn("read persisted token", "error", err)
		token = s.current.Load().token
		return token, token != ""
	}
	return token, ok && token != ""
}

// heldToken returns the persisted token. If the token was removed from
// storage while a session is still published, the session is ended.
func (s *Store) heldToken() string {
	token, ok := s.persistedToken(context.Background())
	if !ok && s.current.Load().sess != nil {
		s.dropCleared()
	}
	return token
}

func (s *Store) dropCleared() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.persistedToken(context.Background()); ok || s.current.Load().sess == nil {
		return
	}
	s.logger.Info("persisted token was cleared, signing out")
	s.clearLocked()
}

// Current returns a copy of the published session, or nil when logged out.
func (s *Store) Current() *model.Session {
	s.heldToken()
	return s.current.Load().sess.Clone()
}

// IsAuthenticated reports whether a token is persisted.
func (s *Store) IsAuthenticated() bool {
	return s.heldToken() != ""
}

// IsAdmin reports whether the current session has the admin role.
func (s *Store) IsAdmin() bool {
	return s.Current().IsAdmin()
}

// Token returns the persisted bearer token, or "" when logged out.
func (s *Store) Token() string {
	return s.heldToken()
}

// Subscribe registers fn to receive every published session (nil meaning
// logged out), in publication order. fn runs synchronously while the store
// commits and must not call Login, Logout, Expire or Restore.
func (s *Store) Subscribe(fn func(*model.Session)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}
