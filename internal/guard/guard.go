package guard

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/me/fintrade/internal/logging"
	"github.com/me/fintrade/pkg/model"
)

// Reasons attached to redirects.
const (
	ReasonLoginRequired = "please log in"
	ReasonAdminRequired = "admin access required"
)

// Decision is the guard's verdict for one navigation.
type Decision struct {
	Allowed  bool
	Redirect Route // set when !Allowed
	Reason   string
}

// Check decides whether sess may open route. It has no side effects.
func Check(route Route, sess *model.Session) Decision {
	switch route.Require {
	case Public:
		return Decision{Allowed: true}
	case Authenticated:
		if sess != nil {
			return Decision{Allowed: true}
		}
	case AdminOnly:
		if sess.IsAdmin() {
			return Decision{Allowed: true}
		}
	}
	if sess == nil {
		return Decision{Redirect: Login, Reason: ReasonLoginRequired}
	}
	return Decision{Redirect: Default, Reason: ReasonAdminRequired}
}

// MaxRedirects bounds how many redirects one navigation may follow.
const MaxRedirects = 4

// ErrRedirectLoop is returned when redirects do not settle.
var ErrRedirectLoop = errors.New("too many redirects")

// RedirectError reports that a navigation landed somewhere other than
// where it was headed.
type RedirectError struct {
	From   Route
	To     Route
	Reason string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("%s: cannot open %s (redirected to %s)", e.Reason, e.From, e.To)
}

// SessionSource supplies the session to check. *session.Store satisfies it.
type SessionSource interface {
	Current() *model.Session
}

// Navigator applies Check before every navigation and remembers where the
// user ended up.
type Navigator struct {
	sessions SessionSource
	logger   *slog.Logger

	mu      sync.Mutex
	current Route
	history []Route
}

// NewNavigator creates a Navigator positioned at Default.
func NewNavigator(sessions SessionSource, logger *slog.Logger) *Navigator {
	return &Navigator{
		sessions: sessions,
		logger:   logging.OrDiscard(logger).With("component", "guard"),
		current:  Default,
	}
}

// Navigate resolves path, follows guard redirects and records the route it
// lands on. It returns a *RedirectError when that is not the requested route.
func (n *Navigator) Navigate(path string) (Route, error) {
	requested := Resolve(path)
	route := requested
	var first *Decision

	for hops := 0; ; hops++ {
		if hops > MaxRedirects {
			return n.Current(), fmt.Errorf("navigate to %s: %w", requested, ErrRedirectLoop)
		}
		d := Check(route, n.sessions.Current())
		if d.Allowed {
			break
		}
		n.logger.Debug("redirect", "from", route.Name, "to", d.Redirect.Name, "reason", d.Reason)
		if first == nil {
			first = &d
		}
		route = d.Redirect
	}

	n.mu.Lock()
	n.current = route
	n.history = append(n.history, route)
	n.mu.Unlock()

	if first != nil {
		return route, &RedirectError{From: requested, To: route, Reason: first.Reason}
	}
	return route, nil
}

// Current returns the route of the last navigation.
func (n *Navigator) Current() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// History returns every route landed on, oldest first.
func (n *Navigator) History() []Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Route(nil), n.history...)
}
