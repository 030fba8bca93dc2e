package guard

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/me/fintrade/pkg/model"
)

var (
	userSession  = &model.Session{Username: "alice", Role: model.RoleUser}
	adminSession = &model.Session{Username: "root", Role: model.RoleAdmin}
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name  string
		route Route
		sess  *model.Session
		want  Decision
	}{
		{"public, no session", Login, nil, Decision{Allowed: true}},
		{"public, signed in", Register, userSession, Decision{Allowed: true}},
		{"user route, no session", Portfolio, nil, Decision{Redirect: Login, Reason: ReasonLoginRequired}},
		{"user route, user", Transactions, userSession, Decision{Allowed: true}},
		{"user route, admin", Dashboard, adminSession, Decision{Allowed: true}},
		{"admin route, no session", Admin, nil, Decision{Redirect: Login, Reason: ReasonLoginRequired}},
		{"admin route, user", Admin, userSession, Decision{Redirect: Default, Reason: ReasonAdminRequired}},
		{"admin route, admin", Admin, adminSession, Decision{Allowed: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.route, tt.sess)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Check mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		path string
		want Route
	}{
		{"", Dashboard},
		{"/", Dashboard},
		{"/login", Login},
		{"register", Register},
		{"/portfolio/", Portfolio},
		{"/transactions?type=BUY", Transactions},
		{"/ADMIN", Admin},
		{"/admin/users", Admin},
		{"/nowhere", Dashboard},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Resolve(tt.path); got != tt.want {
				t.Errorf("Resolve(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

type fixedSession struct{ sess *model.Session }

func (f fixedSession) Current() *model.Session { return f.sess }

func TestNavigator(t *testing.T) {
	tests := []struct {
		name       string
		sess       *model.Session
		path       string
		wantRoute  Route
		wantReason string
	}{
		{"anonymous to dashboard", nil, "/dashboard", Login, ReasonLoginRequired},
		{"anonymous to admin", nil, "/admin", Login, ReasonLoginRequired},
		{"user to admin", userSession, "/admin", Dashboard, ReasonAdminRequired},
		{"admin to admin", adminSession, "/admin", Admin, ""},
		{"user to unknown", userSession, "/nope", Dashboard, ""},
		{"anonymous to login", nil, "/login", Login, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := NewNavigator(fixedSession{tt.sess}, nil)
			got, err := nav.Navigate(tt.path)
			if got != tt.wantRoute {
				t.Errorf("landed on %v, want %v", got, tt.wantRoute)
			}
			if nav.Current() != tt.wantRoute {
				t.Errorf("Current = %v, want %v", nav.Current(), tt.wantRoute)
			}

			var redirect *RedirectError
			if tt.wantReason == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.As(err, &redirect) {
				t.Fatalf("expected *RedirectError, got %v", err)
			}
			if redirect.Reason != tt.wantReason || redirect.To != tt.wantRoute {
				t.Errorf("redirect = %+v", redirect)
			}
		})
	}
}

func TestNavigator_History(t *testing.T) {
	src := &fixedSession{}
	nav := NewNavigator(src, nil)
	nav.Navigate("/portfolio")
	src.sess = userSession
	nav.Navigate("/portfolio")
	nav.Navigate("/admin")

	want := []Route{Login, Portfolio, Dashboard}
	if diff := cmp.Diff(want, nav.History()); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}
