// Package guard decides which views the current session may open.
package guard

import "strings"

// Requirement is what a route demands of the session.
type Requirement int

const (
	// Public routes are open to everyone.
	Public Requirement = iota
	// Authenticated routes need any session.
	Authenticated
	// AdminOnly routes need a session with the ADMIN role.
	AdminOnly
)

func (r Requirement) String() string {
	switch r {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case AdminOnly:
		return "admin"
	default:
		return "unknown"
	}
}

// Route is one navigable view.
type Route struct {
	Name    string
	Require Requirement
}

// Path is the route's navigation path.
func (r Route) Path() string { return "/" + r.Name }

func (r Route) String() string { return r.Name }

var (
	Login        = Route{Name: "login", Require: Public}
	Register     = Route{Name: "register", Require: Public}
	Dashboard    = Route{Name: "dashboard", Require: Authenticated}
	Portfolio    = Route{Name: "portfolio", Require: Authenticated}
	Transactions = Route{Name: "transactions", Require: Authenticated}
	Admin        = Route{Name: "admin", Require: AdminOnly}

	// Default is where empty and unknown paths, and wrong-role visits, land.
	Default = Dashboard
)

var table = []Route{Login, Register, Dashboard, Portfolio, Transactions, Admin}

// Routes returns the route table.
func Routes() []Route {
	return append([]Route(nil), table...)
}

// Resolve maps a path such as "/portfolio" or "admin/" to its route.
// Empty and unknown paths resolve to Default.
func Resolve(path string) Route {
	name := strings.Trim(strings.TrimSpace(path), "/")
	if i := strings.IndexAny(name, "/?#"); i >= 0 {
		name = name[:i]
	}
	name = strings.ToLower(name)
	for _, r := range table {
		if r.Name == name {
			return r
		}
	}
	return Default
}
