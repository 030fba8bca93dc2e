package model

import "strings"

// Role represents the role of a user in the system.
type Role string

const (
	// RoleUser is a standard authenticated user.
	RoleUser Role = "USER"
	// RoleAdmin can manage other user accounts.
	RoleAdmin Role = "ADMIN"
)

// rolePrefix is prepended by the backend to every authority it issues.
const rolePrefix = "ROLE_"

// DeriveRole maps the authorities returned at sign-in to a Role.
// Only the first authority is considered; its "ROLE_" prefix is stripped.
// An empty list (or an empty authority) yields RoleUser.
func DeriveRole(roles []string) Role {
	if len(roles) == 0 {
		return RoleUser
	}
	r := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(roles[0]), rolePrefix))
	if r == "" {
		return RoleUser
	}
	return Role(r)
}

// User is an account as returned by the admin endpoints.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      Role      `json:"role"`
	Enabled   bool      `json:"enabled"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// LoginRequest is the body of POST /auth/signin.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/signup.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AuthResponse is the body returned by a successful sign-in.
type AuthResponse struct {
	Token     string   `json:"token"`
	Type      string   `json:"type"`
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
}

// MessageResponse is the generic {"message": ...} body used by the backend
// for acknowledgements and errors.
type MessageResponse struct {
	Message string `json:"message"`
}
