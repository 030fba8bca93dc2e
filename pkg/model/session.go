package model

// Session is the client's record of the currently authenticated identity.
// A Session only exists while a bearer token is held; its absence means
// "logged out".
type Session struct {
	SubjectID   int64  `json:"subject_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Role        Role   `json:"role"`
	Token       string `json:"-"` // bearer token, never persisted with the profile
}

// NewSession builds a Session from a sign-in response.
func NewSession(resp *AuthResponse) *Session {
	display := resp.FirstName
	if display == "" {
		display = resp.Username
	}
	return &Session{
		SubjectID:   resp.ID,
		Username:    resp.Username,
		DisplayName: display,
		Email:       resp.Email,
		FirstName:   resp.FirstName,
		LastName:    resp.LastName,
		Role:        DeriveRole(resp.Roles),
		Token:       resp.Token,
	}
}

// IsAdmin reports whether the session has admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// Clone returns a copy that can be handed out without exposing the original.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
