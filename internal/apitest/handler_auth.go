package apitest

import (
	"net/http"

	"github.com/me/fintrade/pkg/model"
)

// handleSignIn handles POST /api/auth/signin.
func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Error: malformed request")
		return
	}

	s.mu.Lock()
	gate := s.signInGate
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	s.mu.Lock()
	acct := s.findByUsernameLocked(req.Username)
	s.mu.Unlock()
	if acct == nil || acct.password != req.Password {
		respondMessage(w, http.StatusUnauthorized, "Error: Bad credentials")
		return
	}
	if !acct.Enabled {
		respondMessage(w, http.StatusUnauthorized, "Error: User account is disabled")
		return
	}

	token, err := s.issueToken(acct)
	if err != nil {
		respondMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(w, model.AuthResponse{
		Token:     token,
		Type:      "Bearer",
		ID:        acct.ID,
		Username:  acct.Username,
		Email:     acct.Email,
		FirstName: acct.FirstName,
		LastName:  acct.LastName,
		Roles:     authorities(acct.Role),
	})
}

// handleSignUp handles POST /api/auth/signup.
func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeBody(r, &req); err != nil || req.Username == "" || req.Password == "" {
		respondMessage(w, http.StatusBadRequest, "Error: malformed request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.users {
		if a.Username == req.Username {
			respondMessage(w, http.StatusBadRequest, "Error: Username is already taken!")
			return
		}
		if a.Email == req.Email {
			respondMessage(w, http.StatusBadRequest, "Error: Email is already in use!")
			return
		}
	}
	s.addUserLocked(req, model.RoleUser)
	respondMessage(w, http.StatusOK, "User registered successfully!")
}
