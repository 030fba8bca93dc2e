package apitest

import (
	"net/http"
	"sort"
	"time"

	"github.com/me/fintrade/pkg/model"
)

func (s *Server) accountLocked(w http.ResponseWriter, r *http.Request) *account {
	id, ok := pathID(r)
	if !ok {
		respondSpringError(w, http.StatusBadRequest)
		return nil
	}
	a, found := s.users[id]
	if !found {
		w.WriteHeader(http.StatusNotFound)
		return nil
	}
	return a
}

func (s *Server) handleUserList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.users))
	for _, a := range s.users {
		out = append(out, a.User)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	respondOK(w, out)
}

func (s *Server) handleUserGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.accountLocked(w, r); a != nil {
		respondOK(w, a.User)
	}
}

func (s *Server) handleUserUpdate(w http.ResponseWriter, r *http.Request) {
	var in model.User
	if err := decodeBody(r, &in); err != nil {
		respondMessage(w, http.StatusBadRequest, "Error: malformed request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accountLocked(w, r)
	if a == nil {
		return
	}
	if in.Email != "" {
		a.Email = in.Email
	}
	if in.FirstName != "" {
		a.FirstName = in.FirstName
	}
	if in.LastName != "" {
		a.LastName = in.LastName
	}
	if in.Role == model.RoleUser || in.Role == model.RoleAdmin {
		a.Role = in.Role
	}
	a.UpdatedAt = model.Timestamp{Time: time.Now().Truncate(time.Second)}
	respondOK(w, a.User)
}

func (s *Server) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accountLocked(w, r)
	if a == nil {
		return
	}
	delete(s.users, a.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUserToggle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accountLocked(w, r)
	if a == nil {
		return
	}
	a.Enabled = !a.Enabled
	a.UpdatedAt = model.Timestamp{Time: time.Now().Truncate(time.Second)}
	respondOK(w, a.User)
}
