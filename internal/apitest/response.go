package apitest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/me/fintrade/pkg/model"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondOK(w http.ResponseWriter, data any) {
	respondJSON(w, http.StatusOK, data)
}

// respondMessage writes the backend's {"message": ...} body.
func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, model.MessageResponse{Message: msg})
}

// respondSpringError mimics the framework's default error body, which has
// no "message" for security rejections.
func respondSpringError(w http.ResponseWriter, status int) {
	respondJSON(w, status, map[string]any{
		"status": status,
		"error":  http.StatusText(status),
	})
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}
