package web

// errors.go centralizes error responses: technical details are logged
// server-side with the request ID, clients get a stable JSON shape.

import (
	"encoding/json"
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/muniworks/landregistry/internal/importer"
	"github.com/muniworks/landregistry/internal/logging"
)

// ErrorResponse is the JSON body for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// respondError writes an error response. Typed importer errors carry their
// own status and code; anything else becomes a 500.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := ""
	message := "internal error"

	var appErr *importer.Error
	if errors.As(err, &appErr) {
		status = appErr.Status
		code = appErr.Code
		message = appErr.Message
	}

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"request_id", chimw.GetReqID(r.Context()),
	)

	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondJSON writes a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
