package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/muniworks/landregistry/internal/importer"
)

// validateRequest is the body of POST /api/import/validate.
type validateRequest struct {
	EntityType string         `json:"entityType"`
	Data       []importer.Row `json:"data"`
	UserID     string         `json:"userId"`
}

// commitRequest is the body of POST /api/import/commit.
type commitRequest struct {
	EntityType string         `json:"entityType"`
	ValidData  []importer.Row `json:"validData"`
	UserID     string         `json:"userId"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, &importer.Error{Status: 400, Code: "IMP000",
			Message: "invalid request body: " + err.Error()})
		return
	}

	entity, err := importer.ParseEntityType(req.EntityType)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.service.Validate(r.Context(), importer.UploadBatch{
		EntityType: entity,
		Rows:       req.Data,
		UserID:     userID(req.UserID, r),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, &importer.Error{Status: 400, Code: "IMP000",
			Message: "invalid request body: " + err.Error()})
		return
	}

	entity, err := importer.ParseEntityType(req.EntityType)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.service.Commit(r.Context(), entity, req.ValidData, userID(req.UserID, r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	entity, err := importer.ParseEntityType(chi.URLParam(r, "entityType"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	subtype, err := importer.ParseSubtype(r.URL.Query().Get("customerType"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	tmpl, err := importer.TemplateFor(entity, subtype)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "xlsx") {
		data, err := tmpl.XLSX()
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		name := fmt.Sprintf("%s_template.xlsx", entity)
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		_, _ = w.Write(data)
		return
	}

	respondJSON(w, http.StatusOK, tmpl)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// userID picks the submitting user id: the body field wins, then the
// header set by the upstream auth proxy, then a fixed fallback.
func userID(fromBody string, r *http.Request) string {
	if fromBody != "" {
		return fromBody
	}
	if h := r.Header.Get("X-User-ID"); h != "" {
		return h
	}
	return "system"
}
