package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vbonduro/salonbook/internal/service"
	"github.com/vbonduro/salonbook/internal/validate"
)

const maxBodySize = 64 * 1024

// maxErrorDetailLen caps store error text returned to clients.
const maxErrorDetailLen = 80

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"message": service.RootMessage})
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.diagnostics.Report(r.Context()))
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.reviews.List(r.Context()))
}

func (s *Server) handleSEOKeywords(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"keywords": service.SEOKeywords()})
}

type createAppointmentResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

func (s *Server) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	raw, err := validate.DecodeObject(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Detail: "request body too large"})
			return
		}
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid JSON body"})
		return
	}

	id, err := s.appointments.Create(r.Context(), raw)
	if err != nil {
		var verr *validate.ValidationError
		if errors.As(err, &verr) {
			s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: verr.Fields})
			return
		}
		s.logger.Error("create appointment failed", "request_id", requestIDFromContext(r.Context()), "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: service.Truncate(err.Error(), maxErrorDetailLen)})
		return
	}

	s.writeJSON(w, http.StatusOK, createAppointmentResponse{OK: true, ID: id})
}

type errorResponse struct {
	Detail any `json:"detail"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response failed", "error", err)
	}
}
