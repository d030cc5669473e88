package http

import (
	"net/http"

	"manoah/internal/core"
)

func (s *Server) handleListCharges(w http.ResponseWriter, r *http.Request) {
	charges, err := s.svc.ListCharges(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if charges == nil {
		charges = []core.ChargeReviewEntry{}
	}
	writeJSON(w, http.StatusOK, charges)
}

func (s *Server) handleCreateCharge(w http.ResponseWriter, r *http.Request) {
	var entry core.ChargeReviewEntry
	if !decodeJSON(w, r, &entry) {
		return
	}

	created, err := s.svc.CreateCharge(r.Context(), entry)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummary()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleApproveCharge(w http.ResponseWriter, r *http.Request) {
	entry, err := s.svc.ApproveCharge(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummary()
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleRejectCharge(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.RejectCharge(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummary()
	w.WriteHeader(http.StatusNoContent)
}
