package http

import (
	"net/http"

	"manoah/internal/core"
	"manoah/internal/ledger"
)

func (s *Server) handleAddPayment(w http.ResponseWriter, r *http.Request) {
	col, ok := collectionFromPath(w, r)
	if !ok {
		return
	}

	var p core.Payment
	if !decodeJSON(w, r, &p) {
		return
	}

	rec, err := s.svc.AddPayment(r.Context(), col, r.PathValue("id"), p)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummary()
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleEditPayment(w http.ResponseWriter, r *http.Request) {
	col, ok := collectionFromPath(w, r)
	if !ok {
		return
	}

	var p core.Payment
	if !decodeJSON(w, r, &p) {
		return
	}

	rec, err := s.svc.EditPayment(r.Context(), col, r.PathValue("id"), r.PathValue("paymentID"), p)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummary()
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	col, ok := collectionFromPath(w, r)
	if !ok {
		return
	}

	rec, err := s.svc.DeletePayment(r.Context(), col, r.PathValue("id"), r.PathValue("paymentID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummary()
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if !decodeJSON(w, r, &t) {
		return
	}

	rec, err := s.svc.AddTransaction(r.Context(), ledger.Liabilities, r.PathValue("id"), t)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummary()
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.DeleteTransaction(r.Context(), ledger.Liabilities, r.PathValue("id"), r.PathValue("txID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummary()
	writeJSON(w, http.StatusOK, rec)
}
