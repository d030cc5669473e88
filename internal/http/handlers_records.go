package http

import (
	"net/http"

	"manoah/internal/core"
	applog "manoah/internal/log"
)

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	col, ok := collectionFromPath(w, r)
	if !ok {
		return
	}

	records, err := s.svc.ListRecords(r.Context(), col)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if records == nil {
		records = []core.LedgerRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	col, ok := collectionFromPath(w, r)
	if !ok {
		return
	}

	var rec core.LedgerRecord
	if !decodeJSON(w, r, &rec) {
		return
	}

	created, err := s.svc.CreateRecord(r.Context(), col, rec)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.logx.LogRecordMutation(r.Context(), applog.OpCreate, string(col), created.ID, created.Counterparty)
	s.invalidateSummary()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	col, ok := collectionFromPath(w, r)
	if !ok {
		return
	}

	var rec core.LedgerRecord
	if !decodeJSON(w, r, &rec) {
		return
	}

	updated, err := s.svc.UpdateRecord(r.Context(), col, r.PathValue("id"), rec)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.logx.LogRecordMutation(r.Context(), applog.OpUpdate, string(col), updated.ID, updated.Counterparty)
	s.invalidateSummary()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	col, ok := collectionFromPath(w, r)
	if !ok {
		return
	}

	if err := s.svc.DeleteRecord(r.Context(), col, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}

	s.logx.LogRecordMutation(r.Context(), applog.OpDelete, string(col), r.PathValue("id"), "")
	s.invalidateSummary()
	w.WriteHeader(http.StatusNoContent)
}
