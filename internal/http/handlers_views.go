package http

import (
	"net/http"

	"manoah/internal/core"
	"manoah/internal/ledger"
)

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	col, ok := collectionFromPath(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	if q.Get("class") != "" && col != ledger.Liabilities {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "class filter applies to liabilities only"})
		return
	}
	groups, err := s.svc.Groups(r.Context(), col, q.Get("filter"), q.Get("class"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if groups == nil {
		groups = []core.Group{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleBillingCycle(w http.ResponseWriter, r *http.Request) {
	buckets, err := s.svc.BillingCycle(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if sum, found := s.summaryCache.Get(summaryCacheKey); found {
		writeJSON(w, http.StatusOK, sum)
		return
	}

	sum, err := s.svc.Summary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.summaryCache.Set(summaryCacheKey, sum)
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.Currencies)
}
