package http

import (
	"net/http"
)

type smartAddRequest struct {
	Text string `json:"text"`
}

type smartAddResponse struct {
	Collection string `json:"collection"`
	Record     any    `json:"record"`
}

func (s *Server) handleSmartAdd(w http.ResponseWriter, r *http.Request) {
	var req smartAddRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	col, rec, err := s.svc.SmartAdd(r.Context(), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummary()
	writeJSON(w, http.StatusCreated, smartAddResponse{
		Collection: string(col),
		Record:     rec,
	})
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reply, err := s.svc.Chat(r.Context(), req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) handleRefreshInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := s.svc.RefreshInsights(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"insights": insights})
}
