package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"manoah/internal/ai"
	"manoah/internal/core"
	"manoah/internal/ledger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ai.ErrBusy):
		status = http.StatusTooManyRequests
	case errors.Is(err, ai.ErrParseFailure):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ai.ErrUpstream), errors.Is(err, ai.ErrNoCredential):
		status = http.StatusServiceUnavailable
	case isValidationError(err):
		status = http.StatusUnprocessableEntity
	}

	if status >= 500 {
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrEmptyCounterparty,
		core.ErrEmptyMerchant,
		core.ErrNoteTooLong,
		core.ErrInvalidChargeDay,
		core.ErrInvalidStatus,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

// collectionFromPath validates the {collection} path segment.
func collectionFromPath(w http.ResponseWriter, r *http.Request) (ledger.Collection, bool) {
	col := ledger.Collection(r.PathValue("collection"))
	if !col.Valid() {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown collection: " + string(col)})
		return "", false
	}
	return col, true
}
