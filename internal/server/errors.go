package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/saleshq/calapi/internal/services/event"
)

// writeJSON renders a success payload.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders a generic error envelope. Messages are fixed per status
// class; internals never leak to the caller.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError maps event service errors to responses. A not-found event
// renders exactly like a tenant mismatch: 403 "forbidden", so the caller
// cannot distinguish a foreign event from a missing one.
func writeServiceError(logger *zap.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, event.ErrEventNotFound):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, event.ErrInvalidEvent):
		writeError(w, http.StatusBadRequest, "invalid event payload")
	default:
		logger.Error("event operation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
