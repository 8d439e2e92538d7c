package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/visionhire/backend/internal/domain/interview"
	"github.com/visionhire/backend/internal/metrics"
	"github.com/visionhire/backend/internal/service"
	"github.com/visionhire/backend/internal/store"
)

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	interviews *service.InterviewService
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(interviews *service.InterviewService, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		interviews: interviews,
		metrics:    m,
		logger:     logger,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into v. Writes a 400 and
// returns false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// handleServiceError maps orchestrator errors onto HTTP responses.
// Returns true if an error was handled (caller should return).
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "interview not found", http.StatusNotFound)
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, "access denied", http.StatusForbidden)
	case errors.Is(err, service.ErrEmptyAnswer):
		http.Error(w, "answer is required", http.StatusBadRequest)
	case errors.Is(err, interview.ErrFinished):
		http.Error(w, "interview already finished", http.StatusConflict)
	default:
		h.logger.Error("service error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
	return true
}
