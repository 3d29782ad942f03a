package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"fixo-backend/internal/domain"
	"fixo-backend/internal/logger"
	"fixo-backend/internal/service"
	"fixo-backend/internal/tracking"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps the domain error taxonomy onto HTTP status codes.
// Unknown errors become 500 without leaking their message.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrAlreadyAssigned):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, tracking.ErrAlreadySharing):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, tracking.ErrTimeout):
		writeJSON(w, http.StatusRequestTimeout, errorResponse{Error: err.Error()})
	case errors.Is(err, tracking.ErrUnsupported),
		errors.Is(err, tracking.ErrPermissionDenied),
		errors.Is(err, tracking.ErrUnavailable):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrServiceUnavailable),
		errors.Is(err, service.ErrPropertyUnavailable),
		errors.Is(err, service.ErrDateInPast),
		errors.Is(err, service.ErrStartDateInPast),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrOwnBooking),
		errors.Is(err, service.ErrProviderNotEligible),
		errors.Is(err, service.ErrPaymentsDisabled):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		logger.Error("Internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
