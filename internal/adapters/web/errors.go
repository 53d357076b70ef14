package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"invoicing-app/internal/core"
	"invoicing-app/internal/rdbms"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONStatus writes a JSON response with an explicit status code.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps a service-layer error onto the HTTP status and
// stable error code the API promises. Storage failures never leak query
// text to the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *core.ValidationError
	var partial *rdbms.PartialApplyError

	switch {
	case errors.As(err, &ve):
		writeError(w, r, ve.Error(), "VALIDATION_ERROR", http.StatusBadRequest)
	case errors.Is(err, core.ErrInvalidCredentials):
		writeError(w, r, "invalid email or password", "INVALID_CREDENTIALS", http.StatusUnauthorized)
	case errors.Is(err, core.ErrUnauthenticated):
		writeError(w, r, "authentication required", "UNAUTHENTICATED", http.StatusUnauthorized)
	case errors.Is(err, core.ErrSessionExpired):
		writeError(w, r, "session expired", "SESSION_EXPIRED", http.StatusUnauthorized)
	case errors.Is(err, core.ErrNotFound):
		writeError(w, r, "not found", "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrOverpayment):
		writeError(w, r, err.Error(), "OVERPAYMENT_REJECTED", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrConflict):
		writeError(w, r, "the invoice was modified concurrently, retry", "CONFLICT", http.StatusConflict)
	case errors.As(err, &partial):
		writeError(w, r, partial.Error(), "PARTIAL_APPLY", http.StatusInternalServerError)
	case errors.Is(err, rdbms.ErrConstraint):
		writeError(w, r, "a storage constraint rejected the change", "CONSTRAINT_VIOLATION", http.StatusConflict)
	case errors.Is(err, rdbms.ErrTimeout):
		writeError(w, r, "storage engine timed out", "ENGINE_TIMEOUT", http.StatusGatewayTimeout)
	case errors.Is(err, rdbms.ErrEngineUnavailable):
		writeError(w, r, "storage engine unavailable", "ENGINE_UNAVAILABLE", http.StatusServiceUnavailable)
	default:
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
