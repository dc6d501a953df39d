package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/printscript/snippet-manager/internal/apperror"
)

// ErrorResponse is the standard error shape returned by all endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable kind, e.g. "not_shared"
	Message string `json:"message"` // human-readable description
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent at this point; log and move on.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status. Forbidden and
// NotShared both map to 403 but keep distinct error codes, so a client
// can tell "not yours" from "never shared with you". Persistence
// failures map to 502: the upstream store failed, the request may be
// retried.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		// Persistence first: it may wrap another kind (e.g. a NotFound
		// cause from a store) and the storage failure is what matters.
		case errors.Is(err, apperror.ErrPersistence):
			status = http.StatusBadGateway
			errorType = "storage_error"
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotShared):
			status = http.StatusForbidden
			errorType = "not_shared"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	// Unknown error: never leak internals to the client.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
