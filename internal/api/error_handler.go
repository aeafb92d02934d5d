package api

import (
	"encoding/json"
	"net/http"

	"github.com/vytor/studysmart/internal/errors"
	"github.com/vytor/studysmart/internal/logger"
)

type errorBody struct {
	Error      string `json:"error"`
	Type       string `json:"type"`
	Details    any    `json:"details,omitempty"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.NewInternalError(err)
	}

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else if appErr.Status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	body := errorBody{Error: appErr.Message, Type: appErr.Code, Details: appErr.Details}
	if appErr.Code == errors.ErrCodeRateLimited {
		body.RetryAfter = retryAfterSeconds
	}
	writeJSON(w, r, appErr.Status, body)
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}
