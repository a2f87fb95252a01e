package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"streamdvr/internal/capture"
	"streamdvr/internal/manager"
	"streamdvr/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var he HTTPError
	switch {
	case manager.IsInvalid(err):
		return http.StatusBadRequest
	case manager.IsNotFound(err):
		return http.StatusNotFound
	case manager.IsNotAwaiting(err), manager.IsAlreadyActive(err), manager.IsNotRecording(err):
		return http.StatusConflict
	case capture.IsLaunchError(err):
		return http.StatusBadGateway
	case errors.As(err, &he):
		return he.StatusCode()
	default:
		return http.StatusInternalServerError
	}
}

// rejectReason labels rejected commands for metrics.
func rejectReason(err error) string {
	switch {
	case manager.IsInvalid(err):
		return "invalid"
	case manager.IsNotFound(err):
		return "not_found"
	case manager.IsNotAwaiting(err):
		return "not_awaiting"
	case manager.IsAlreadyActive(err):
		return "already_active"
	case manager.IsNotRecording(err):
		return "not_recording"
	default:
		return ""
	}
}

// writeServiceError maps err and writes it as a JSON error payload.
func writeServiceError(w http.ResponseWriter, err error) {
	if reason := rejectReason(err); reason != "" {
		IncrementRejected(reason)
	}
	writeJSONError(w, statusFor(err), err.Error())
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zlog.Warn().Err(err).Msg("encode response")
	}
}
