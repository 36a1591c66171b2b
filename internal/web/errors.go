package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/uteam-club/uteam-sub004/internal/canon"
	"github.com/uteam-club/uteam-sub004/internal/gpsunits"
	"github.com/uteam-club/uteam-sub004/internal/logging"
	"github.com/uteam-club/uteam-sub004/internal/report"
	"github.com/uteam-club/uteam-sub004/internal/sheet"
)

// apiError is the JSON error body returned to clients. Details is only
// populated for structured batch errors (duplicate mappings) where the
// client needs machine-readable context to fix the request.
type apiError struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// writeError maps a pipeline error to an HTTP status and a sanitized
// JSON body. Internal errors are logged in full but never leak to the
// client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logging.FromContext(r.Context())

	var dup *canon.DuplicateMappingError
	if errors.As(err, &dup) {
		log.Warn("rejected upload", "code", dup.Code(), "collisions", len(dup.Collisions))
		writeJSON(w, http.StatusBadRequest, apiError{
			Error:   dup.Error(),
			Code:    dup.Code(),
			Details: dup.Collisions,
		})
		return
	}

	var conv *gpsunits.UnsupportedConversionError
	if errors.As(err, &conv) {
		log.Warn("rejected request", "error", err)
		writeJSON(w, http.StatusBadRequest, apiError{Error: conv.Error(), Code: "unsupported_conversion"})
		return
	}

	switch {
	case errors.Is(err, report.ErrProfileNotFound):
		writeJSON(w, http.StatusNotFound, apiError{Error: err.Error(), Code: "profile_not_found"})
	case errors.Is(err, report.ErrReportNotFound):
		writeJSON(w, http.StatusNotFound, apiError{Error: err.Error(), Code: "report_not_found"})
	case errors.Is(err, report.ErrNoMappings):
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error(), Code: "no_mappings"})
	case errors.Is(err, sheet.ErrEmptyFile),
		errors.Is(err, sheet.ErrNoSheet),
		errors.Is(err, sheet.ErrUnsupportedFormat):
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error(), Code: "invalid_file"})
	default:
		log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, apiError{
			Error: userMessage(err),
			Code:  "internal_error",
		})
	}
}

// writeBadRequest reports a malformed request with a fixed code.
func writeBadRequest(w http.ResponseWriter, code, message string) {
	writeJSON(w, http.StatusBadRequest, apiError{Error: message, Code: code})
}

// userMessage converts a technical error into a user-facing message by
// pattern matching, keeping stack-internal detail out of responses.
// Patterns are matched case-insensitively; the first match wins, so
// specific patterns come before general ones.
func userMessage(err error) string {
	msg := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(msg, p.pattern) {
			return p.message
		}
	}
	return "An unexpected error occurred. Please try again or contact support."
}

type errorPattern struct {
	pattern string
	message string
}

var errorPatterns = []errorPattern{
	{"duplicate key", "A report with this ID already exists."},
	{"foreign key", "A referenced record does not exist. Check the club, team, and profile IDs."},
	{"connection refused", "The database is unavailable. Please try again in a few moments."},
	{"connection reset", "The database connection was interrupted. Please try again."},
	{"context deadline exceeded", "The request timed out. Try a smaller file or try again later."},
	{"context canceled", "The request was cancelled. Please try again."},
	{"timeout", "The operation timed out. Please try again later."},
}

// writeJSON encodes v as JSON with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}
