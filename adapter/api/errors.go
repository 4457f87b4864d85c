package api

import (
	"errors"
	"log/slog"
	"net/http"

	sharedApplication "github.com/habitlog/habitlog/internal/shared/application"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error            string                         `json:"error"`
	ErrorCode        sharedApplication.ErrorCode    `json:"error_code"`
	ValidationErrors []sharedApplication.FieldError `json:"validation_errors,omitempty"`
	Details          map[string]any                 `json:"details,omitempty"`
}

// StatusForCode maps an application error code to its HTTP status.
func StatusForCode(code sharedApplication.ErrorCode) int {
	switch code {
	case sharedApplication.CodeUnauthorized:
		return http.StatusUnauthorized
	case sharedApplication.CodeValidationFailed:
		return http.StatusBadRequest
	case sharedApplication.CodeResourceNotFound:
		return http.StatusNotFound
	case sharedApplication.CodeForbidden:
		return http.StatusForbidden
	case sharedApplication.CodeDuplicateResource:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeAppError writes err as an error envelope. Store and unclassified
// failures are logged and their causes are not exposed.
func writeAppError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var appErr *sharedApplication.Error
	if !errors.As(err, &appErr) {
		appErr = sharedApplication.NewError(sharedApplication.CodeInternalError, "internal error")
		appErr.Err = err
	}

	status := StatusForCode(appErr.Code)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error_code", appErr.Code,
			"error", err,
		)
	}

	writeJSON(w, status, ErrorResponse{
		Error:            appErr.Message,
		ErrorCode:        appErr.Code,
		ValidationErrors: appErr.ValidationErrors,
		Details:          appErr.Details,
	})
}

// writeError writes an error envelope for failures raised by the adapter
// itself.
func writeError(w http.ResponseWriter, code sharedApplication.ErrorCode, message string) {
	writeJSON(w, StatusForCode(code), ErrorResponse{
		Error:     message,
		ErrorCode: code,
	})
}
