package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	progressCommands "github.com/habitlog/habitlog/internal/progress/application/commands"
	progressQueries "github.com/habitlog/habitlog/internal/progress/application/queries"
	progressDomain "github.com/habitlog/habitlog/internal/progress/domain"
	sharedApplication "github.com/habitlog/habitlog/internal/shared/application"
	"github.com/habitlog/habitlog/pkg/observability"
)

// ProgressGetter composes a progress report.
type ProgressGetter interface {
	Handle(ctx context.Context, query progressQueries.GetProgressQuery) (*progressDomain.Report, error)
}

// ProgressUpdater recomputes the current week's progress.
type ProgressUpdater interface {
	Handle(ctx context.Context, cmd progressCommands.UpdateProgressCommand) (*progressDomain.ProgressTracking, error)
}

// ProgressHandler serves the progress endpoints.
type ProgressHandler struct {
	getter  ProgressGetter
	updater ProgressUpdater
	metrics observability.Metrics
	logger  *slog.Logger
}

// NewProgressHandler creates a new progress handler. Report and refresh
// latency is recorded as operation timings.
func NewProgressHandler(getter ProgressGetter, updater ProgressUpdater, metrics observability.Metrics, logger *slog.Logger) *ProgressHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressHandler{getter: getter, updater: updater, metrics: metrics, logger: logger}
}

// Get handles GET /api/v1/progress/{categoryID}.
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathUUID(r, "categoryID")
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	weeks := 0
	if raw := r.URL.Query().Get("weeks"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeAppError(w, r, h.logger, sharedApplication.ValidationFailed("invalid weeks", sharedApplication.FieldError{
				Field:   "weeks",
				Message: "must be an integer",
			}))
			return
		}
		weeks = progressQueries.ClampWeeks(n)
	}

	report, err := observability.TimeOperation(r.Context(), nil, h.metrics, "progress.get", func() (*progressDomain.Report, error) {
		return h.getter.Handle(r.Context(), progressQueries.GetProgressQuery{
			UserID:     UserIDFromContext(r.Context()),
			CategoryID: categoryID,
			Weeks:      weeks,
		})
	})
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Refresh handles POST /api/v1/progress/{categoryID}/refresh.
func (h *ProgressHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathUUID(r, "categoryID")
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	tracking, err := observability.TimeOperation(r.Context(), nil, h.metrics, "progress.update", func() (*progressDomain.ProgressTracking, error) {
		return h.updater.Handle(r.Context(), progressCommands.UpdateProgressCommand{
			UserID:     UserIDFromContext(r.Context()),
			CategoryID: categoryID,
		})
	})
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tracking)
}
