package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	journalCommands "github.com/habitlog/habitlog/internal/journals/application/commands"
	sharedApplication "github.com/habitlog/habitlog/internal/shared/application"
	"github.com/habitlog/habitlog/pkg/observability"
)

// JournalSubmitter records a structured journal.
type JournalSubmitter interface {
	Handle(ctx context.Context, cmd journalCommands.SubmitStructuredJournalCommand) (*journalCommands.SubmitJournalResult, error)
}

// JournalDeleter soft-deletes a journal.
type JournalDeleter interface {
	Handle(ctx context.Context, cmd journalCommands.DeleteJournalCommand) error
}

// JournalHandler serves the journal endpoints.
type JournalHandler struct {
	submitter JournalSubmitter
	deleter   JournalDeleter
	validator *RequestValidator
	metrics   observability.Metrics
	logger    *slog.Logger
}

// NewJournalHandler creates a new journal handler.
func NewJournalHandler(submitter JournalSubmitter, deleter JournalDeleter, metrics observability.Metrics, logger *slog.Logger) *JournalHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &JournalHandler{
		submitter: submitter,
		deleter:   deleter,
		validator: NewRequestValidator(),
		metrics:   metrics,
		logger:    logger,
	}
}

// SubmitStructured handles POST /api/v1/journals/structured.
func (h *JournalHandler) SubmitStructured(w http.ResponseWriter, r *http.Request) {
	var req SubmitJournalRequest
	if err := h.validator.Decode(r, &req); err != nil {
		h.reject(w, r, err)
		return
	}

	result, err := h.submitter.Handle(r.Context(), req.Command(UserIDFromContext(r.Context())))
	if err != nil {
		h.reject(w, r, err)
		return
	}

	outcome := "ok"
	if result.Progress.Degraded {
		outcome = "degraded"
	}
	h.metrics.Counter(observability.MetricJournalsSubmitted, 1, observability.T("outcome", outcome))
	writeJSON(w, http.StatusCreated, result)
}

// Delete handles DELETE /api/v1/journals/{id}.
func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	journalID, err := pathUUID(r, "id")
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	err = h.deleter.Handle(r.Context(), journalCommands.DeleteJournalCommand{
		UserID:    UserIDFromContext(r.Context()),
		JournalID: journalID,
	})
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	h.metrics.Counter(observability.MetricJournalsDeleted, 1)
	w.WriteHeader(http.StatusNoContent)
}

func (h *JournalHandler) reject(w http.ResponseWriter, r *http.Request, err error) {
	h.metrics.Counter(observability.MetricJournalsRejected, 1,
		observability.T("code", string(sharedApplication.CodeOf(err))))
	writeAppError(w, r, h.logger, err)
}

// pathUUID parses a path parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, sharedApplication.ValidationFailed("invalid "+name, sharedApplication.FieldError{
			Field:   name,
			Message: "must be a UUID",
		})
	}
	return id, nil
}
