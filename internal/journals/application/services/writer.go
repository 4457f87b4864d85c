package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/habitlog/habitlog/internal/journals/domain"
	sharedApplication "github.com/habitlog/habitlog/internal/shared/application"
)

var errCompletionsFailed = errors.New("task completion insert failed")

// SubmissionWriter stores a journal and its task completions as one unit.
type SubmissionWriter struct {
	journals domain.JournalRepository
	uow      sharedApplication.UnitOfWork
	logger   *slog.Logger
}

// NewSubmissionWriter creates a new writer.
func NewSubmissionWriter(journals domain.JournalRepository, uow sharedApplication.UnitOfWork, logger *slog.Logger) *SubmissionWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmissionWriter{
		journals: journals,
		uow:      uow,
		logger:   logger,
	}
}

// Write inserts the journal then its completions inside a transaction. When
// the completion batch fails, the journal is also deleted outside the
// transaction so stores without rollback do not keep an orphan.
func (w *SubmissionWriter) Write(ctx context.Context, journal *domain.Journal) error {
	err := sharedApplication.WithUnitOfWork(ctx, w.uow, func(txCtx context.Context) error {
		if err := w.journals.Create(txCtx, journal); err != nil {
			return err
		}
		if len(journal.Completions()) == 0 {
			return nil
		}
		if err := w.journals.CreateCompletions(txCtx, journal.Completions()); err != nil {
			return errors.Join(errCompletionsFailed, err)
		}
		return nil
	})
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrDuplicateSubmission):
		existing, findErr := w.journals.FindForDay(ctx, journal.UserID(), journal.CategoryID(), journal.Type(), journal.CreatedAt())
		if findErr != nil {
			w.logger.Warn("failed to load conflicting journal", "error", findErr)
		}
		return DuplicateError(existing)
	case errors.Is(err, errCompletionsFailed):
		w.compensate(ctx, journal)
		return sharedApplication.DatabaseError("failed to save task completions", err)
	default:
		return sharedApplication.DatabaseError("failed to save journal", err)
	}
}

func (w *SubmissionWriter) compensate(ctx context.Context, journal *domain.Journal) {
	err := w.journals.Delete(ctx, journal.ID())
	if err == nil || errors.Is(err, domain.ErrJournalNotFound) {
		return
	}
	w.logger.Error("compensating journal delete failed",
		"journal_id", journal.ID(),
		"user_id", journal.UserID(),
		"error", err,
	)
}
