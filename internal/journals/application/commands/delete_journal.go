package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/journals/domain"
	sharedApplication "github.com/habitlog/habitlog/internal/shared/application"
)

// DeleteJournalCommand soft-deletes a journal owned by the user.
type DeleteJournalCommand struct {
	UserID    uuid.UUID
	JournalID uuid.UUID
}

// ProgressRebuilder recomputes every stored week for a user and category.
type ProgressRebuilder interface {
	Rebuild(ctx context.Context, userID, categoryID uuid.UUID) error
}

// DeleteJournalHandler handles journal deletion.
type DeleteJournalHandler struct {
	journals domain.JournalRepository
	uow      sharedApplication.UnitOfWork
	progress ProgressRebuilder
	events   EventPublisher
	logger   *slog.Logger
	now      func() time.Time
}

// NewDeleteJournalHandler creates a new handler.
func NewDeleteJournalHandler(
	journals domain.JournalRepository,
	uow sharedApplication.UnitOfWork,
	progress ProgressRebuilder,
	events EventPublisher,
	logger *slog.Logger,
) *DeleteJournalHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeleteJournalHandler{
		journals: journals,
		uow:      uow,
		progress: progress,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// Handle marks the journal deleted and rebuilds progress for its category.
// The journal may belong to any past week, and later weeks carry its streak,
// so every stored week of the pair is recomputed.
func (h *DeleteJournalHandler) Handle(ctx context.Context, cmd DeleteJournalCommand) error {
	if cmd.UserID == uuid.Nil {
		return sharedApplication.Unauthorized("missing user identity")
	}

	var journal *domain.Journal
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		var err error
		journal, err = h.journals.FindByID(txCtx, cmd.JournalID)
		if err != nil {
			return sharedApplication.DatabaseError("failed to load journal", err)
		}
		if journal == nil || journal.IsDeleted() {
			return sharedApplication.NotFound("journal not found").WithDetail("journal_id", cmd.JournalID.String())
		}

		if err := journal.SoftDelete(cmd.UserID, h.now()); err != nil {
			if errors.Is(err, domain.ErrJournalNotOwned) {
				return sharedApplication.Forbidden("journal belongs to another user")
			}
			return err
		}

		if err := h.journals.SoftDelete(txCtx, journal); err != nil {
			return sharedApplication.DatabaseError("failed to delete journal", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger := h.logger.With("journal_id", journal.ID(), "user_id", cmd.UserID, "category_id", journal.CategoryID())
	logger.InfoContext(ctx, "journal deleted")

	if h.events != nil {
		sharedApplication.ApplyEventMetadata(journal.DomainEvents(), sharedApplication.NewEventMetadata(cmd.UserID))
		h.events.PublishAll(ctx, journal.DomainEvents())
	}
	journal.ClearDomainEvents()

	if h.progress != nil {
		if err := h.progress.Rebuild(ctx, cmd.UserID, journal.CategoryID()); err != nil {
			logger.WarnContext(ctx, "progress rebuild failed after delete", "error", err)
		}
	}
	return nil
}
