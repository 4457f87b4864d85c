package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/progress/application/services"
	"github.com/habitlog/habitlog/internal/progress/domain"
	sharedApplication "github.com/habitlog/habitlog/internal/shared/application"
	sharedDomain "github.com/habitlog/habitlog/internal/shared/domain"
)

// EventPublisher delivers committed domain events.
type EventPublisher interface {
	PublishAll(ctx context.Context, events []sharedDomain.DomainEvent) int
}

// UpdateProgressCommand recomputes the current week for a user and category.
type UpdateProgressCommand struct {
	UserID     uuid.UUID
	CategoryID uuid.UUID
}

// UpdateProgressHandler recomputes and upserts the current week's row.
type UpdateProgressHandler struct {
	calculator *services.WeeklyProgressCalculator
	repo       domain.Repository
	uow        sharedApplication.UnitOfWork
	cache      domain.ReportCache
	events     EventPublisher
	logger     *slog.Logger
	now        func() time.Time
}

// NewUpdateProgressHandler creates a new handler.
func NewUpdateProgressHandler(
	calculator *services.WeeklyProgressCalculator,
	repo domain.Repository,
	uow sharedApplication.UnitOfWork,
	cache domain.ReportCache,
	events EventPublisher,
	logger *slog.Logger,
) *UpdateProgressHandler {
	if cache == nil {
		cache = domain.NoopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UpdateProgressHandler{
		calculator: calculator,
		repo:       repo,
		uow:        uow,
		cache:      cache,
		events:     events,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock replaces the handler's time source.
func (h *UpdateProgressHandler) WithClock(now func() time.Time) *UpdateProgressHandler {
	h.now = now
	return h
}

// Handle recomputes the week containing now. Repeated calls for the same
// week update the same row.
func (h *UpdateProgressHandler) Handle(ctx context.Context, cmd UpdateProgressCommand) (*domain.ProgressTracking, error) {
	if cmd.UserID == uuid.Nil {
		return nil, sharedApplication.Unauthorized("missing user identity")
	}
	now := h.now().UTC()

	var week *domain.ProgressTracking
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		var err error
		week, err = h.calculator.Compute(txCtx, cmd.UserID, cmd.CategoryID, now)
		if err != nil {
			return sharedApplication.DatabaseError("failed to compute progress", err)
		}

		existing, err := h.repo.FindByWeek(txCtx, cmd.UserID, cmd.CategoryID, week.WeekStartDate)
		if err != nil {
			return sharedApplication.DatabaseError("failed to load progress", err)
		}
		if existing != nil {
			week.ID = existing.ID
		} else {
			week.ID = uuid.New()
		}

		if err := h.repo.Upsert(txCtx, week); err != nil {
			return sharedApplication.DatabaseError("failed to save progress", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.cache.Invalidate(ctx, cmd.UserID, cmd.CategoryID)

	if h.events != nil {
		events := []sharedDomain.DomainEvent{domain.NewProgressUpdated(week)}
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(cmd.UserID))
		h.events.PublishAll(ctx, events)
	}

	h.logger.DebugContext(ctx, "progress updated",
		"user_id", cmd.UserID,
		"category_id", cmd.CategoryID,
		"week_start", week.WeekStartDate.Format(time.DateOnly),
		"completed", week.CompletedCount,
		"target", week.TargetCount,
	)
	return week, nil
}
