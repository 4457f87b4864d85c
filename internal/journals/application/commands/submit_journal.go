package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/journals/application/services"
	"github.com/habitlog/habitlog/internal/journals/domain"
	sharedApplication "github.com/habitlog/habitlog/internal/shared/application"
	sharedDomain "github.com/habitlog/habitlog/internal/shared/domain"
)

// SubmitStructuredJournalCommand contains the data for a checklist journal.
type SubmitStructuredJournalCommand struct {
	UserID          uuid.UUID
	CategoryID      uuid.UUID
	Title           string
	Reflection      string
	IsPublic        bool
	TaskCompletions []domain.CompletionEntry
}

// JournalView is the accepted journal as reported to the caller.
type JournalView struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	CategoryID   uuid.UUID `json:"category_id"`
	CategoryName string    `json:"category_name"`
	CreatedAt    time.Time `json:"created_at"`
	IsPublic     bool      `json:"is_public"`
}

// TaskCompletionSummary counts the checklist results of a submission.
type TaskCompletionSummary struct {
	CompletedTasks         int `json:"completed_tasks"`
	TotalTasks             int `json:"total_tasks"`
	CompletionPercentage   int `json:"completion_percentage"`
	RequiredTasksCompleted int `json:"required_tasks_completed"`
	RequiredTasksTotal     int `json:"required_tasks_total"`
}

// ProgressSnapshot is the weekly progress after a submission.
type ProgressSnapshot struct {
	Completed      int
	Target         int
	CompletionRate int
	Remaining      int
	CurrentStreak  int
	BestStreak     int
}

// WeeklyProgress is the weekly part of the submission response.
type WeeklyProgress struct {
	Completed      int `json:"completed"`
	Target         int `json:"target"`
	CompletionRate int `json:"completion_rate"`
	Remaining      int `json:"remaining"`
}

// StreakSummary is the streak part of the submission response.
type StreakSummary struct {
	Current  int  `json:"current"`
	Best     int  `json:"best"`
	IsActive bool `json:"is_active"`
}

// ProgressSummary reports progress after a submission. Degraded is set when
// progress could not be recomputed; the counters are then zero.
type ProgressSummary struct {
	WeeklyProgress WeeklyProgress `json:"weekly_progress"`
	Streak         StreakSummary  `json:"streak"`
	Degraded       bool           `json:"degraded,omitempty"`
}

// SubmitJournalResult is returned for an accepted submission.
type SubmitJournalResult struct {
	Journal        JournalView           `json:"journal"`
	TaskCompletion TaskCompletionSummary `json:"task_completion"`
	Progress       ProgressSummary       `json:"progress"`
}

// journalInputError maps a journal construction failure to the field it
// concerns. Unrecognised failures are internal.
func journalInputError(err error) error {
	var field string
	switch {
	case errors.Is(err, domain.ErrJournalEmptyTitle), errors.Is(err, domain.ErrJournalTitleTooLong):
		field = "title"
	case errors.Is(err, domain.ErrJournalInvalidType):
		field = "journal_type"
	default:
		return fmt.Errorf("create journal: %w", err)
	}
	appErr := sharedApplication.ValidationFailed("invalid journal", sharedApplication.FieldError{
		Field:   field,
		Message: err.Error(),
	})
	appErr.Err = err
	return appErr
}

// ProgressRefresher recomputes and stores the current week's progress.
type ProgressRefresher interface {
	Refresh(ctx context.Context, userID, categoryID uuid.UUID) (*ProgressSnapshot, error)
}

// EventPublisher delivers committed domain events.
type EventPublisher interface {
	PublishAll(ctx context.Context, events []sharedDomain.DomainEvent) int
}

// SubmitStructuredJournalHandler runs the submission pipeline.
type SubmitStructuredJournalHandler struct {
	validator *services.EligibilityValidator
	guard     *services.DuplicateGuard
	writer    *services.SubmissionWriter
	progress  ProgressRefresher
	events    EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewSubmitStructuredJournalHandler creates a new handler.
func NewSubmitStructuredJournalHandler(
	validator *services.EligibilityValidator,
	guard *services.DuplicateGuard,
	writer *services.SubmissionWriter,
	progress ProgressRefresher,
	events EventPublisher,
	logger *slog.Logger,
) *SubmitStructuredJournalHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmitStructuredJournalHandler{
		validator: validator,
		guard:     guard,
		writer:    writer,
		progress:  progress,
		events:    events,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock replaces the handler's time source.
func (h *SubmitStructuredJournalHandler) WithClock(now func() time.Time) *SubmitStructuredJournalHandler {
	h.now = now
	return h
}

// Handle validates and stores the journal, then refreshes progress.
func (h *SubmitStructuredJournalHandler) Handle(ctx context.Context, cmd SubmitStructuredJournalCommand) (*SubmitJournalResult, error) {
	if cmd.UserID == uuid.Nil {
		return nil, sharedApplication.Unauthorized("missing user identity")
	}
	now := h.now().UTC()

	journal, err := domain.NewStructuredJournal(cmd.UserID, cmd.CategoryID, cmd.Title, cmd.Reflection, cmd.IsPublic, now)
	if err != nil {
		return nil, journalInputError(err)
	}
	if err := journal.RecordCompletions(cmd.TaskCompletions, now); err != nil {
		if errors.Is(err, domain.ErrDuplicateTaskCompletion) {
			return nil, sharedApplication.ValidationFailed("invalid task completions", sharedApplication.FieldError{
				Field:   "task_completions",
				Message: err.Error(),
			})
		}
		return nil, err
	}

	eligibility, err := h.validator.Validate(ctx, cmd.UserID, cmd.CategoryID, cmd.TaskCompletions, now)
	if err != nil {
		return nil, err
	}

	if err := h.guard.Check(ctx, cmd.UserID, cmd.CategoryID, journal.Type(), now); err != nil {
		return nil, err
	}

	if err := h.writer.Write(ctx, journal); err != nil {
		return nil, err
	}

	logger := h.logger.With(
		"journal_id", journal.ID(),
		"user_id", cmd.UserID,
		"category_id", cmd.CategoryID,
	)
	logger.InfoContext(ctx, "journal submitted")

	journal.MarkSubmitted()
	if h.events != nil {
		sharedApplication.ApplyEventMetadata(journal.DomainEvents(), sharedApplication.NewEventMetadata(cmd.UserID))
		h.events.PublishAll(ctx, journal.DomainEvents())
	}
	journal.ClearDomainEvents()

	return &SubmitJournalResult{
		Journal: JournalView{
			ID:           journal.ID(),
			Title:        journal.Title(),
			CategoryID:   journal.CategoryID(),
			CategoryName: eligibility.Category.Name,
			CreatedAt:    journal.CreatedAt(),
			IsPublic:     journal.IsPublic(),
		},
		TaskCompletion: TaskCompletionSummary{
			CompletedTasks:         eligibility.CompletedTasks,
			TotalTasks:             eligibility.TotalTasks(),
			CompletionPercentage:   percentage(eligibility.CompletedTasks, eligibility.TotalTasks()),
			RequiredTasksCompleted: eligibility.RequiredCompleted,
			RequiredTasksTotal:     eligibility.RequiredTotal,
		},
		Progress: h.refreshProgress(ctx, logger, cmd.UserID, cmd.CategoryID),
	}, nil
}

// refreshProgress never fails the submission; the journal is the source of
// truth and progress can be rebuilt later.
func (h *SubmitStructuredJournalHandler) refreshProgress(ctx context.Context, logger *slog.Logger, userID, categoryID uuid.UUID) ProgressSummary {
	if h.progress == nil {
		return ProgressSummary{Degraded: true}
	}

	snapshot, err := h.progress.Refresh(ctx, userID, categoryID)
	if err != nil || snapshot == nil {
		logger.WarnContext(ctx, "progress update failed after submission", "error", err)
		return ProgressSummary{Degraded: true}
	}

	return ProgressSummary{
		WeeklyProgress: WeeklyProgress{
			Completed:      snapshot.Completed,
			Target:         snapshot.Target,
			CompletionRate: snapshot.CompletionRate,
			Remaining:      snapshot.Remaining,
		},
		Streak: StreakSummary{
			Current:  snapshot.CurrentStreak,
			Best:     snapshot.BestStreak,
			IsActive: snapshot.CurrentStreak > 0,
		},
	}
}

func percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
