package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/progress/application/services"
	"github.com/habitlog/habitlog/internal/progress/domain"
	sharedApplication "github.com/habitlog/habitlog/internal/shared/application"
)

const (
	// DefaultWeeks is the history length used when the caller gives none.
	DefaultWeeks = 12
	// MaxWeeks bounds the history length.
	MaxWeeks = 52
)

// GetProgressQuery asks for a progress report.
type GetProgressQuery struct {
	UserID     uuid.UUID
	CategoryID uuid.UUID
	Weeks      int
}

// GetProgressHandler composes progress reports from stored history.
type GetProgressHandler struct {
	calculator   *services.WeeklyProgressCalculator
	repo         domain.Repository
	history      domain.JournalHistory
	cache        domain.ReportCache
	policy       domain.Policy
	defaultWeeks int
	now          func() time.Time
}

// NewGetProgressHandler creates a new handler.
func NewGetProgressHandler(
	calculator *services.WeeklyProgressCalculator,
	repo domain.Repository,
	history domain.JournalHistory,
	cache domain.ReportCache,
	policy domain.Policy,
) *GetProgressHandler {
	if cache == nil {
		cache = domain.NoopCache{}
	}
	return &GetProgressHandler{
		calculator:   calculator,
		repo:         repo,
		history:      history,
		cache:        cache,
		policy:       policy,
		defaultWeeks: DefaultWeeks,
		now:          time.Now,
	}
}

// WithDefaultWeeks overrides the history length used when a query has none.
func (h *GetProgressHandler) WithDefaultWeeks(weeks int) *GetProgressHandler {
	if weeks > 0 {
		h.defaultWeeks = ClampWeeks(weeks)
	}
	return h
}

// WithClock replaces the handler's time source.
func (h *GetProgressHandler) WithClock(now func() time.Time) *GetProgressHandler {
	h.now = now
	return h
}

// ClampWeeks bounds a requested history length to [1, MaxWeeks].
func ClampWeeks(weeks int) int {
	return min(max(weeks, 1), MaxWeeks)
}

// Handle returns the report for the requested user and category.
func (h *GetProgressHandler) Handle(ctx context.Context, query GetProgressQuery) (*domain.Report, error) {
	if query.UserID == uuid.Nil {
		return nil, sharedApplication.Unauthorized("missing user identity")
	}

	weeks := h.defaultWeeks
	if query.Weeks != 0 {
		weeks = ClampWeeks(query.Weeks)
	}

	if report, ok := h.cache.Get(ctx, query.UserID, query.CategoryID, weeks); ok {
		return report, nil
	}

	now := h.now().UTC()
	current, err := h.calculator.Compute(ctx, query.UserID, query.CategoryID, now)
	if err != nil {
		return nil, sharedApplication.DatabaseError("failed to compute progress", err)
	}

	stored, err := h.repo.FindRecent(ctx, query.UserID, query.CategoryID, weeks)
	if err != nil {
		return nil, sharedApplication.DatabaseError("failed to load progress history", err)
	}

	previous, err := h.repo.FindByWeek(ctx, query.UserID, query.CategoryID, current.WeekStartDate.AddDate(0, 0, -7))
	if err != nil {
		return nil, sharedApplication.DatabaseError("failed to load previous week", err)
	}

	totals, err := h.history.Totals(ctx, query.UserID, query.CategoryID)
	if err != nil {
		return nil, sharedApplication.DatabaseError("failed to load journal totals", err)
	}

	history := mergeHistory(*current, stored, weeks)
	dailyRate := domain.AverageDailyRate(totals.Count, totals.FirstCreatedAt, now)

	report := &domain.Report{
		CurrentWeek:   *current,
		History:       history,
		Analysis:      domain.AnalyzeTrend(history, weeks, h.policy),
		Consistency:   domain.ScoreConsistency(history, h.policy.Consistency),
		Prediction:    domain.PredictGoal(*current, dailyRate, now, h.policy.Prediction),
		Comparison:    domain.CompareWeeks(*current, previous),
		TotalJournals: totals.Count,
	}

	h.cache.Set(ctx, query.UserID, query.CategoryID, weeks, report)
	return report, nil
}

// mergeHistory puts the live current week in front of the stored rows,
// dropping any stored copy of the same week, newest first.
func mergeHistory(current domain.ProgressTracking, stored []domain.ProgressTracking, weeks int) []domain.ProgressTracking {
	history := make([]domain.ProgressTracking, 0, weeks)
	history = append(history, current)
	for _, row := range stored {
		if len(history) == weeks {
			break
		}
		if row.WeekStartDate.Equal(current.WeekStartDate) {
			if row.ID != uuid.Nil {
				history[0].ID = row.ID
			}
			continue
		}
		history = append(history, row)
	}
	return history
}
