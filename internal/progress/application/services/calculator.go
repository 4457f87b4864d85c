// Package services contains the progress application services.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/progress/domain"
)

// WeeklyProgressCalculator computes the current week's aggregate from stored
// journal history.
type WeeklyProgressCalculator struct {
	history  domain.JournalHistory
	goals    domain.GoalSource
	progress domain.Repository
	lookback int
}

// NewWeeklyProgressCalculator creates a new calculator. A lookback of zero
// or less uses the default streak window.
func NewWeeklyProgressCalculator(
	history domain.JournalHistory,
	goals domain.GoalSource,
	progress domain.Repository,
	lookback int,
) *WeeklyProgressCalculator {
	if lookback <= 0 {
		lookback = domain.DefaultStreakLookback
	}
	return &WeeklyProgressCalculator{
		history:  history,
		goals:    goals,
		progress: progress,
		lookback: lookback,
	}
}

// Lookback returns the number of recent journals used for streaks.
func (c *WeeklyProgressCalculator) Lookback() int {
	return c.lookback
}

// Compute returns the aggregate for the week containing now. It does not
// persist anything.
func (c *WeeklyProgressCalculator) Compute(ctx context.Context, userID, categoryID uuid.UUID, now time.Time) (*domain.ProgressTracking, error) {
	goal, err := c.goals.WeeklyGoal(ctx, userID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("load weekly goal: %w", err)
	}

	weekStart := domain.WeekStart(now)
	completed, err := c.history.CountBetween(ctx, userID, categoryID, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return nil, fmt.Errorf("count journals: %w", err)
	}

	recent, err := c.history.RecentTimes(ctx, userID, categoryID, c.lookback)
	if err != nil {
		return nil, fmt.Errorf("load recent journals: %w", err)
	}

	previousBest, err := c.progress.MaxBestStreak(ctx, userID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("load best streak: %w", err)
	}

	week := domain.ComputeWeek(domain.WeekInput{
		UserID:         userID,
		CategoryID:     categoryID,
		Now:            now,
		Target:         goal,
		CompletedCount: completed,
		Recent:         recent,
		PreviousBest:   previousBest,
	})
	return &week, nil
}
