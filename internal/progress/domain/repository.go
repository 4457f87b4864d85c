package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists weekly progress aggregates.
type Repository interface {
	// Upsert inserts or replaces the row keyed by user, category and week.
	Upsert(ctx context.Context, progress *ProgressTracking) error

	// FindByWeek returns nil, nil when no row exists for the week.
	FindByWeek(ctx context.Context, userID, categoryID uuid.UUID, weekStart time.Time) (*ProgressTracking, error)

	// FindRecent returns up to limit rows, newest week first.
	FindRecent(ctx context.Context, userID, categoryID uuid.UUID, limit int) ([]ProgressTracking, error)

	// MaxBestStreak returns the highest persisted best streak, or 0.
	MaxBestStreak(ctx context.Context, userID, categoryID uuid.UUID) (int, error)

	// DeleteByUserAndCategory removes every row for the pair.
	DeleteByUserAndCategory(ctx context.Context, userID, categoryID uuid.UUID) error

	// Pairs lists every user and category with at least one stored row.
	Pairs(ctx context.Context) ([]Pair, error)
}

// Pair identifies a user and category.
type Pair struct {
	UserID     uuid.UUID
	CategoryID uuid.UUID
}

// JournalTotals summarises all live journals for a pair.
type JournalTotals struct {
	Count          int
	FirstCreatedAt *time.Time
}

// JournalHistory reads live (non-deleted) journal timestamps.
type JournalHistory interface {
	// CountBetween counts journals created in [from, to).
	CountBetween(ctx context.Context, userID, categoryID uuid.UUID, from, to time.Time) (int, error)

	// RecentTimes returns up to limit creation times, newest first.
	RecentTimes(ctx context.Context, userID, categoryID uuid.UUID, limit int) ([]time.Time, error)

	// AllTimes returns every creation time, newest first.
	AllTimes(ctx context.Context, userID, categoryID uuid.UUID) ([]time.Time, error)

	// Totals returns the journal count and the first creation time.
	Totals(ctx context.Context, userID, categoryID uuid.UUID) (JournalTotals, error)

	// Pairs lists every user and category with at least one live journal.
	Pairs(ctx context.Context) ([]Pair, error)
}

// GoalSource resolves the weekly target for a user and category.
type GoalSource interface {
	// WeeklyGoal returns the active assignment's goal, or 0 when there is none.
	WeeklyGoal(ctx context.Context, userID, categoryID uuid.UUID) (int, error)
}

// ReportCache stores composed progress reports. Implementations are
// best-effort: failures behave as misses and are not reported.
type ReportCache interface {
	Get(ctx context.Context, userID, categoryID uuid.UUID, weeks int) (*Report, bool)
	Set(ctx context.Context, userID, categoryID uuid.UUID, weeks int, report *Report)
	Invalidate(ctx context.Context, userID, categoryID uuid.UUID)
}

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) Get(context.Context, uuid.UUID, uuid.UUID, int) (*Report, bool) { return nil, false }
func (NoopCache) Set(context.Context, uuid.UUID, uuid.UUID, int, *Report)        {}
func (NoopCache) Invalidate(context.Context, uuid.UUID, uuid.UUID)               {}
