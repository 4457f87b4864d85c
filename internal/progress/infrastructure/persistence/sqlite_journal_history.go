package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/progress/domain"
	"github.com/habitlog/habitlog/internal/shared/infrastructure/database"
	sharedPersistence "github.com/habitlog/habitlog/internal/shared/infrastructure/persistence"
)

// SQLiteJournalHistory reads live journal timestamps and assignment goals
// from SQLite. It implements domain.JournalHistory and domain.GoalSource.
type SQLiteJournalHistory struct {
	db *sql.DB
}

// NewSQLiteJournalHistory creates a new SQLite journal history reader.
func NewSQLiteJournalHistory(db *sql.DB) *SQLiteJournalHistory {
	return &SQLiteJournalHistory{db: db}
}

// CountBetween counts journals created in [from, to).
func (h *SQLiteJournalHistory) CountBetween(ctx context.Context, userID, categoryID uuid.UUID, from, to time.Time) (int, error) {
	var n int
	err := sharedPersistence.SQLiteExecutor(ctx, h.db).QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM journals
		WHERE user_id = ? AND category_id = ? AND deleted_at IS NULL
		  AND created_at >= ? AND created_at < ?`,
		userID.String(), categoryID.String(),
		sharedPersistence.FormatTimestamp(from), sharedPersistence.FormatTimestamp(to),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count journals: %w", err)
	}
	return n, nil
}

// RecentTimes returns up to limit creation times, newest first.
func (h *SQLiteJournalHistory) RecentTimes(ctx context.Context, userID, categoryID uuid.UUID, limit int) ([]time.Time, error) {
	return h.times(ctx, `
		SELECT created_at
		FROM journals
		WHERE user_id = ? AND category_id = ? AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT ?`, userID.String(), categoryID.String(), limit)
}

// AllTimes returns every creation time, newest first.
func (h *SQLiteJournalHistory) AllTimes(ctx context.Context, userID, categoryID uuid.UUID) ([]time.Time, error) {
	return h.times(ctx, `
		SELECT created_at
		FROM journals
		WHERE user_id = ? AND category_id = ? AND deleted_at IS NULL
		ORDER BY created_at DESC`, userID.String(), categoryID.String())
}

func (h *SQLiteJournalHistory) times(ctx context.Context, query string, args ...any) ([]time.Time, error) {
	rows, err := sharedPersistence.SQLiteExecutor(ctx, h.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list journal times: %w", err)
	}
	defer rows.Close()

	times := make([]time.Time, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan journal time: %w", err)
		}
		t, err := sharedPersistence.ParseTimestamp(raw)
		if err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

// Totals returns the journal count and the first creation time.
func (h *SQLiteJournalHistory) Totals(ctx context.Context, userID, categoryID uuid.UUID) (domain.JournalTotals, error) {
	var (
		totals domain.JournalTotals
		first  sql.NullString
	)
	err := sharedPersistence.SQLiteExecutor(ctx, h.db).QueryRowContext(ctx, `
		SELECT COUNT(*), MIN(created_at)
		FROM journals
		WHERE user_id = ? AND category_id = ? AND deleted_at IS NULL`,
		userID.String(), categoryID.String(),
	).Scan(&totals.Count, &first)
	if err != nil {
		return domain.JournalTotals{}, fmt.Errorf("journal totals: %w", err)
	}
	if totals.FirstCreatedAt, err = sharedPersistence.ParseNullTimestamp(first); err != nil {
		return domain.JournalTotals{}, err
	}
	return totals, nil
}

// Pairs lists every user and category with at least one live journal.
func (h *SQLiteJournalHistory) Pairs(ctx context.Context) ([]domain.Pair, error) {
	rows, err := sharedPersistence.SQLiteExecutor(ctx, h.db).QueryContext(ctx, `
		SELECT DISTINCT user_id, category_id
		FROM journals
		WHERE deleted_at IS NULL
		ORDER BY user_id, category_id`)
	if err != nil {
		return nil, fmt.Errorf("list journal pairs: %w", err)
	}
	defer rows.Close()

	pairs := make([]domain.Pair, 0)
	for rows.Next() {
		var rawUser, rawCategory string
		if err := rows.Scan(&rawUser, &rawCategory); err != nil {
			return nil, fmt.Errorf("scan journal pair: %w", err)
		}
		userID, err := uuid.Parse(rawUser)
		if err != nil {
			return nil, fmt.Errorf("parse user id: %w", err)
		}
		categoryID, err := uuid.Parse(rawCategory)
		if err != nil {
			return nil, fmt.Errorf("parse category id: %w", err)
		}
		pairs = append(pairs, domain.Pair{UserID: userID, CategoryID: categoryID})
	}
	return pairs, rows.Err()
}

// WeeklyGoal returns the active assignment's goal, or 0 when there is none.
func (h *SQLiteJournalHistory) WeeklyGoal(ctx context.Context, userID, categoryID uuid.UUID) (int, error) {
	var goal int
	err := sharedPersistence.SQLiteExecutor(ctx, h.db).QueryRowContext(ctx, `
		SELECT weekly_goal
		FROM category_assignments
		WHERE user_id = ? AND category_id = ? AND is_active = 1
		ORDER BY created_at DESC
		LIMIT 1`,
		userID.String(), categoryID.String(),
	).Scan(&goal)
	if err != nil {
		if database.IsNoRows(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("load weekly goal: %w", err)
	}
	return goal, nil
}
