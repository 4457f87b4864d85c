package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/progress/domain"
	"github.com/habitlog/habitlog/internal/shared/infrastructure/database"
	sharedPersistence "github.com/habitlog/habitlog/internal/shared/infrastructure/persistence"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresJournalHistory reads live journal timestamps and assignment goals
// from PostgreSQL.
type PostgresJournalHistory struct {
	pool *pgxpool.Pool
}

// NewPostgresJournalHistory creates a new PostgreSQL journal history reader.
func NewPostgresJournalHistory(pool *pgxpool.Pool) *PostgresJournalHistory {
	return &PostgresJournalHistory{pool: pool}
}

// CountBetween counts journals created in [from, to).
func (h *PostgresJournalHistory) CountBetween(ctx context.Context, userID, categoryID uuid.UUID, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM journals
		WHERE user_id = $1 AND category_id = $2 AND deleted_at IS NULL
		  AND created_at >= $3 AND created_at < $4
	`

	var n int
	if err := sharedPersistence.Executor(ctx, h.pool).QueryRow(ctx, query, userID, categoryID, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("count journals: %w", err)
	}
	return n, nil
}

// RecentTimes returns up to limit creation times, newest first.
func (h *PostgresJournalHistory) RecentTimes(ctx context.Context, userID, categoryID uuid.UUID, limit int) ([]time.Time, error) {
	return h.times(ctx, `
		SELECT created_at
		FROM journals
		WHERE user_id = $1 AND category_id = $2 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $3
	`, userID, categoryID, limit)
}

// AllTimes returns every creation time, newest first.
func (h *PostgresJournalHistory) AllTimes(ctx context.Context, userID, categoryID uuid.UUID) ([]time.Time, error) {
	return h.times(ctx, `
		SELECT created_at
		FROM journals
		WHERE user_id = $1 AND category_id = $2 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`, userID, categoryID)
}

func (h *PostgresJournalHistory) times(ctx context.Context, query string, args ...any) ([]time.Time, error) {
	rows, err := sharedPersistence.Executor(ctx, h.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list journal times: %w", err)
	}
	defer rows.Close()

	times := make([]time.Time, 0)
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan journal time: %w", err)
		}
		times = append(times, t.UTC())
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return times, nil
}

// Totals returns the journal count and the first creation time.
func (h *PostgresJournalHistory) Totals(ctx context.Context, userID, categoryID uuid.UUID) (domain.JournalTotals, error) {
	query := `
		SELECT COUNT(*), MIN(created_at)
		FROM journals
		WHERE user_id = $1 AND category_id = $2 AND deleted_at IS NULL
	`

	var (
		totals domain.JournalTotals
		first  *time.Time
	)
	if err := sharedPersistence.Executor(ctx, h.pool).QueryRow(ctx, query, userID, categoryID).Scan(&totals.Count, &first); err != nil {
		return domain.JournalTotals{}, fmt.Errorf("journal totals: %w", err)
	}
	if first != nil {
		utc := first.UTC()
		totals.FirstCreatedAt = &utc
	}
	return totals, nil
}

// Pairs lists every user and category with at least one live journal.
func (h *PostgresJournalHistory) Pairs(ctx context.Context) ([]domain.Pair, error) {
	query := `
		SELECT DISTINCT user_id, category_id
		FROM journals
		WHERE deleted_at IS NULL
		ORDER BY user_id, category_id
	`

	rows, err := sharedPersistence.Executor(ctx, h.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list journal pairs: %w", err)
	}
	defer rows.Close()

	pairs := make([]domain.Pair, 0)
	for rows.Next() {
		var pair domain.Pair
		if err := rows.Scan(&pair.UserID, &pair.CategoryID); err != nil {
			return nil, fmt.Errorf("scan journal pair: %w", err)
		}
		pairs = append(pairs, pair)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return pairs, nil
}

// WeeklyGoal returns the active assignment's goal, or 0 when there is none.
func (h *PostgresJournalHistory) WeeklyGoal(ctx context.Context, userID, categoryID uuid.UUID) (int, error) {
	query := `
		SELECT weekly_goal
		FROM category_assignments
		WHERE user_id = $1 AND category_id = $2 AND is_active
		ORDER BY created_at DESC
		LIMIT 1
	`

	var goal int
	if err := sharedPersistence.Executor(ctx, h.pool).QueryRow(ctx, query, userID, categoryID).Scan(&goal); err != nil {
		if database.IsNoRows(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("load weekly goal: %w", err)
	}
	return goal, nil
}
