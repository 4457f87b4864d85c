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

const postgresProgressColumns = `id, week_start_date, target_count, completed_count, completion_rate,
	current_streak, best_streak, last_entry_date, updated_at`

// PostgresProgressRepository implements domain.Repository using PostgreSQL.
type PostgresProgressRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProgressRepository creates a new PostgreSQL progress repository.
func NewPostgresProgressRepository(pool *pgxpool.Pool) *PostgresProgressRepository {
	return &PostgresProgressRepository{pool: pool}
}

// Upsert inserts or replaces the row for the user, category and week.
func (r *PostgresProgressRepository) Upsert(ctx context.Context, p *domain.ProgressTracking) error {
	query := `
		INSERT INTO progress_tracking (
			id, user_id, category_id, week_start_date, target_count, completed_count,
			completion_rate, current_streak, best_streak, last_entry_date, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, category_id, week_start_date) DO UPDATE SET
			target_count = EXCLUDED.target_count,
			completed_count = EXCLUDED.completed_count,
			completion_rate = EXCLUDED.completion_rate,
			current_streak = EXCLUDED.current_streak,
			best_streak = EXCLUDED.best_streak,
			last_entry_date = EXCLUDED.last_entry_date,
			updated_at = EXCLUDED.updated_at
	`

	_, err := sharedPersistence.Executor(ctx, r.pool).Exec(ctx, query,
		p.ID,
		p.UserID,
		p.CategoryID,
		p.WeekStartDate,
		p.TargetCount,
		p.CompletedCount,
		p.CompletionRate,
		p.CurrentStreak,
		p.BestStreak,
		p.LastEntryDate,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

// FindByWeek returns the row for the week starting at weekStart.
func (r *PostgresProgressRepository) FindByWeek(ctx context.Context, userID, categoryID uuid.UUID, weekStart time.Time) (*domain.ProgressTracking, error) {
	query := `
		SELECT ` + postgresProgressColumns + `
		FROM progress_tracking
		WHERE user_id = $1 AND category_id = $2 AND week_start_date = $3
	`

	p, err := scanPostgresProgress(sharedPersistence.Executor(ctx, r.pool).QueryRow(ctx, query, userID, categoryID, weekStart), userID, categoryID)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find progress: %w", err)
	}
	return p, nil
}

// FindRecent returns up to limit rows, newest week first.
func (r *PostgresProgressRepository) FindRecent(ctx context.Context, userID, categoryID uuid.UUID, limit int) ([]domain.ProgressTracking, error) {
	query := `
		SELECT ` + postgresProgressColumns + `
		FROM progress_tracking
		WHERE user_id = $1 AND category_id = $2
		ORDER BY week_start_date DESC
		LIMIT $3
	`

	rows, err := sharedPersistence.Executor(ctx, r.pool).Query(ctx, query, userID, categoryID, limit)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	weeks := make([]domain.ProgressTracking, 0, limit)
	for rows.Next() {
		p, err := scanPostgresProgress(rows, userID, categoryID)
		if err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		weeks = append(weeks, *p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return weeks, nil
}

// MaxBestStreak returns the highest stored best streak, or 0.
func (r *PostgresProgressRepository) MaxBestStreak(ctx context.Context, userID, categoryID uuid.UUID) (int, error) {
	query := `
		SELECT COALESCE(MAX(best_streak), 0)
		FROM progress_tracking
		WHERE user_id = $1 AND category_id = $2
	`

	var best int
	if err := sharedPersistence.Executor(ctx, r.pool).QueryRow(ctx, query, userID, categoryID).Scan(&best); err != nil {
		return 0, fmt.Errorf("max best streak: %w", err)
	}
	return best, nil
}

// DeleteByUserAndCategory removes every row for the pair.
func (r *PostgresProgressRepository) DeleteByUserAndCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	query := `DELETE FROM progress_tracking WHERE user_id = $1 AND category_id = $2`
	if _, err := sharedPersistence.Executor(ctx, r.pool).Exec(ctx, query, userID, categoryID); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

// Pairs lists every user and category with at least one stored row.
func (r *PostgresProgressRepository) Pairs(ctx context.Context) ([]domain.Pair, error) {
	query := `
		SELECT DISTINCT user_id, category_id
		FROM progress_tracking
		ORDER BY user_id, category_id
	`

	rows, err := sharedPersistence.Executor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list progress pairs: %w", err)
	}
	defer rows.Close()

	pairs := make([]domain.Pair, 0)
	for rows.Next() {
		var pair domain.Pair
		if err := rows.Scan(&pair.UserID, &pair.CategoryID); err != nil {
			return nil, fmt.Errorf("scan progress pair: %w", err)
		}
		pairs = append(pairs, pair)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return pairs, nil
}

func scanPostgresProgress(row scanner, userID, categoryID uuid.UUID) (*domain.ProgressTracking, error) {
	p := domain.ProgressTracking{UserID: userID, CategoryID: categoryID}
	if err := row.Scan(
		&p.ID,
		&p.WeekStartDate,
		&p.TargetCount,
		&p.CompletedCount,
		&p.CompletionRate,
		&p.CurrentStreak,
		&p.BestStreak,
		&p.LastEntryDate,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.WeekStartDate = domain.Day(p.WeekStartDate)
	p.UpdatedAt = p.UpdatedAt.UTC()
	if p.LastEntryDate != nil {
		last := p.LastEntryDate.UTC()
		p.LastEntryDate = &last
	}
	return &p, nil
}
