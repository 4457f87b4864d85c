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

const sqliteProgressColumns = `id, week_start_date, target_count, completed_count, completion_rate,
	current_streak, best_streak, last_entry_date, updated_at`

// SQLiteProgressRepository implements domain.Repository using SQLite.
type SQLiteProgressRepository struct {
	db *sql.DB
}

// NewSQLiteProgressRepository creates a new SQLite progress repository.
func NewSQLiteProgressRepository(db *sql.DB) *SQLiteProgressRepository {
	return &SQLiteProgressRepository{db: db}
}

// Upsert inserts or replaces the row for the user, category and week. The
// stored id survives replacement.
func (r *SQLiteProgressRepository) Upsert(ctx context.Context, p *domain.ProgressTracking) error {
	query := `
		INSERT INTO progress_tracking (
			id, user_id, category_id, week_start_date, target_count, completed_count,
			completion_rate, current_streak, best_streak, last_entry_date, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, category_id, week_start_date) DO UPDATE SET
			target_count = excluded.target_count,
			completed_count = excluded.completed_count,
			completion_rate = excluded.completion_rate,
			current_streak = excluded.current_streak,
			best_streak = excluded.best_streak,
			last_entry_date = excluded.last_entry_date,
			updated_at = excluded.updated_at
	`

	_, err := sharedPersistence.SQLiteExecutor(ctx, r.db).ExecContext(ctx, query,
		p.ID.String(),
		p.UserID.String(),
		p.CategoryID.String(),
		sharedPersistence.FormatDate(p.WeekStartDate),
		p.TargetCount,
		p.CompletedCount,
		p.CompletionRate,
		p.CurrentStreak,
		p.BestStreak,
		sharedPersistence.NullTimestamp(p.LastEntryDate),
		sharedPersistence.FormatTimestamp(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

// FindByWeek returns the row for the week starting at weekStart.
func (r *SQLiteProgressRepository) FindByWeek(ctx context.Context, userID, categoryID uuid.UUID, weekStart time.Time) (*domain.ProgressTracking, error) {
	row := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryRowContext(ctx, `
		SELECT `+sqliteProgressColumns+`
		FROM progress_tracking
		WHERE user_id = ? AND category_id = ? AND week_start_date = ?`,
		userID.String(), categoryID.String(), sharedPersistence.FormatDate(weekStart))

	p, err := scanSQLiteProgress(row, userID, categoryID)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find progress: %w", err)
	}
	return p, nil
}

// FindRecent returns up to limit rows, newest week first.
func (r *SQLiteProgressRepository) FindRecent(ctx context.Context, userID, categoryID uuid.UUID, limit int) ([]domain.ProgressTracking, error) {
	rows, err := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryContext(ctx, `
		SELECT `+sqliteProgressColumns+`
		FROM progress_tracking
		WHERE user_id = ? AND category_id = ?
		ORDER BY week_start_date DESC
		LIMIT ?`,
		userID.String(), categoryID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	weeks := make([]domain.ProgressTracking, 0, limit)
	for rows.Next() {
		p, err := scanSQLiteProgress(rows, userID, categoryID)
		if err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		weeks = append(weeks, *p)
	}
	return weeks, rows.Err()
}

// MaxBestStreak returns the highest stored best streak, or 0.
func (r *SQLiteProgressRepository) MaxBestStreak(ctx context.Context, userID, categoryID uuid.UUID) (int, error) {
	var best int
	err := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryRowContext(ctx, `
		SELECT COALESCE(MAX(best_streak), 0)
		FROM progress_tracking
		WHERE user_id = ? AND category_id = ?`,
		userID.String(), categoryID.String()).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("max best streak: %w", err)
	}
	return best, nil
}

// DeleteByUserAndCategory removes every row for the pair.
func (r *SQLiteProgressRepository) DeleteByUserAndCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	_, err := sharedPersistence.SQLiteExecutor(ctx, r.db).ExecContext(ctx,
		`DELETE FROM progress_tracking WHERE user_id = ? AND category_id = ?`,
		userID.String(), categoryID.String())
	if err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

// Pairs lists every user and category with at least one stored row.
func (r *SQLiteProgressRepository) Pairs(ctx context.Context) ([]domain.Pair, error) {
	rows, err := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryContext(ctx, `
		SELECT DISTINCT user_id, category_id
		FROM progress_tracking
		ORDER BY user_id, category_id`)
	if err != nil {
		return nil, fmt.Errorf("list progress pairs: %w", err)
	}
	defer rows.Close()

	pairs := make([]domain.Pair, 0)
	for rows.Next() {
		var rawUser, rawCategory string
		if err := rows.Scan(&rawUser, &rawCategory); err != nil {
			return nil, fmt.Errorf("scan progress pair: %w", err)
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

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLiteProgress(row scanner, userID, categoryID uuid.UUID) (*domain.ProgressTracking, error) {
	var (
		rawID, weekStart, updatedAt string
		lastEntry                   sql.NullString
	)
	p := domain.ProgressTracking{UserID: userID, CategoryID: categoryID}
	if err := row.Scan(
		&rawID,
		&weekStart,
		&p.TargetCount,
		&p.CompletedCount,
		&p.CompletionRate,
		&p.CurrentStreak,
		&p.BestStreak,
		&lastEntry,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if p.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("parse progress id: %w", err)
	}
	if p.WeekStartDate, err = sharedPersistence.ParseDate(weekStart); err != nil {
		return nil, err
	}
	if p.LastEntryDate, err = sharedPersistence.ParseNullTimestamp(lastEntry); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = sharedPersistence.ParseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
