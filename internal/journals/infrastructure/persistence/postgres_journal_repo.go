package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/journals/domain"
	"github.com/habitlog/habitlog/internal/shared/infrastructure/database"
	sharedPersistence "github.com/habitlog/habitlog/internal/shared/infrastructure/persistence"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresJournalColumns = `id, user_id, category_id, journal_type, title, content, is_public, created_at, updated_at, deleted_at`

// PostgresJournalRepository implements domain.JournalRepository using PostgreSQL.
type PostgresJournalRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresJournalRepository creates a new PostgreSQL journal repository.
func NewPostgresJournalRepository(pool *pgxpool.Pool) *PostgresJournalRepository {
	return &PostgresJournalRepository{pool: pool}
}

// Create inserts a journal row.
func (r *PostgresJournalRepository) Create(ctx context.Context, journal *domain.Journal) error {
	query := `
		INSERT INTO journals (
			id, user_id, category_id, journal_type, title, content, is_public,
			submission_day, created_at, updated_at, deleted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := sharedPersistence.Executor(ctx, r.pool).Exec(ctx, query,
		journal.ID(),
		journal.UserID(),
		journal.CategoryID(),
		string(journal.Type()),
		journal.Title(),
		journal.Content(),
		journal.IsPublic(),
		journal.SubmissionDay(),
		journal.CreatedAt(),
		journal.UpdatedAt(),
		journal.DeletedAt(),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("insert journal: %w", domain.ErrDuplicateSubmission)
		}
		return fmt.Errorf("insert journal: %w", err)
	}
	return nil
}

// CreateCompletions inserts the completion rows of a journal.
func (r *PostgresJournalRepository) CreateCompletions(ctx context.Context, completions []*domain.TaskCompletion) error {
	if len(completions) == 0 {
		return nil
	}

	query := `
		INSERT INTO task_completions (
			id, journal_id, task_template_id, is_completed, completion_note, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	for _, c := range completions {
		_, err := execer.Exec(ctx, query,
			c.ID(),
			c.JournalID(),
			c.TaskTemplateID(),
			c.IsCompleted(),
			c.Note(),
			c.CompletedAt(),
		)
		if err != nil {
			return fmt.Errorf("insert task completion: %w", err)
		}
	}
	return nil
}

// Delete removes a journal and, by cascade, its completions.
func (r *PostgresJournalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := sharedPersistence.Executor(ctx, r.pool).Exec(ctx, `DELETE FROM journals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete journal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrJournalNotFound
	}
	return nil
}

// SoftDelete stores the journal's deleted_at marker.
func (r *PostgresJournalRepository) SoftDelete(ctx context.Context, journal *domain.Journal) error {
	query := `
		UPDATE journals SET deleted_at = $2, updated_at = $3
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := sharedPersistence.Executor(ctx, r.pool).Exec(ctx, query,
		journal.ID(),
		journal.DeletedAt(),
		journal.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("soft delete journal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrJournalNotFound
	}
	return nil
}

// FindByID retrieves a journal by its ID, deleted or not.
func (r *PostgresJournalRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Journal, error) {
	query := `SELECT ` + postgresJournalColumns + ` FROM journals WHERE id = $1`

	journal, err := scanPostgresJournal(sharedPersistence.Executor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find journal: %w", err)
	}
	return journal, nil
}

// FindCompletions returns the completions recorded for a journal.
func (r *PostgresJournalRepository) FindCompletions(ctx context.Context, journalID uuid.UUID) ([]*domain.TaskCompletion, error) {
	query := `
		SELECT c.id, c.task_template_id, c.is_completed, c.completion_note, c.completed_at
		FROM task_completions c
		LEFT JOIN task_templates t ON t.id = c.task_template_id
		WHERE c.journal_id = $1
		ORDER BY t.sort_order, c.id
	`

	rows, err := sharedPersistence.Executor(ctx, r.pool).Query(ctx, query, journalID)
	if err != nil {
		return nil, fmt.Errorf("list task completions: %w", err)
	}
	defer rows.Close()

	completions := make([]*domain.TaskCompletion, 0)
	for rows.Next() {
		var (
			id, templateID uuid.UUID
			isCompleted    bool
			note           string
			completedAt    *time.Time
		)
		if err := rows.Scan(&id, &templateID, &isCompleted, &note, &completedAt); err != nil {
			return nil, fmt.Errorf("scan task completion: %w", err)
		}
		completions = append(completions, domain.RehydrateTaskCompletion(id, journalID, templateID, isCompleted, note, utcPtr(completedAt)))
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return completions, nil
}

// FindForDay returns the live journal of journalType submitted on day.
func (r *PostgresJournalRepository) FindForDay(ctx context.Context, userID, categoryID uuid.UUID, journalType domain.JournalType, day time.Time) (*domain.Journal, error) {
	query := `
		SELECT ` + postgresJournalColumns + `
		FROM journals
		WHERE user_id = $1 AND category_id = $2 AND journal_type = $3
		  AND submission_day = $4 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1
	`

	y, m, d := day.UTC().Date()
	row := sharedPersistence.Executor(ctx, r.pool).QueryRow(ctx, query,
		userID, categoryID, string(journalType), time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	journal, err := scanPostgresJournal(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find journal for day: %w", err)
	}
	return journal, nil
}

func scanPostgresJournal(row pgx.Row) (*domain.Journal, error) {
	var (
		id, userID, categoryID      uuid.UUID
		journalType, title, content string
		isPublic                    bool
		createdAt, updatedAt        time.Time
		deletedAt                   *time.Time
	)
	if err := row.Scan(&id, &userID, &categoryID, &journalType, &title, &content, &isPublic, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}
	return domain.RehydrateJournal(id, userID, categoryID, domain.JournalType(journalType), title, content, isPublic,
		createdAt.UTC(), updatedAt.UTC(), utcPtr(deletedAt)), nil
}
