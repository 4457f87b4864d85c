package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/journals/domain"
	"github.com/habitlog/habitlog/internal/shared/infrastructure/database"
	sharedPersistence "github.com/habitlog/habitlog/internal/shared/infrastructure/persistence"
)

const sqliteJournalColumns = `id, user_id, category_id, journal_type, title, content, is_public, created_at, updated_at, deleted_at`

// SQLiteJournalRepository implements domain.JournalRepository using SQLite.
type SQLiteJournalRepository struct {
	db *sql.DB
}

// NewSQLiteJournalRepository creates a new SQLite journal repository.
func NewSQLiteJournalRepository(db *sql.DB) *SQLiteJournalRepository {
	return &SQLiteJournalRepository{db: db}
}

// Create inserts a journal row.
func (r *SQLiteJournalRepository) Create(ctx context.Context, journal *domain.Journal) error {
	_, err := sharedPersistence.SQLiteExecutor(ctx, r.db).ExecContext(ctx, `
		INSERT INTO journals (
			id, user_id, category_id, journal_type, title, content, is_public,
			submission_day, created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		journal.ID().String(),
		journal.UserID().String(),
		journal.CategoryID().String(),
		string(journal.Type()),
		journal.Title(),
		journal.Content(),
		sharedPersistence.BoolToInt(journal.IsPublic()),
		sharedPersistence.FormatDate(journal.SubmissionDay()),
		sharedPersistence.FormatTimestamp(journal.CreatedAt()),
		sharedPersistence.FormatTimestamp(journal.UpdatedAt()),
		sharedPersistence.NullTimestamp(journal.DeletedAt()),
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
func (r *SQLiteJournalRepository) CreateCompletions(ctx context.Context, completions []*domain.TaskCompletion) error {
	execer := sharedPersistence.SQLiteExecutor(ctx, r.db)
	for _, c := range completions {
		_, err := execer.ExecContext(ctx, `
			INSERT INTO task_completions (
				id, journal_id, task_template_id, is_completed, completion_note, completed_at
			) VALUES (?, ?, ?, ?, ?, ?)`,
			c.ID().String(),
			c.JournalID().String(),
			c.TaskTemplateID().String(),
			sharedPersistence.BoolToInt(c.IsCompleted()),
			c.Note(),
			sharedPersistence.NullTimestamp(c.CompletedAt()),
		)
		if err != nil {
			return fmt.Errorf("insert task completion: %w", err)
		}
	}
	return nil
}

// Delete removes a journal and, by cascade, its completions.
func (r *SQLiteJournalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := sharedPersistence.SQLiteExecutor(ctx, r.db).ExecContext(ctx,
		`DELETE FROM journals WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete journal: %w", err)
	}
	return requireAffected(result)
}

// SoftDelete stores the journal's deleted_at marker.
func (r *SQLiteJournalRepository) SoftDelete(ctx context.Context, journal *domain.Journal) error {
	result, err := sharedPersistence.SQLiteExecutor(ctx, r.db).ExecContext(ctx, `
		UPDATE journals SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		sharedPersistence.NullTimestamp(journal.DeletedAt()),
		sharedPersistence.FormatTimestamp(journal.UpdatedAt()),
		journal.ID().String(),
	)
	if err != nil {
		return fmt.Errorf("soft delete journal: %w", err)
	}
	return requireAffected(result)
}

// FindByID retrieves a journal by its ID, deleted or not.
func (r *SQLiteJournalRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Journal, error) {
	row := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+sqliteJournalColumns+` FROM journals WHERE id = ?`, id.String())
	journal, err := scanSQLiteJournal(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find journal: %w", err)
	}
	return journal, nil
}

// FindCompletions returns the completions recorded for a journal.
func (r *SQLiteJournalRepository) FindCompletions(ctx context.Context, journalID uuid.UUID) ([]*domain.TaskCompletion, error) {
	rows, err := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryContext(ctx, `
		SELECT c.id, c.task_template_id, c.is_completed, c.completion_note, c.completed_at
		FROM task_completions c
		LEFT JOIN task_templates t ON t.id = c.task_template_id
		WHERE c.journal_id = ?
		ORDER BY t.sort_order, c.id`, journalID.String())
	if err != nil {
		return nil, fmt.Errorf("list task completions: %w", err)
	}
	defer rows.Close()

	completions := make([]*domain.TaskCompletion, 0)
	for rows.Next() {
		var (
			rawID, rawTemplateID string
			isCompleted          bool
			note                 string
			completedAt          sql.NullString
		)
		if err := rows.Scan(&rawID, &rawTemplateID, &isCompleted, &note, &completedAt); err != nil {
			return nil, fmt.Errorf("scan task completion: %w", err)
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse task completion id: %w", err)
		}
		templateID, err := uuid.Parse(rawTemplateID)
		if err != nil {
			return nil, fmt.Errorf("parse task template id: %w", err)
		}
		at, err := sharedPersistence.ParseNullTimestamp(completedAt)
		if err != nil {
			return nil, err
		}
		completions = append(completions, domain.RehydrateTaskCompletion(id, journalID, templateID, isCompleted, note, at))
	}
	return completions, rows.Err()
}

// FindForDay returns the live journal of journalType submitted on day.
func (r *SQLiteJournalRepository) FindForDay(ctx context.Context, userID, categoryID uuid.UUID, journalType domain.JournalType, day time.Time) (*domain.Journal, error) {
	row := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryRowContext(ctx, `
		SELECT `+sqliteJournalColumns+`
		FROM journals
		WHERE user_id = ? AND category_id = ? AND journal_type = ?
		  AND submission_day = ? AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1`,
		userID.String(), categoryID.String(), string(journalType), sharedPersistence.FormatDate(day))
	journal, err := scanSQLiteJournal(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find journal for day: %w", err)
	}
	return journal, nil
}

func scanSQLiteJournal(row *sql.Row) (*domain.Journal, error) {
	var (
		rawID, rawUserID, rawCategoryID string
		journalType, title, content     string
		isPublic                        bool
		createdAt, updatedAt            string
		deletedAt                       sql.NullString
	)
	if err := row.Scan(&rawID, &rawUserID, &rawCategoryID, &journalType, &title, &content, &isPublic, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	ids, err := parseUUIDs(rawID, rawUserID, rawCategoryID)
	if err != nil {
		return nil, err
	}
	created, err := sharedPersistence.ParseTimestamp(createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := sharedPersistence.ParseTimestamp(updatedAt)
	if err != nil {
		return nil, err
	}
	deleted, err := sharedPersistence.ParseNullTimestamp(deletedAt)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateJournal(ids[0], ids[1], ids[2], domain.JournalType(journalType), title, content, isPublic, created, updated, deleted), nil
}

func parseUUIDs(values ...string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(values))
	for i, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("parse id %q: %w", v, err)
		}
		ids[i] = id
	}
	return ids, nil
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrJournalNotFound
	}
	return nil
}
