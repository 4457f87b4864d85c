package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/journals/domain"
	"github.com/habitlog/habitlog/internal/shared/infrastructure/database"
	sharedPersistence "github.com/habitlog/habitlog/internal/shared/infrastructure/persistence"
)

// SQLiteCategoryRepository implements domain.CategoryRepository using SQLite.
type SQLiteCategoryRepository struct {
	db *sql.DB
}

// NewSQLiteCategoryRepository creates a new SQLite category repository.
func NewSQLiteCategoryRepository(db *sql.DB) *SQLiteCategoryRepository {
	return &SQLiteCategoryRepository{db: db}
}

// FindByID retrieves a category by its ID.
func (r *SQLiteCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	row := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, name, is_active FROM categories WHERE id = ?`, id.String())

	var (
		rawID    string
		category domain.Category
	)
	if err := row.Scan(&rawID, &category.Name, &category.IsActive); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	category.ID = id
	return &category, nil
}

// SQLiteAssignmentRepository implements domain.AssignmentRepository using SQLite.
type SQLiteAssignmentRepository struct {
	db *sql.DB
}

// NewSQLiteAssignmentRepository creates a new SQLite assignment repository.
func NewSQLiteAssignmentRepository(db *sql.DB) *SQLiteAssignmentRepository {
	return &SQLiteAssignmentRepository{db: db}
}

// FindByUserAndCategory prefers the active assignment, then the newest one.
func (r *SQLiteAssignmentRepository) FindByUserAndCategory(ctx context.Context, userID, categoryID uuid.UUID) (*domain.Assignment, error) {
	row := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryRowContext(ctx, `
		SELECT id, weekly_goal, is_active, start_date, end_date
		FROM category_assignments
		WHERE user_id = ? AND category_id = ?
		ORDER BY is_active DESC, created_at DESC
		LIMIT 1`, userID.String(), categoryID.String())

	var (
		rawID              string
		startDate, endDate sql.NullString
	)
	assignment := domain.Assignment{UserID: userID, CategoryID: categoryID}
	if err := row.Scan(&rawID, &assignment.WeeklyGoal, &assignment.IsActive, &startDate, &endDate); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse assignment id: %w", err)
	}
	assignment.ID = id
	if assignment.StartDate, err = sharedPersistence.ParseNullDate(startDate); err != nil {
		return nil, err
	}
	if assignment.EndDate, err = sharedPersistence.ParseNullDate(endDate); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// SQLiteTaskTemplateRepository implements domain.TaskTemplateRepository using SQLite.
type SQLiteTaskTemplateRepository struct {
	db *sql.DB
}

// NewSQLiteTaskTemplateRepository creates a new SQLite task template repository.
func NewSQLiteTaskTemplateRepository(db *sql.DB) *SQLiteTaskTemplateRepository {
	return &SQLiteTaskTemplateRepository{db: db}
}

// FindByCategory returns the category's templates ordered by sort order.
func (r *SQLiteTaskTemplateRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.TaskTemplate, error) {
	rows, err := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryContext(ctx, `
		SELECT id, title, is_required, sort_order
		FROM task_templates
		WHERE category_id = ?
		ORDER BY sort_order, title`, categoryID.String())
	if err != nil {
		return nil, fmt.Errorf("list task templates: %w", err)
	}
	defer rows.Close()

	templates := make([]*domain.TaskTemplate, 0)
	for rows.Next() {
		var rawID string
		template := &domain.TaskTemplate{CategoryID: categoryID}
		if err := rows.Scan(&rawID, &template.Title, &template.IsRequired, &template.SortOrder); err != nil {
			return nil, fmt.Errorf("scan task template: %w", err)
		}
		if template.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("parse task template id: %w", err)
		}
		templates = append(templates, template)
	}
	return templates, rows.Err()
}
