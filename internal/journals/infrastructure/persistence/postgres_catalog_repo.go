package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/journals/domain"
	"github.com/habitlog/habitlog/internal/shared/infrastructure/database"
	sharedPersistence "github.com/habitlog/habitlog/internal/shared/infrastructure/persistence"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCategoryRepository implements domain.CategoryRepository using PostgreSQL.
type PostgresCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCategoryRepository creates a new PostgreSQL category repository.
func NewPostgresCategoryRepository(pool *pgxpool.Pool) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{pool: pool}
}

// FindByID retrieves a category by its ID.
func (r *PostgresCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `SELECT id, name, is_active FROM categories WHERE id = $1`

	var category domain.Category
	err := sharedPersistence.Executor(ctx, r.pool).QueryRow(ctx, query, id).
		Scan(&category.ID, &category.Name, &category.IsActive)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &category, nil
}

// PostgresAssignmentRepository implements domain.AssignmentRepository using PostgreSQL.
type PostgresAssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAssignmentRepository creates a new PostgreSQL assignment repository.
func NewPostgresAssignmentRepository(pool *pgxpool.Pool) *PostgresAssignmentRepository {
	return &PostgresAssignmentRepository{pool: pool}
}

// FindByUserAndCategory prefers the active assignment, then the newest one.
func (r *PostgresAssignmentRepository) FindByUserAndCategory(ctx context.Context, userID, categoryID uuid.UUID) (*domain.Assignment, error) {
	query := `
		SELECT id, weekly_goal, is_active, start_date, end_date
		FROM category_assignments
		WHERE user_id = $1 AND category_id = $2
		ORDER BY is_active DESC, created_at DESC
		LIMIT 1
	`

	assignment := domain.Assignment{UserID: userID, CategoryID: categoryID}
	var startDate, endDate *time.Time
	err := sharedPersistence.Executor(ctx, r.pool).QueryRow(ctx, query, userID, categoryID).
		Scan(&assignment.ID, &assignment.WeeklyGoal, &assignment.IsActive, &startDate, &endDate)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	assignment.StartDate = utcPtr(startDate)
	assignment.EndDate = utcPtr(endDate)
	return &assignment, nil
}

// PostgresTaskTemplateRepository implements domain.TaskTemplateRepository using PostgreSQL.
type PostgresTaskTemplateRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTaskTemplateRepository creates a new PostgreSQL task template repository.
func NewPostgresTaskTemplateRepository(pool *pgxpool.Pool) *PostgresTaskTemplateRepository {
	return &PostgresTaskTemplateRepository{pool: pool}
}

// FindByCategory returns the category's templates ordered by sort order.
func (r *PostgresTaskTemplateRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.TaskTemplate, error) {
	query := `
		SELECT id, title, is_required, sort_order
		FROM task_templates
		WHERE category_id = $1
		ORDER BY sort_order, title
	`

	rows, err := sharedPersistence.Executor(ctx, r.pool).Query(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list task templates: %w", err)
	}
	defer rows.Close()

	templates := make([]*domain.TaskTemplate, 0)
	for rows.Next() {
		template := &domain.TaskTemplate{CategoryID: categoryID}
		if err := rows.Scan(&template.ID, &template.Title, &template.IsRequired, &template.SortOrder); err != nil {
			return nil, fmt.Errorf("scan task template: %w", err)
		}
		templates = append(templates, template)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return templates, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
