package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CategoryRepository reads categories.
type CategoryRepository interface {
	// FindByID returns nil, nil when the category does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
}

// AssignmentRepository reads user assignments.
type AssignmentRepository interface {
	// FindByUserAndCategory returns the active assignment if one exists,
	// otherwise the most recent inactive one, otherwise nil.
	FindByUserAndCategory(ctx context.Context, userID, categoryID uuid.UUID) (*Assignment, error)
}

// TaskTemplateRepository reads task templates.
type TaskTemplateRepository interface {
	// FindByCategory returns the category's templates ordered by sort order.
	FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]*TaskTemplate, error)
}

// JournalRepository persists journals and their task completions.
type JournalRepository interface {
	// Create inserts a journal. A live structured journal for the same user,
	// category and day yields ErrDuplicateSubmission.
	Create(ctx context.Context, journal *Journal) error

	// CreateCompletions inserts the completion batch for a journal.
	CreateCompletions(ctx context.Context, completions []*TaskCompletion) error

	// Delete hard-deletes a journal and its completions.
	Delete(ctx context.Context, id uuid.UUID) error

	// SoftDelete persists the journal's deleted_at marker.
	SoftDelete(ctx context.Context, journal *Journal) error

	// FindByID returns nil, nil when the journal does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*Journal, error)

	// FindCompletions returns the completions recorded for a journal.
	FindCompletions(ctx context.Context, journalID uuid.UUID) ([]*TaskCompletion, error)

	// FindForDay returns the live journal of the given type created on the
	// UTC calendar day containing day, or nil.
	FindForDay(ctx context.Context, userID, categoryID uuid.UUID, journalType JournalType, day time.Time) (*Journal, error)
}
