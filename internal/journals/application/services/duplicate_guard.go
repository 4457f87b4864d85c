package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/journals/domain"
	sharedApplication "github.com/habitlog/habitlog/internal/shared/application"
)

// DuplicateGuard rejects a second structured journal on the same UTC day.
// The store's unique index backs this check against concurrent submissions.
type DuplicateGuard struct {
	journals domain.JournalRepository
}

// NewDuplicateGuard creates a new guard.
func NewDuplicateGuard(journals domain.JournalRepository) *DuplicateGuard {
	return &DuplicateGuard{journals: journals}
}

// Check fails with DUPLICATE_RESOURCE when a live journal of the same type
// already exists for the day containing at. Photo journals are not limited.
func (g *DuplicateGuard) Check(ctx context.Context, userID, categoryID uuid.UUID, journalType domain.JournalType, at time.Time) error {
	if journalType != domain.JournalTypeStructured {
		return nil
	}

	existing, err := g.journals.FindForDay(ctx, userID, categoryID, journalType, at)
	if err != nil {
		return sharedApplication.DatabaseError("failed to check for existing journal", err)
	}
	if existing != nil {
		return DuplicateError(existing)
	}
	return nil
}

// DuplicateError builds the conflict error pointing at the existing journal.
func DuplicateError(existing *domain.Journal) *sharedApplication.Error {
	err := sharedApplication.Duplicate("a journal was already submitted for this category today")
	if existing == nil {
		return err
	}
	return err.WithDetail("existing_journal", map[string]any{
		"id":         existing.ID().String(),
		"title":      existing.Title(),
		"created_at": existing.CreatedAt(),
	})
}
