package domain

import (
	"time"

	"github.com/google/uuid"
	sharedDomain "github.com/habitlog/habitlog/internal/shared/domain"
)

const aggregateType = "Journal"

const (
	RoutingKeyJournalSubmitted = "journals.journal.submitted"
	RoutingKeyJournalDeleted   = "journals.journal.deleted"
)

// JournalSubmitted is emitted when a journal is accepted.
type JournalSubmitted struct {
	sharedDomain.BaseEvent
	JournalID   uuid.UUID `json:"journal_id"`
	UserID      uuid.UUID `json:"user_id"`
	CategoryID  uuid.UUID `json:"category_id"`
	JournalType string    `json:"journal_type"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// NewJournalSubmitted creates a JournalSubmitted event.
func NewJournalSubmitted(j *Journal) *JournalSubmitted {
	return &JournalSubmitted{
		BaseEvent:   sharedDomain.NewBaseEvent(j.ID(), aggregateType, RoutingKeyJournalSubmitted, j.CreatedAt()),
		JournalID:   j.ID(),
		UserID:      j.UserID(),
		CategoryID:  j.CategoryID(),
		JournalType: string(j.Type()),
		SubmittedAt: j.CreatedAt(),
	}
}

// JournalDeleted is emitted when a journal is soft-deleted.
type JournalDeleted struct {
	sharedDomain.BaseEvent
	JournalID  uuid.UUID `json:"journal_id"`
	UserID     uuid.UUID `json:"user_id"`
	CategoryID uuid.UUID `json:"category_id"`
}

// NewJournalDeleted creates a JournalDeleted event.
func NewJournalDeleted(j *Journal) *JournalDeleted {
	return &JournalDeleted{
		BaseEvent:  sharedDomain.NewBaseEvent(j.ID(), aggregateType, RoutingKeyJournalDeleted, j.UpdatedAt()),
		JournalID:  j.ID(),
		UserID:     j.UserID(),
		CategoryID: j.CategoryID(),
	}
}
