package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	sharedDomain "github.com/habitlog/habitlog/internal/shared/domain"
)

var (
	ErrJournalEmptyTitle       = errors.New("journal title cannot be empty")
	ErrJournalTitleTooLong     = errors.New("journal title exceeds 200 characters")
	ErrJournalInvalidType      = errors.New("invalid journal type")
	ErrJournalNotFound         = errors.New("journal not found")
	ErrJournalAlreadyDeleted   = errors.New("journal already deleted")
	ErrJournalNotOwned         = errors.New("journal belongs to another user")
	ErrDuplicateSubmission     = errors.New("journal already submitted for this day")
	ErrCategoryNotFound        = errors.New("category not found")
	ErrDuplicateTaskCompletion = errors.New("task template reported more than once")
)

const maxTitleLength = 200

// JournalType distinguishes checklist journals from photo journals.
type JournalType string

const (
	JournalTypeStructured JournalType = "structured"
	JournalTypePhoto      JournalType = "photo"
)

// IsValid checks if the journal type is known.
func (t JournalType) IsValid() bool {
	switch t {
	case JournalTypeStructured, JournalTypePhoto:
		return true
	default:
		return false
	}
}

// Journal is a user's entry against a category.
type Journal struct {
	sharedDomain.BaseAggregateRoot
	userID      uuid.UUID
	categoryID  uuid.UUID
	journalType JournalType
	title       string
	content     string
	isPublic    bool
	deletedAt   *time.Time
	completions []*TaskCompletion
}

// NewStructuredJournal creates a checklist journal submitted at submittedAt.
func NewStructuredJournal(userID, categoryID uuid.UUID, title, content string, isPublic bool, submittedAt time.Time) (*Journal, error) {
	return newJournal(userID, categoryID, JournalTypeStructured, title, content, isPublic, submittedAt)
}

// NewPhotoJournal creates a photo journal submitted at submittedAt.
func NewPhotoJournal(userID, categoryID uuid.UUID, title, content string, isPublic bool, submittedAt time.Time) (*Journal, error) {
	return newJournal(userID, categoryID, JournalTypePhoto, title, content, isPublic, submittedAt)
}

func newJournal(userID, categoryID uuid.UUID, journalType JournalType, title, content string, isPublic bool, submittedAt time.Time) (*Journal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrJournalEmptyTitle
	}
	if len([]rune(title)) > maxTitleLength {
		return nil, ErrJournalTitleTooLong
	}
	if !journalType.IsValid() {
		return nil, ErrJournalInvalidType
	}

	return &Journal{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(sharedDomain.NewBaseEntity(submittedAt)),
		userID:            userID,
		categoryID:        categoryID,
		journalType:       journalType,
		title:             title,
		content:           strings.TrimSpace(content),
		isPublic:          isPublic,
		completions:       make([]*TaskCompletion, 0),
	}, nil
}

// RehydrateJournal recreates a journal from persisted state.
func RehydrateJournal(
	id, userID, categoryID uuid.UUID,
	journalType JournalType,
	title, content string,
	isPublic bool,
	createdAt, updatedAt time.Time,
	deletedAt *time.Time,
) *Journal {
	entity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return &Journal{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(entity),
		userID:            userID,
		categoryID:        categoryID,
		journalType:       journalType,
		title:             title,
		content:           content,
		isPublic:          isPublic,
		deletedAt:         deletedAt,
		completions:       make([]*TaskCompletion, 0),
	}
}

func (j *Journal) UserID() uuid.UUID               { return j.userID }
func (j *Journal) CategoryID() uuid.UUID           { return j.categoryID }
func (j *Journal) Type() JournalType               { return j.journalType }
func (j *Journal) Title() string                   { return j.title }
func (j *Journal) Content() string                 { return j.content }
func (j *Journal) IsPublic() bool                  { return j.isPublic }
func (j *Journal) DeletedAt() *time.Time           { return j.deletedAt }
func (j *Journal) IsDeleted() bool                 { return j.deletedAt != nil }
func (j *Journal) Completions() []*TaskCompletion { return j.completions }

// SubmissionDay returns the UTC calendar day the journal counts towards.
func (j *Journal) SubmissionDay() time.Time {
	return dayOf(j.CreatedAt())
}

// RecordCompletions attaches the checklist results reported with the journal.
// Each template may be reported at most once.
func (j *Journal) RecordCompletions(entries []CompletionEntry, at time.Time) error {
	seen := make(map[uuid.UUID]struct{}, len(entries))
	completions := make([]*TaskCompletion, 0, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.TaskTemplateID]; ok {
			return ErrDuplicateTaskCompletion
		}
		seen[entry.TaskTemplateID] = struct{}{}
		completions = append(completions, NewTaskCompletion(j.ID(), entry, at))
	}
	j.completions = completions
	return nil
}

// MarkSubmitted records the submission event once the journal is accepted.
func (j *Journal) MarkSubmitted() {
	j.AddDomainEvent(NewJournalSubmitted(j))
}

// SoftDelete marks the journal deleted on behalf of userID.
func (j *Journal) SoftDelete(userID uuid.UUID, at time.Time) error {
	if j.userID != userID {
		return ErrJournalNotOwned
	}
	if j.deletedAt != nil {
		return ErrJournalAlreadyDeleted
	}
	deletedAt := at.UTC()
	j.deletedAt = &deletedAt
	j.TouchAt(deletedAt)
	j.AddDomainEvent(NewJournalDeleted(j))
	return nil
}
