package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var submittedAt = time.Date(2026, 10, 19, 21, 45, 0, 0, time.UTC)

func TestNewStructuredJournal(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()

	t.Run("valid journal", func(t *testing.T) {
		journal, err := NewStructuredJournal(userID, categoryID, "  Leg day ", " Felt strong ", true, submittedAt)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, journal.ID())
		assert.Equal(t, userID, journal.UserID())
		assert.Equal(t, categoryID, journal.CategoryID())
		assert.Equal(t, JournalTypeStructured, journal.Type())
		assert.Equal(t, "Leg day", journal.Title())
		assert.Equal(t, "Felt strong", journal.Content())
		assert.True(t, journal.IsPublic())
		assert.Equal(t, submittedAt, journal.CreatedAt())
		assert.False(t, journal.IsDeleted())
		assert.Empty(t, journal.DomainEvents())
	})

	t.Run("title rules", func(t *testing.T) {
		tests := []struct {
			name  string
			title string
			err   error
		}{
			{"empty", "", ErrJournalEmptyTitle},
			{"blank", "   ", ErrJournalEmptyTitle},
			{"too long", strings.Repeat("a", 201), ErrJournalTitleTooLong},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewStructuredJournal(userID, categoryID, tc.title, "", false, submittedAt)
				assert.ErrorIs(t, err, tc.err)
			})
		}
	})

	t.Run("multi-byte title at the limit", func(t *testing.T) {
		_, err := NewStructuredJournal(userID, categoryID, strings.Repeat("é", 200), "", false, submittedAt)
		assert.NoError(t, err)
	})
}

func TestNewPhotoJournal(t *testing.T) {
	journal, err := NewPhotoJournal(uuid.New(), uuid.New(), "Sunrise run", "", false, submittedAt)

	require.NoError(t, err)
	assert.Equal(t, JournalTypePhoto, journal.Type())
}

func TestJournal_SubmissionDay(t *testing.T) {
	local := time.Date(2026, 10, 19, 23, 30, 0, 0, time.FixedZone("EDT", -4*60*60))
	journal, err := NewStructuredJournal(uuid.New(), uuid.New(), "Late session", "", false, local)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), journal.SubmissionDay())
}

func TestJournal_RecordCompletions(t *testing.T) {
	journal, err := NewStructuredJournal(uuid.New(), uuid.New(), "Leg day", "", false, submittedAt)
	require.NoError(t, err)
	done := uuid.New()
	skipped := uuid.New()

	t.Run("builds one completion per entry", func(t *testing.T) {
		err := journal.RecordCompletions([]CompletionEntry{
			{TaskTemplateID: done, IsCompleted: true, Note: " 5x5 "},
			{TaskTemplateID: skipped},
		}, submittedAt)

		require.NoError(t, err)
		completions := journal.Completions()
		require.Len(t, completions, 2)
		assert.Equal(t, journal.ID(), completions[0].JournalID())
		assert.Equal(t, done, completions[0].TaskTemplateID())
		assert.Equal(t, "5x5", completions[0].Note())
		require.NotNil(t, completions[0].CompletedAt())
		assert.Equal(t, submittedAt, *completions[0].CompletedAt())
		assert.False(t, completions[1].IsCompleted())
		assert.Nil(t, completions[1].CompletedAt())
	})

	t.Run("rejects a template reported twice", func(t *testing.T) {
		err := journal.RecordCompletions([]CompletionEntry{
			{TaskTemplateID: done, IsCompleted: true},
			{TaskTemplateID: done},
		}, submittedAt)

		assert.ErrorIs(t, err, ErrDuplicateTaskCompletion)
	})
}

func TestJournal_MarkSubmitted(t *testing.T) {
	journal, err := NewStructuredJournal(uuid.New(), uuid.New(), "Leg day", "", false, submittedAt)
	require.NoError(t, err)

	journal.MarkSubmitted()

	events := journal.DomainEvents()
	require.Len(t, events, 1)
	event, ok := events[0].(*JournalSubmitted)
	require.True(t, ok)
	assert.Equal(t, RoutingKeyJournalSubmitted, event.RoutingKey())
	assert.Equal(t, journal.ID(), event.AggregateID())
	assert.Equal(t, "structured", event.JournalType)
	assert.Equal(t, submittedAt, event.OccurredAt())
}

func TestJournal_SoftDelete(t *testing.T) {
	ownerID := uuid.New()
	deletedAt := submittedAt.Add(2 * time.Hour)

	t.Run("owner deletes", func(t *testing.T) {
		journal, err := NewStructuredJournal(ownerID, uuid.New(), "Leg day", "", false, submittedAt)
		require.NoError(t, err)

		require.NoError(t, journal.SoftDelete(ownerID, deletedAt))

		assert.True(t, journal.IsDeleted())
		assert.Equal(t, deletedAt, *journal.DeletedAt())
		assert.Equal(t, deletedAt, journal.UpdatedAt())
		require.Len(t, journal.DomainEvents(), 1)
		assert.Equal(t, RoutingKeyJournalDeleted, journal.DomainEvents()[0].RoutingKey())
	})

	t.Run("other user", func(t *testing.T) {
		journal, err := NewStructuredJournal(ownerID, uuid.New(), "Leg day", "", false, submittedAt)
		require.NoError(t, err)

		err = journal.SoftDelete(uuid.New(), deletedAt)

		assert.ErrorIs(t, err, ErrJournalNotOwned)
		assert.False(t, journal.IsDeleted())
	})

	t.Run("already deleted", func(t *testing.T) {
		journal := RehydrateJournal(uuid.New(), ownerID, uuid.New(), JournalTypeStructured, "Leg day", "", false, submittedAt, submittedAt, &deletedAt)

		err := journal.SoftDelete(ownerID, deletedAt.Add(time.Hour))

		assert.ErrorIs(t, err, ErrJournalAlreadyDeleted)
		assert.Empty(t, journal.DomainEvents())
	})
}

func TestAssignment_Window(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC)

	open := &Assignment{IsActive: true}
	assert.False(t, open.NotStartedAt(now))
	assert.False(t, open.EndedAt(now))

	future := &Assignment{StartDate: &start}
	assert.True(t, future.NotStartedAt(now))

	past := &Assignment{EndDate: &end}
	assert.True(t, past.EndedAt(now))
}

func TestAssignment_Target(t *testing.T) {
	var missing *Assignment
	assert.Equal(t, 1, missing.Target())
	assert.Equal(t, 1, (&Assignment{WeeklyGoal: 0}).Target())
	assert.Equal(t, 3, (&Assignment{WeeklyGoal: 3}).Target())
}
