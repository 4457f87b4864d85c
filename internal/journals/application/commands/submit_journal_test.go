package commands

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/journals/application/services"
	"github.com/habitlog/habitlog/internal/journals/domain"
	sharedApplication "github.com/habitlog/habitlog/internal/shared/application"
	sharedDomain "github.com/habitlog/habitlog/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type txKey struct{}

var now = time.Date(2026, 10, 19, 18, 0, 0, 0, time.UTC)

type submitFixture struct {
	ctx         context.Context
	txCtx       context.Context
	userID      uuid.UUID
	category    *domain.Category
	assignment  *domain.Assignment
	required    *domain.TaskTemplate
	optional    *domain.TaskTemplate
	categories  *mockCategoryRepo
	assignments *mockAssignmentRepo
	templates   *mockTemplateRepo
	journals    *mockJournalRepo
	uow         *mockUnitOfWork
	progress    *mockProgress
	events      *mockEvents
	handler     *SubmitStructuredJournalHandler
}

func newSubmitFixture() *submitFixture {
	f := &submitFixture{
		ctx:         context.Background(),
		userID:      uuid.New(),
		categories:  new(mockCategoryRepo),
		assignments: new(mockAssignmentRepo),
		templates:   new(mockTemplateRepo),
		journals:    new(mockJournalRepo),
		uow:         new(mockUnitOfWork),
		progress:    new(mockProgress),
		events:      new(mockEvents),
	}
	f.txCtx = context.WithValue(f.ctx, txKey{}, "tx")
	f.category = &domain.Category{ID: uuid.New(), Name: "Strength", IsActive: true}
	f.assignment = &domain.Assignment{ID: uuid.New(), UserID: f.userID, CategoryID: f.category.ID, WeeklyGoal: 3, IsActive: true}
	f.required = &domain.TaskTemplate{ID: uuid.New(), CategoryID: f.category.ID, Title: "Warm up", IsRequired: true}
	f.optional = &domain.TaskTemplate{ID: uuid.New(), CategoryID: f.category.ID, Title: "Stretch", SortOrder: 1}

	f.handler = NewSubmitStructuredJournalHandler(
		services.NewEligibilityValidator(f.categories, f.assignments, f.templates),
		services.NewDuplicateGuard(f.journals),
		services.NewSubmissionWriter(f.journals, f.uow, nil),
		f.progress,
		f.events,
		nil,
	).WithClock(func() time.Time { return now })
	return f
}

func (f *submitFixture) command(entries ...domain.CompletionEntry) SubmitStructuredJournalCommand {
	return SubmitStructuredJournalCommand{
		UserID:          f.userID,
		CategoryID:      f.category.ID,
		Title:           "Leg day",
		Reflection:      "Squats felt heavy",
		TaskCompletions: entries,
	}
}

func (f *submitFixture) expectEligible() {
	f.categories.On("FindByID", f.ctx, f.category.ID).Return(f.category, nil)
	f.assignments.On("FindByUserAndCategory", f.ctx, f.userID, f.category.ID).Return(f.assignment, nil)
	f.templates.On("FindByCategory", f.ctx, f.category.ID).Return([]*domain.TaskTemplate{f.required, f.optional}, nil)
}

func (f *submitFixture) expectWrite() {
	f.journals.On("FindForDay", f.ctx, f.userID, f.category.ID, domain.JournalTypeStructured, now).Return(nil, nil)
	f.uow.On("Begin", f.ctx).Return(f.txCtx, nil)
	f.uow.On("Commit", f.txCtx).Return(nil)
	f.journals.On("Create", f.txCtx, mock.AnythingOfType("*domain.Journal")).Return(nil)
	f.journals.On("CreateCompletions", f.txCtx, mock.Anything).Return(nil)
}

func TestSubmitStructuredJournalHandler_Handle(t *testing.T) {
	t.Run("accepted submission with progress", func(t *testing.T) {
		f := newSubmitFixture()
		f.expectEligible()
		f.expectWrite()
		f.events.On("PublishAll", f.ctx, mock.Anything).Return(1)
		f.progress.On("Refresh", f.ctx, f.userID, f.category.ID).Return(&ProgressSnapshot{
			Completed:      1,
			Target:         3,
			CompletionRate: 33,
			Remaining:      2,
			CurrentStreak:  1,
			BestStreak:     1,
		}, nil)

		result, err := f.handler.Handle(f.ctx, f.command(
			domain.CompletionEntry{TaskTemplateID: f.required.ID, IsCompleted: true},
			domain.CompletionEntry{TaskTemplateID: f.optional.ID, IsCompleted: false},
		))

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, result.Journal.ID)
		assert.Equal(t, "Leg day", result.Journal.Title)
		assert.Equal(t, "Strength", result.Journal.CategoryName)
		assert.Equal(t, now, result.Journal.CreatedAt)
		assert.Equal(t, TaskCompletionSummary{
			CompletedTasks:         1,
			TotalTasks:             2,
			CompletionPercentage:   50,
			RequiredTasksCompleted: 1,
			RequiredTasksTotal:     1,
		}, result.TaskCompletion)
		assert.Equal(t, WeeklyProgress{Completed: 1, Target: 3, CompletionRate: 33, Remaining: 2}, result.Progress.WeeklyProgress)
		assert.Equal(t, StreakSummary{Current: 1, Best: 1, IsActive: true}, result.Progress.Streak)
		assert.False(t, result.Progress.Degraded)

		published := f.events.Calls[0].Arguments.Get(1).([]sharedDomain.DomainEvent)
		require.Len(t, published, 1)
		assert.Equal(t, domain.RoutingKeyJournalSubmitted, published[0].RoutingKey())
		assert.Equal(t, f.userID, published[0].Metadata().UserID)
		f.journals.AssertExpectations(t)
	})

	t.Run("progress failure degrades the response", func(t *testing.T) {
		f := newSubmitFixture()
		f.expectEligible()
		f.expectWrite()
		f.events.On("PublishAll", f.ctx, mock.Anything).Return(0)
		f.progress.On("Refresh", f.ctx, f.userID, f.category.ID).Return(nil, errors.New("deadlock detected"))

		result, err := f.handler.Handle(f.ctx, f.command(domain.CompletionEntry{TaskTemplateID: f.required.ID, IsCompleted: true}))

		require.NoError(t, err)
		assert.True(t, result.Progress.Degraded)
		assert.Equal(t, WeeklyProgress{}, result.Progress.WeeklyProgress)
		assert.False(t, result.Progress.Streak.IsActive)
	})

	t.Run("required task gate stops before any write", func(t *testing.T) {
		f := newSubmitFixture()
		f.expectEligible()

		_, err := f.handler.Handle(f.ctx, f.command(domain.CompletionEntry{TaskTemplateID: f.optional.ID, IsCompleted: true}))

		assert.Equal(t, sharedApplication.CodeValidationFailed, sharedApplication.CodeOf(err))
		f.uow.AssertNotCalled(t, "Begin", mock.Anything)
		f.progress.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("second submission on the same day", func(t *testing.T) {
		f := newSubmitFixture()
		f.expectEligible()
		earlier, err := domain.NewStructuredJournal(f.userID, f.category.ID, "Morning session", "", false, now.Add(-6*time.Hour))
		require.NoError(t, err)
		f.journals.On("FindForDay", f.ctx, f.userID, f.category.ID, domain.JournalTypeStructured, now).Return(earlier, nil)

		_, err = f.handler.Handle(f.ctx, f.command(domain.CompletionEntry{TaskTemplateID: f.required.ID, IsCompleted: true}))

		var appErr *sharedApplication.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, sharedApplication.CodeDuplicateResource, appErr.Code)
		f.uow.AssertNotCalled(t, "Begin", mock.Anything)
		f.events.AssertNotCalled(t, "PublishAll", mock.Anything, mock.Anything)
	})

	t.Run("title rules", func(t *testing.T) {
		f := newSubmitFixture()
		cmd := f.command()
		cmd.Title = strings.Repeat("x", 201)

		_, err := f.handler.Handle(f.ctx, cmd)

		var appErr *sharedApplication.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, sharedApplication.CodeValidationFailed, appErr.Code)
		require.Len(t, appErr.ValidationErrors, 1)
		assert.Equal(t, "title", appErr.ValidationErrors[0].Field)
	})

	t.Run("template reported twice", func(t *testing.T) {
		f := newSubmitFixture()

		_, err := f.handler.Handle(f.ctx, f.command(
			domain.CompletionEntry{TaskTemplateID: f.required.ID, IsCompleted: true},
			domain.CompletionEntry{TaskTemplateID: f.required.ID},
		))

		assert.Equal(t, sharedApplication.CodeValidationFailed, sharedApplication.CodeOf(err))
		f.categories.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("missing user", func(t *testing.T) {
		f := newSubmitFixture()
		cmd := f.command()
		cmd.UserID = uuid.Nil

		_, err := f.handler.Handle(f.ctx, cmd)

		assert.Equal(t, sharedApplication.CodeUnauthorized, sharedApplication.CodeOf(err))
	})
}

func TestJournalInputError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  sharedApplication.ErrorCode
		wantField string
	}{
		{"empty title", domain.ErrJournalEmptyTitle, sharedApplication.CodeValidationFailed, "title"},
		{"long title", domain.ErrJournalTitleTooLong, sharedApplication.CodeValidationFailed, "title"},
		{"bad type", domain.ErrJournalInvalidType, sharedApplication.CodeValidationFailed, "journal_type"},
		{"anything else", errors.New("clock skew"), sharedApplication.CodeInternalError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := journalInputError(tt.err)

			assert.ErrorIs(t, err, tt.err)
			appErr := sharedApplication.AsError(err)
			assert.Equal(t, tt.wantCode, appErr.Code)
			if tt.wantField == "" {
				assert.Empty(t, appErr.ValidationErrors)
				return
			}
			require.Len(t, appErr.ValidationErrors, 1)
			assert.Equal(t, tt.wantField, appErr.ValidationErrors[0].Field)
		})
	}
}
