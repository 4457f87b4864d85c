package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/progress/application/services"
	"github.com/habitlog/habitlog/internal/progress/domain"
	sharedApplication "github.com/habitlog/habitlog/internal/shared/application"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Wednesday.
var now = time.Date(2026, 10, 21, 12, 0, 0, 0, time.UTC)

type queryFixture struct {
	ctx        context.Context
	userID     uuid.UUID
	categoryID uuid.UUID
	weekStart  time.Time
	repo       *mockRepository
	history    *mockHistory
	goals      *mockGoals
	cache      *mockCache
	handler    *GetProgressHandler
}

func newQueryFixture() *queryFixture {
	f := &queryFixture{
		ctx:        context.Background(),
		userID:     uuid.New(),
		categoryID: uuid.New(),
		weekStart:  time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		repo:       new(mockRepository),
		history:    new(mockHistory),
		goals:      new(mockGoals),
		cache:      new(mockCache),
	}
	calculator := services.NewWeeklyProgressCalculator(f.history, f.goals, f.repo, 30)
	f.handler = NewGetProgressHandler(calculator, f.repo, f.history, f.cache, domain.DefaultPolicy()).
		WithClock(func() time.Time { return now })
	return f
}

func (f *queryFixture) expectCurrentWeek(goal, completed int, recent []time.Time) {
	f.goals.On("WeeklyGoal", f.ctx, f.userID, f.categoryID).Return(goal, nil)
	f.history.On("CountBetween", f.ctx, f.userID, f.categoryID, f.weekStart, f.weekStart.AddDate(0, 0, 7)).Return(completed, nil)
	f.history.On("RecentTimes", f.ctx, f.userID, f.categoryID, 30).Return(recent, nil)
	f.repo.On("MaxBestStreak", f.ctx, f.userID, f.categoryID).Return(2, nil)
}

func (f *queryFixture) storedWeek(weeksAgo, completed, target int) domain.ProgressTracking {
	return domain.ProgressTracking{
		ID:             uuid.New(),
		UserID:         f.userID,
		CategoryID:     f.categoryID,
		WeekStartDate:  f.weekStart.AddDate(0, 0, -7*weeksAgo),
		TargetCount:    target,
		CompletedCount: completed,
		CompletionRate: domain.CompletionRate(completed, target),
	}
}

func TestGetProgressHandler_Handle(t *testing.T) {
	t.Run("composes the report", func(t *testing.T) {
		f := newQueryFixture()
		first := time.Date(2026, 10, 5, 8, 0, 0, 0, time.UTC)
		stale := f.storedWeek(0, 1, 3)
		previous := f.storedWeek(1, 3, 3)
		older := f.storedWeek(2, 2, 3)

		f.cache.On("Get", f.ctx, f.userID, f.categoryID, DefaultWeeks).Return(nil, false)
		f.expectCurrentWeek(3, 2, []time.Time{now.Add(-2 * time.Hour), now.AddDate(0, 0, -1)})
		f.repo.On("FindRecent", f.ctx, f.userID, f.categoryID, DefaultWeeks).Return([]domain.ProgressTracking{stale, previous, older}, nil)
		f.repo.On("FindByWeek", f.ctx, f.userID, f.categoryID, f.weekStart.AddDate(0, 0, -7)).Return(&previous, nil)
		f.history.On("Totals", f.ctx, f.userID, f.categoryID).Return(domain.JournalTotals{Count: 8, FirstCreatedAt: &first}, nil)
		f.cache.On("Set", f.ctx, f.userID, f.categoryID, DefaultWeeks, mock.Anything).Return()

		report, err := f.handler.Handle(f.ctx, GetProgressQuery{UserID: f.userID, CategoryID: f.categoryID})

		require.NoError(t, err)
		assert.Equal(t, 2, report.CurrentWeek.CompletedCount)
		assert.Equal(t, 67, report.CurrentWeek.CompletionRate)
		assert.Equal(t, 2, report.CurrentWeek.CurrentStreak)
		require.Len(t, report.History, 3)
		assert.Equal(t, stale.ID, report.History[0].ID)
		assert.Equal(t, 2, report.History[0].CompletedCount)
		assert.Equal(t, previous.WeekStartDate, report.History[1].WeekStartDate)
		assert.Equal(t, 3, report.Analysis.WeeksAnalyzed)
		assert.Equal(t, 3, report.Consistency.TotalWeeks)
		assert.True(t, report.Comparison.HasPrevious)
		assert.Equal(t, -33, report.Comparison.CompletionRateChange)
		assert.Equal(t, 8, report.TotalJournals)
		assert.Equal(t, 0.5, report.Prediction.DailyRate)
		assert.Equal(t, 5, report.Prediction.DaysRemaining)
		assert.True(t, report.Prediction.WillComplete)
		f.cache.AssertExpectations(t)
	})

	t.Run("cache hit skips the store", func(t *testing.T) {
		f := newQueryFixture()
		cached := &domain.Report{TotalJournals: 4}
		f.cache.On("Get", f.ctx, f.userID, f.categoryID, 4).Return(cached, true)

		report, err := f.handler.Handle(f.ctx, GetProgressQuery{UserID: f.userID, CategoryID: f.categoryID, Weeks: 4})

		require.NoError(t, err)
		assert.Same(t, cached, report)
		f.goals.AssertNotCalled(t, "WeeklyGoal", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("first week has no comparison", func(t *testing.T) {
		f := newQueryFixture()
		f.cache.On("Get", f.ctx, f.userID, f.categoryID, MaxWeeks).Return(nil, false)
		f.expectCurrentWeek(1, 0, nil)
		f.repo.On("FindRecent", f.ctx, f.userID, f.categoryID, MaxWeeks).Return([]domain.ProgressTracking{}, nil)
		f.repo.On("FindByWeek", f.ctx, f.userID, f.categoryID, f.weekStart.AddDate(0, 0, -7)).Return(nil, nil)
		f.history.On("Totals", f.ctx, f.userID, f.categoryID).Return(domain.JournalTotals{}, nil)
		f.cache.On("Set", f.ctx, f.userID, f.categoryID, MaxWeeks, mock.Anything).Return()

		report, err := f.handler.Handle(f.ctx, GetProgressQuery{UserID: f.userID, CategoryID: f.categoryID, Weeks: 500})

		require.NoError(t, err)
		assert.False(t, report.Comparison.HasPrevious)
		assert.NotEmpty(t, report.Comparison.Message)
		assert.Len(t, report.History, 1)
		assert.Equal(t, 10, report.Prediction.Confidence)
		assert.False(t, report.Prediction.WillComplete)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newQueryFixture()
		f.cache.On("Get", f.ctx, f.userID, f.categoryID, DefaultWeeks).Return(nil, false)
		f.goals.On("WeeklyGoal", f.ctx, f.userID, f.categoryID).Return(0, errors.New("connection refused"))

		_, err := f.handler.Handle(f.ctx, GetProgressQuery{UserID: f.userID, CategoryID: f.categoryID})

		assert.Equal(t, sharedApplication.CodeDatabaseError, sharedApplication.CodeOf(err))
		f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing user", func(t *testing.T) {
		f := newQueryFixture()

		_, err := f.handler.Handle(f.ctx, GetProgressQuery{CategoryID: f.categoryID})

		assert.Equal(t, sharedApplication.CodeUnauthorized, sharedApplication.CodeOf(err))
	})
}

func TestClampWeeks(t *testing.T) {
	assert.Equal(t, 1, ClampWeeks(-3))
	assert.Equal(t, 1, ClampWeeks(0))
	assert.Equal(t, 12, ClampWeeks(12))
	assert.Equal(t, 52, ClampWeeks(53))
}
