package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/progress/domain"
	sharedDomain "github.com/habitlog/habitlog/internal/shared/domain"
	"github.com/stretchr/testify/mock"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Upsert(ctx context.Context, progress *domain.ProgressTracking) error {
	return m.Called(ctx, progress).Error(0)
}

func (m *mockRepository) FindByWeek(ctx context.Context, userID, categoryID uuid.UUID, weekStart time.Time) (*domain.ProgressTracking, error) {
	args := m.Called(ctx, userID, categoryID, weekStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressTracking), args.Error(1)
}

func (m *mockRepository) FindRecent(ctx context.Context, userID, categoryID uuid.UUID, limit int) ([]domain.ProgressTracking, error) {
	args := m.Called(ctx, userID, categoryID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProgressTracking), args.Error(1)
}

func (m *mockRepository) MaxBestStreak(ctx context.Context, userID, categoryID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID, categoryID)
	return args.Int(0), args.Error(1)
}

func (m *mockRepository) DeleteByUserAndCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	return m.Called(ctx, userID, categoryID).Error(0)
}

func (m *mockRepository) Pairs(ctx context.Context) ([]domain.Pair, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Pair), args.Error(1)
}

type mockHistory struct {
	mock.Mock
}

func (m *mockHistory) CountBetween(ctx context.Context, userID, categoryID uuid.UUID, from, to time.Time) (int, error) {
	args := m.Called(ctx, userID, categoryID, from, to)
	return args.Int(0), args.Error(1)
}

func (m *mockHistory) RecentTimes(ctx context.Context, userID, categoryID uuid.UUID, limit int) ([]time.Time, error) {
	args := m.Called(ctx, userID, categoryID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *mockHistory) AllTimes(ctx context.Context, userID, categoryID uuid.UUID) ([]time.Time, error) {
	args := m.Called(ctx, userID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *mockHistory) Totals(ctx context.Context, userID, categoryID uuid.UUID) (domain.JournalTotals, error) {
	args := m.Called(ctx, userID, categoryID)
	return args.Get(0).(domain.JournalTotals), args.Error(1)
}

func (m *mockHistory) Pairs(ctx context.Context) ([]domain.Pair, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Pair), args.Error(1)
}

type mockGoals struct {
	mock.Mock
}

func (m *mockGoals) WeeklyGoal(ctx context.Context, userID, categoryID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID, categoryID)
	return args.Int(0), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, userID, categoryID uuid.UUID, weeks int) (*domain.Report, bool) {
	args := m.Called(ctx, userID, categoryID, weeks)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.Report), args.Bool(1)
}

func (m *mockCache) Set(ctx context.Context, userID, categoryID uuid.UUID, weeks int, report *domain.Report) {
	m.Called(ctx, userID, categoryID, weeks, report)
}

func (m *mockCache) Invalidate(ctx context.Context, userID, categoryID uuid.UUID) {
	m.Called(ctx, userID, categoryID)
}

type mockEvents struct {
	mock.Mock
}

func (m *mockEvents) PublishAll(ctx context.Context, events []sharedDomain.DomainEvent) int {
	return m.Called(ctx, events).Int(0)
}

type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
