package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/journals/domain"
	"github.com/stretchr/testify/mock"
)

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

type mockAssignmentRepo struct {
	mock.Mock
}

func (m *mockAssignmentRepo) FindByUserAndCategory(ctx context.Context, userID, categoryID uuid.UUID) (*domain.Assignment, error) {
	args := m.Called(ctx, userID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assignment), args.Error(1)
}

type mockTemplateRepo struct {
	mock.Mock
}

func (m *mockTemplateRepo) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.TaskTemplate, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TaskTemplate), args.Error(1)
}

type mockJournalRepo struct {
	mock.Mock
}

func (m *mockJournalRepo) Create(ctx context.Context, journal *domain.Journal) error {
	return m.Called(ctx, journal).Error(0)
}

func (m *mockJournalRepo) CreateCompletions(ctx context.Context, completions []*domain.TaskCompletion) error {
	return m.Called(ctx, completions).Error(0)
}

func (m *mockJournalRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockJournalRepo) SoftDelete(ctx context.Context, journal *domain.Journal) error {
	return m.Called(ctx, journal).Error(0)
}

func (m *mockJournalRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Journal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *mockJournalRepo) FindCompletions(ctx context.Context, journalID uuid.UUID) ([]*domain.TaskCompletion, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TaskCompletion), args.Error(1)
}

func (m *mockJournalRepo) FindForDay(ctx context.Context, userID, categoryID uuid.UUID, journalType domain.JournalType, day time.Time) (*domain.Journal, error) {
	args := m.Called(ctx, userID, categoryID, journalType, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
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
