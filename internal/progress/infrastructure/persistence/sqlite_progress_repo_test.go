package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	journalDomain "github.com/habitlog/habitlog/internal/journals/domain"
	"github.com/habitlog/habitlog/internal/journals/infrastructure/catalog"
	journalPersistence "github.com/habitlog/habitlog/internal/journals/infrastructure/persistence"
	"github.com/habitlog/habitlog/internal/progress/domain"
	"github.com/habitlog/habitlog/internal/shared/infrastructure/database"
	"github.com/habitlog/habitlog/internal/shared/infrastructure/database/sqlite"
	"github.com/habitlog/habitlog/internal/shared/infrastructure/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func setupProgressTestDB(t *testing.T) (*sql.DB, uuid.UUID, uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	conn, err := sqlite.Open(ctx, database.Config{SQLitePath: database.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	_, err = migrations.Run(ctx, conn.DB(), database.DriverSQLite)
	require.NoError(t, err)

	userID, categoryID := uuid.New(), uuid.New()
	_, err = catalog.NewImporter(conn.DB(), database.DriverSQLite).Import(ctx, &catalog.Catalog{
		Categories:  []catalog.Category{{ID: categoryID, Name: "Running"}},
		Assignments: []catalog.Assignment{{ID: uuid.New(), UserID: userID, CategoryID: categoryID, WeeklyGoal: 3}},
	})
	require.NoError(t, err)
	return conn.DB(), userID, categoryID
}

func addJournal(t *testing.T, db *sql.DB, userID, categoryID uuid.UUID, at time.Time) *journalDomain.Journal {
	t.Helper()
	journal, err := journalDomain.NewPhotoJournal(userID, categoryID, "Run", "", false, at)
	require.NoError(t, err)
	require.NoError(t, journalPersistence.NewSQLiteJournalRepository(db).Create(context.Background(), journal))
	return journal
}

func week(userID, categoryID uuid.UUID, start time.Time, completed, best int) *domain.ProgressTracking {
	last := start.Add(18 * time.Hour)
	return &domain.ProgressTracking{
		ID:             uuid.New(),
		UserID:         userID,
		CategoryID:     categoryID,
		WeekStartDate:  start,
		TargetCount:    3,
		CompletedCount: completed,
		CompletionRate: domain.CompletionRate(completed, 3),
		CurrentStreak:  1,
		BestStreak:     best,
		LastEntryDate:  &last,
		UpdatedAt:      start.Add(19 * time.Hour),
	}
}

func TestSQLiteProgressRepository_UpsertIsIdempotent(t *testing.T) {
	db, userID, categoryID := setupProgressTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteProgressRepository(db)

	first := week(userID, categoryID, monday, 1, 1)
	require.NoError(t, repo.Upsert(ctx, first))
	require.NoError(t, repo.Upsert(ctx, first))

	replacement := week(userID, categoryID, monday, 2, 2)
	require.NoError(t, repo.Upsert(ctx, replacement))

	var rows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM progress_tracking`).Scan(&rows))
	assert.Equal(t, 1, rows)

	stored, err := repo.FindByWeek(ctx, userID, categoryID, monday)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, 2, stored.CompletedCount)
	assert.Equal(t, 67, stored.CompletionRate)
	assert.Equal(t, monday, stored.WeekStartDate)
	require.NotNil(t, stored.LastEntryDate)
	assert.True(t, replacement.LastEntryDate.Equal(*stored.LastEntryDate))
	assert.True(t, replacement.UpdatedAt.Equal(stored.UpdatedAt))
}

func TestSQLiteProgressRepository_Queries(t *testing.T) {
	db, userID, categoryID := setupProgressTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteProgressRepository(db)

	for i, best := range []int{1, 4, 2} {
		require.NoError(t, repo.Upsert(ctx, week(userID, categoryID, monday.AddDate(0, 0, -7*i), 1, best)))
	}
	otherUser := uuid.New()
	require.NoError(t, repo.Upsert(ctx, week(otherUser, categoryID, monday, 3, 9)))

	pairs, err := repo.Pairs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Pair{
		{UserID: userID, CategoryID: categoryID},
		{UserID: otherUser, CategoryID: categoryID},
	}, pairs)

	recent, err := repo.FindRecent(ctx, userID, categoryID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, monday, recent[0].WeekStartDate)
	assert.Equal(t, monday.AddDate(0, 0, -7), recent[1].WeekStartDate)

	best, err := repo.MaxBestStreak(ctx, userID, categoryID)
	require.NoError(t, err)
	assert.Equal(t, 4, best)

	missing, err := repo.FindByWeek(ctx, userID, categoryID, monday.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.DeleteByUserAndCategory(ctx, userID, categoryID))
	best, err = repo.MaxBestStreak(ctx, userID, categoryID)
	require.NoError(t, err)
	assert.Zero(t, best)

	var remaining int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM progress_tracking`).Scan(&remaining))
	assert.Equal(t, 1, remaining)

	pairs, err = repo.Pairs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Pair{{UserID: otherUser, CategoryID: categoryID}}, pairs)
}

func TestSQLiteJournalHistory(t *testing.T) {
	db, userID, categoryID := setupProgressTestDB(t)
	ctx := context.Background()
	history := NewSQLiteJournalHistory(db)

	sundayNight := monday.Add(-time.Minute)
	addJournal(t, db, userID, categoryID, sundayNight)
	addJournal(t, db, userID, categoryID, monday)
	addJournal(t, db, userID, categoryID, monday.Add(30*time.Hour))
	deleted := addJournal(t, db, userID, categoryID, monday.Add(40*time.Hour))
	require.NoError(t, deleted.SoftDelete(userID, monday.Add(41*time.Hour)))
	require.NoError(t, journalPersistence.NewSQLiteJournalRepository(db).SoftDelete(ctx, deleted))

	t.Run("count respects the Monday boundary", func(t *testing.T) {
		n, err := history.CountBetween(ctx, userID, categoryID, monday, monday.AddDate(0, 0, 7))
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("recent times newest first", func(t *testing.T) {
		times, err := history.RecentTimes(ctx, userID, categoryID, 2)
		require.NoError(t, err)
		require.Len(t, times, 2)
		assert.True(t, times[0].Equal(monday.Add(30*time.Hour)))
		assert.True(t, times[1].Equal(monday))

		all, err := history.AllTimes(ctx, userID, categoryID)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("totals", func(t *testing.T) {
		totals, err := history.Totals(ctx, userID, categoryID)
		require.NoError(t, err)
		assert.Equal(t, 3, totals.Count)
		require.NotNil(t, totals.FirstCreatedAt)
		assert.True(t, totals.FirstCreatedAt.Equal(sundayNight))

		empty, err := history.Totals(ctx, uuid.New(), categoryID)
		require.NoError(t, err)
		assert.Zero(t, empty.Count)
		assert.Nil(t, empty.FirstCreatedAt)
	})

	t.Run("pairs", func(t *testing.T) {
		pairs, err := history.Pairs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.Pair{{UserID: userID, CategoryID: categoryID}}, pairs)
	})

	t.Run("weekly goal", func(t *testing.T) {
		goal, err := history.WeeklyGoal(ctx, userID, categoryID)
		require.NoError(t, err)
		assert.Equal(t, 3, goal)

		none, err := history.WeeklyGoal(ctx, uuid.New(), categoryID)
		require.NoError(t, err)
		assert.Zero(t, none)
	})
}
