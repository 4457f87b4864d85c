package migrations

import (
	"context"
	"testing"

	"github.com/habitlog/habitlog/internal/shared/infrastructure/database"
	"github.com/habitlog/habitlog/internal/shared/infrastructure/database/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiles(t *testing.T) {
	for _, driver := range []database.Driver{database.DriverSQLite, database.DriverPostgres} {
		names, err := Files(driver)
		require.NoError(t, err)
		assert.Equal(t, []string{"0001_journals.up.sql", "0002_progress.up.sql"}, names)
	}
}

func TestRun_SQLite(t *testing.T) {
	ctx := context.Background()
	conn, err := sqlite.Open(ctx, database.Config{SQLitePath: database.MemoryPath})
	require.NoError(t, err)
	defer conn.Close()

	ran, err := Run(ctx, conn.DB(), database.DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_journals", "0002_progress"}, ran)

	for _, table := range []string{"categories", "category_assignments", "task_templates", "journals", "task_completions", "progress_tracking"} {
		var name string
		err := conn.DB().QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, table)
	}

	again, err := Run(ctx, conn.DB(), database.DriverSQLite)
	require.NoError(t, err)
	assert.Empty(t, again)
}
