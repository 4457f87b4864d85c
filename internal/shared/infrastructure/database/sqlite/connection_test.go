package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/habitlog/habitlog/internal/shared/infrastructure/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "habitlog.db")

	conn, err := Open(ctx, database.Config{Driver: database.DriverSQLite, SQLitePath: path})
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, database.DriverSQLite, conn.Driver())
	assert.NoError(t, conn.Ping(ctx))

	var mode string
	require.NoError(t, conn.DB().QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestOpen_MemoryKeepsState(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, database.Config{SQLitePath: database.MemoryPath})
	require.NoError(t, err)
	defer conn.Close()

	db := conn.DB()
	_, err = db.ExecContext(ctx, "CREATE TABLE entries (id TEXT PRIMARY KEY)")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO entries (id) VALUES ('a')")
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&count))
	assert.Equal(t, 1, count)

	var fk int
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpen_ThroughRegistry(t *testing.T) {
	conn, err := database.Open(context.Background(), database.Config{Driver: database.DriverSQLite, SQLitePath: database.MemoryPath})
	require.NoError(t, err)
	defer conn.Close()

	_, ok := conn.(*Connection)
	assert.True(t, ok)
}

func TestUniqueViolationIsDetected(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, database.Config{SQLitePath: database.MemoryPath})
	require.NoError(t, err)
	defer conn.Close()

	db := conn.DB()
	_, err = db.ExecContext(ctx, "CREATE TABLE days (day TEXT NOT NULL UNIQUE)")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO days (day) VALUES ('2026-10-19')")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, "INSERT INTO days (day) VALUES ('2026-10-19')")

	assert.True(t, database.IsUniqueViolation(err))
}
