// Package sqlite opens local SQLite databases through modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/habitlog/habitlog/internal/shared/infrastructure/database"
	_ "modernc.org/sqlite"
)

// WAL for concurrent readers, enforced foreign keys, and a busy timeout
// instead of immediate SQLITE_BUSY.
const pragmas = "_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

func init() {
	database.RegisterDriver(database.DriverSQLite, func(ctx context.Context, cfg database.Config) (database.Connection, error) {
		return Open(ctx, cfg)
	})
}

// Connection is a single-writer SQLite handle.
type Connection struct {
	db *sql.DB
}

// Open opens (creating if needed) the configured SQLite database.
func Open(ctx context.Context, cfg database.Config) (*Connection, error) {
	path := cfg.ResolvedSQLitePath()
	if path != database.MemoryPath {
		if err := database.EnsureDirectory(path); err != nil {
			return nil, fmt.Errorf("sqlite: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	// One connection: SQLite has a single writer, and an in-memory database
	// lives only as long as its connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return &Connection{db: db}, nil
}

func dsn(path string) string {
	if path == database.MemoryPath {
		return path + "?_pragma=foreign_keys(1)"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + pragmas
}

// DB returns the underlying handle for repositories.
func (c *Connection) DB() *sql.DB {
	return c.db
}

func (c *Connection) Driver() database.Driver {
	return database.DriverSQLite
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *Connection) Close() error {
	return c.db.Close()
}
