package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MemoryPath opens a private in-memory SQLite database.
const MemoryPath = ":memory:"

// Connection is an open handle to the configured store.
type Connection interface {
	Driver() Driver
	Ping(ctx context.Context) error
	Close() error
}

// Config selects and configures the store.
type Config struct {
	// Driver forces a backend. Empty means detect from URL.
	Driver Driver
	// URL is the PostgreSQL connection string.
	URL string
	// SQLitePath is the database file for local mode. Defaults to
	// ~/.habitlog/habitlog.db.
	SQLitePath string
	// MaxConns caps the PostgreSQL pool size.
	MaxConns int
}

// ResolvedDriver returns the configured driver or the one implied by URL.
func (c Config) ResolvedDriver() Driver {
	if c.Driver != "" {
		return c.Driver
	}
	if strings.HasPrefix(c.URL, "sqlite://") {
		return DriverSQLite
	}
	return DetectDriver(c.URL)
}

// ResolvedSQLitePath returns the SQLite file to open.
func (c Config) ResolvedSQLitePath() string {
	if c.SQLitePath != "" {
		return c.SQLitePath
	}
	if path, ok := strings.CutPrefix(c.URL, "sqlite://"); ok && path != "" {
		return path
	}
	return DefaultSQLitePath()
}

type openFunc func(ctx context.Context, cfg Config) (Connection, error)

var openers = map[Driver]openFunc{}

// RegisterDriver makes a backend available to Open. Driver packages call it
// from init.
func RegisterDriver(driver Driver, open func(ctx context.Context, cfg Config) (Connection, error)) {
	openers[driver] = open
}

// Open connects to the store described by cfg.
func Open(ctx context.Context, cfg Config) (Connection, error) {
	driver := cfg.ResolvedDriver()
	open, ok := openers[driver]
	if !ok {
		return nil, fmt.Errorf("database driver %q is not registered", driver)
	}
	return open(ctx, cfg)
}

// DefaultSQLitePath returns the local-mode database file.
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".habitlog", "habitlog.db")
}

// EnsureDirectory creates the parent directory of path.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
