package app

import (
	"database/sql"
	"fmt"

	journalsDomain "github.com/habitlog/habitlog/internal/journals/domain"
	journalsPersistence "github.com/habitlog/habitlog/internal/journals/infrastructure/persistence"
	progressDomain "github.com/habitlog/habitlog/internal/progress/domain"
	progressPersistence "github.com/habitlog/habitlog/internal/progress/infrastructure/persistence"
	sharedApplication "github.com/habitlog/habitlog/internal/shared/application"
	"github.com/habitlog/habitlog/internal/shared/infrastructure/database"
	sharedPersistence "github.com/habitlog/habitlog/internal/shared/infrastructure/persistence"
	"github.com/jackc/pgx/v5/pgxpool"
)

// JournalHistory reads journal timestamps and weekly goals for progress.
type JournalHistory interface {
	progressDomain.JournalHistory
	progressDomain.GoalSource
}

// RepositoryFactory creates repositories based on the database driver.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{
		conn:   conn,
		driver: conn.Driver(),
	}
}

// CategoryRepository creates a category repository for the configured driver.
func (f *RepositoryFactory) CategoryRepository() (journalsDomain.CategoryRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		return journalsPersistence.NewPostgresCategoryRepository(pool), nil

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		return journalsPersistence.NewSQLiteCategoryRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// AssignmentRepository creates an assignment repository for the configured driver.
func (f *RepositoryFactory) AssignmentRepository() (journalsDomain.AssignmentRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		return journalsPersistence.NewPostgresAssignmentRepository(pool), nil

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		return journalsPersistence.NewSQLiteAssignmentRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// TaskTemplateRepository creates a task template repository for the configured driver.
func (f *RepositoryFactory) TaskTemplateRepository() (journalsDomain.TaskTemplateRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		return journalsPersistence.NewPostgresTaskTemplateRepository(pool), nil

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		return journalsPersistence.NewSQLiteTaskTemplateRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// JournalRepository creates a journal repository for the configured driver.
func (f *RepositoryFactory) JournalRepository() (journalsDomain.JournalRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		return journalsPersistence.NewPostgresJournalRepository(pool), nil

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		return journalsPersistence.NewSQLiteJournalRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// ProgressRepository creates a progress tracking repository for the configured driver.
func (f *RepositoryFactory) ProgressRepository() (progressDomain.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		return progressPersistence.NewPostgresProgressRepository(pool), nil

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		return progressPersistence.NewSQLiteProgressRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// JournalHistory creates the journal history reader used by progress.
func (f *RepositoryFactory) JournalHistory() (JournalHistory, error) {
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		return progressPersistence.NewPostgresJournalHistory(pool), nil

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		return progressPersistence.NewSQLiteJournalHistory(db), nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// UnitOfWork creates a transaction manager for the configured driver.
func (f *RepositoryFactory) UnitOfWork() (sharedApplication.UnitOfWork, error) {
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		return sharedPersistence.NewPostgresUnitOfWork(pool), nil

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		return sharedPersistence.NewSQLiteUnitOfWork(db), nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// Helper methods to get underlying database connections

func (f *RepositoryFactory) getPostgresPool() (*pgxpool.Pool, error) {
	pgConn, ok := f.conn.(interface{ Pool() *pgxpool.Pool })
	if !ok {
		return nil, fmt.Errorf("postgres connection does not expose Pool()")
	}
	return pgConn.Pool(), nil
}

func (f *RepositoryFactory) getSQLiteDB() (*sql.DB, error) {
	sqliteConn, ok := f.conn.(interface{ DB() *sql.DB })
	if !ok {
		return nil, fmt.Errorf("sqlite connection does not expose DB()")
	}
	return sqliteConn.DB(), nil
}

// Driver returns the database driver type.
func (f *RepositoryFactory) Driver() database.Driver {
	return f.driver
}

// Connection returns the underlying database connection.
func (f *RepositoryFactory) Connection() database.Connection {
	return f.conn
}
