package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	journalCommands "github.com/habitlog/habitlog/internal/journals/application/commands"
	journalServices "github.com/habitlog/habitlog/internal/journals/application/services"
	journalsDomain "github.com/habitlog/habitlog/internal/journals/domain"
	"github.com/habitlog/habitlog/internal/journals/infrastructure/catalog"
	progressCommands "github.com/habitlog/habitlog/internal/progress/application/commands"
	progressQueries "github.com/habitlog/habitlog/internal/progress/application/queries"
	progressServices "github.com/habitlog/habitlog/internal/progress/application/services"
	progressDomain "github.com/habitlog/habitlog/internal/progress/domain"
	progressCache "github.com/habitlog/habitlog/internal/progress/infrastructure/cache"
	sharedApplication "github.com/habitlog/habitlog/internal/shared/application"
	"github.com/habitlog/habitlog/internal/shared/infrastructure/database"
	_ "github.com/habitlog/habitlog/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/habitlog/habitlog/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/habitlog/habitlog/internal/shared/infrastructure/eventbus"
	"github.com/habitlog/habitlog/internal/shared/infrastructure/migrations"
	"github.com/habitlog/habitlog/pkg/config"
	"github.com/habitlog/habitlog/pkg/observability"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics
	Health  *observability.HealthRegistry

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis
	RedisClient *redis.Client

	// Repositories
	CategoryRepo   journalsDomain.CategoryRepository
	AssignmentRepo journalsDomain.AssignmentRepository
	TemplateRepo   journalsDomain.TaskTemplateRepository
	JournalRepo    journalsDomain.JournalRepository
	ProgressRepo   progressDomain.Repository
	JournalHistory JournalHistory

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Publishers
	EventPublisher eventbus.Publisher
	DomainEvents   *eventbus.DomainEventPublisher

	// Progress
	Policy        progressDomain.Policy
	ProgressCache progressDomain.ReportCache

	// Journal Command Handlers
	SubmitJournalHandler *journalCommands.SubmitStructuredJournalHandler
	DeleteJournalHandler *journalCommands.DeleteJournalHandler

	// Progress Command Handlers
	UpdateProgressHandler  *progressCommands.UpdateProgressHandler
	RebuildProgressHandler *progressCommands.RebuildProgressHandler

	// Progress Query Handlers
	GetProgressHandler *progressQueries.GetProgressHandler
}

// NewContainer creates and wires all dependencies. Without DATABASE_URL it
// runs in local mode on a migrated SQLite file; Redis and RabbitMQ are
// optional outside production.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(0),
	}

	if err := c.initDatabase(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initRepositories(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initPublisher(); err != nil {
		c.Close()
		return nil, err
	}

	policy, err := progressDomain.LoadPolicy(cfg.AnalyticsPolicyFile)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Policy = policy

	c.initHandlers()

	logger.Info("container initialized",
		"driver", c.DBDriver.String(),
		"cache", c.RedisClient != nil,
	)
	return c, nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	driver, err := database.ParseDriver(c.Config.DatabaseDriver)
	if err != nil {
		return err
	}

	conn, err := database.Open(ctx, database.Config{
		Driver:     driver,
		URL:        c.Config.DatabaseURL,
		SQLitePath: c.Config.SQLitePath,
		MaxConns:   c.Config.DatabaseMaxConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()
	c.Health.Register("database", observability.PingChecker(conn.Ping, true))
	c.Logger.Info("connected to database", "driver", c.DBDriver.String())

	// Local mode migrates itself; PostgreSQL schemas are applied with
	// `habitlog migrate`.
	if c.DBDriver == database.DriverSQLite {
		db, err := sqliteDB(conn)
		if err != nil {
			return err
		}
		applied, err := migrations.Run(ctx, db, database.DriverSQLite)
		if err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		if len(applied) > 0 {
			c.Logger.Info("SQLite migrations applied", "versions", applied)
		}
	}
	return nil
}

func (c *Container) initRepositories() error {
	factory := NewRepositoryFactory(c.DBConn)

	var err error
	if c.CategoryRepo, err = factory.CategoryRepository(); err != nil {
		return fmt.Errorf("failed to create category repository: %w", err)
	}
	if c.AssignmentRepo, err = factory.AssignmentRepository(); err != nil {
		return fmt.Errorf("failed to create assignment repository: %w", err)
	}
	if c.TemplateRepo, err = factory.TaskTemplateRepository(); err != nil {
		return fmt.Errorf("failed to create task template repository: %w", err)
	}
	if c.JournalRepo, err = factory.JournalRepository(); err != nil {
		return fmt.Errorf("failed to create journal repository: %w", err)
	}
	if c.ProgressRepo, err = factory.ProgressRepository(); err != nil {
		return fmt.Errorf("failed to create progress repository: %w", err)
	}
	if c.JournalHistory, err = factory.JournalHistory(); err != nil {
		return fmt.Errorf("failed to create journal history: %w", err)
	}
	if c.UnitOfWork, err = factory.UnitOfWork(); err != nil {
		return fmt.Errorf("failed to create unit of work: %w", err)
	}
	return nil
}

// initRedis connects the progress cache. Outside production an unreachable
// Redis leaves the cache disabled.
func (c *Container) initRedis(ctx context.Context) error {
	c.ProgressCache = progressDomain.NoopCache{}
	if !c.Config.ProgressCacheEnabled || c.Config.RedisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		if c.Config.IsProduction() {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		c.Logger.Warn("invalid Redis URL, progress cache disabled", "error", err)
		return nil
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if c.Config.IsProduction() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, progress cache disabled", "error", err)
		return nil
	}

	c.RedisClient = client
	cacheCfg := progressCache.DefaultConfig()
	cacheCfg.TTL = c.Config.ProgressCacheTTL
	reportCache := progressCache.NewRedisReportCache(client, cacheCfg, c.Metrics, c.Logger)
	c.ProgressCache = reportCache
	c.Health.Register("redis", observability.PingChecker(reportCache.Ping, false))
	c.Logger.Info("connected to Redis")
	return nil
}

// initPublisher connects RabbitMQ, falling back to a noop publisher outside
// production.
func (c *Container) initPublisher() error {
	if c.Config.RabbitMQURL == "" {
		c.EventPublisher = eventbus.NewNoopPublisher(c.Logger)
	} else {
		publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, "", c.Logger)
		switch {
		case err == nil:
			c.EventPublisher = publisher
			c.Health.Register("rabbitmq", observability.PingChecker(func(context.Context) error {
				if publisher.IsClosed() {
					return errors.New("connection closed")
				}
				return nil
			}, false))
		case c.Config.IsProduction():
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		default:
			c.Logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
			c.EventPublisher = eventbus.NewNoopPublisher(c.Logger)
		}
	}

	c.DomainEvents = eventbus.NewDomainEventPublisher(c.EventPublisher, eventbus.DefaultBreakerConfig(), c.Logger)
	return nil
}

func (c *Container) initHandlers() {
	calculator := progressServices.NewWeeklyProgressCalculator(
		c.JournalHistory,
		c.JournalHistory,
		c.ProgressRepo,
		c.Config.StreakLookback,
	)

	// Progress handlers
	c.UpdateProgressHandler = progressCommands.NewUpdateProgressHandler(
		calculator, c.ProgressRepo, c.UnitOfWork, c.ProgressCache, c.DomainEvents, c.Logger,
	)
	c.RebuildProgressHandler = progressCommands.NewRebuildProgressHandler(
		c.JournalHistory, c.JournalHistory, c.ProgressRepo, c.UnitOfWork, c.ProgressCache, calculator.Lookback(), c.Logger,
	)
	c.GetProgressHandler = progressQueries.NewGetProgressHandler(
		calculator, c.ProgressRepo, c.JournalHistory, c.ProgressCache, c.Policy,
	).WithDefaultWeeks(c.Config.ProgressDefaultWeeks)

	// Journal handlers
	refresher := &progressRefresher{
		update:  c.UpdateProgressHandler,
		rebuild: c.RebuildProgressHandler,
		metrics: c.Metrics,
	}
	c.SubmitJournalHandler = journalCommands.NewSubmitStructuredJournalHandler(
		journalServices.NewEligibilityValidator(c.CategoryRepo, c.AssignmentRepo, c.TemplateRepo),
		journalServices.NewDuplicateGuard(c.JournalRepo),
		journalServices.NewSubmissionWriter(c.JournalRepo, c.UnitOfWork, c.Logger),
		refresher,
		c.DomainEvents,
		c.Logger,
	)
	c.DeleteJournalHandler = journalCommands.NewDeleteJournalHandler(
		c.JournalRepo, c.UnitOfWork, refresher, c.DomainEvents, c.Logger,
	)
}

// Migrate applies pending schema migrations and returns their versions.
func (c *Container) Migrate(ctx context.Context) ([]string, error) {
	db, release, err := c.sqlHandle(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	return migrations.Run(ctx, db, c.DBDriver)
}

// ImportCatalog upserts categories, templates and assignments.
func (c *Container) ImportCatalog(ctx context.Context, doc *catalog.Catalog) (catalog.Result, error) {
	db, release, err := c.sqlHandle(ctx)
	if err != nil {
		return catalog.Result{}, err
	}
	defer release()
	return catalog.NewImporter(db, c.DBDriver).Import(ctx, doc)
}

// sqlHandle returns a database/sql handle for the store. PostgreSQL gets a
// short-lived lib/pq connection that release closes.
func (c *Container) sqlHandle(ctx context.Context) (*sql.DB, func(), error) {
	if c.DBDriver == database.DriverPostgres {
		db, err := migrations.OpenPostgres(ctx, c.Config.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	}
	db, err := sqliteDB(c.DBConn)
	if err != nil {
		return nil, nil, err
	}
	return db, func() {}, nil
}

func sqliteDB(conn database.Connection) (*sql.DB, error) {
	sqliteConn, ok := conn.(interface{ DB() *sql.DB })
	if !ok {
		return nil, fmt.Errorf("expected SQLite connection with DB() method, got %T", conn)
	}
	return sqliteConn.DB(), nil
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		} else {
			c.Logger.Info("database connection closed", "driver", c.DBDriver.String())
		}
	}
}
