package cli

import (
	"context"

	"github.com/google/uuid"
	journalCommands "github.com/habitlog/habitlog/internal/journals/application/commands"
	"github.com/habitlog/habitlog/internal/journals/infrastructure/catalog"
	progressCommands "github.com/habitlog/habitlog/internal/progress/application/commands"
	progressQueries "github.com/habitlog/habitlog/internal/progress/application/queries"
	"github.com/habitlog/habitlog/pkg/config"
	"github.com/habitlog/habitlog/pkg/observability"
)

// Maintenance runs schema and reference-data operations against the store.
type Maintenance interface {
	Migrate(ctx context.Context) ([]string, error)
	ImportCatalog(ctx context.Context, c *catalog.Catalog) (catalog.Result, error)
}

// App holds the CLI application dependencies.
type App struct {
	// Journal Command Handlers
	SubmitJournalHandler *journalCommands.SubmitStructuredJournalHandler
	DeleteJournalHandler *journalCommands.DeleteJournalHandler

	// Progress Command Handlers
	UpdateProgressHandler  *progressCommands.UpdateProgressHandler
	RebuildProgressHandler *progressCommands.RebuildProgressHandler

	// Progress Query Handlers
	GetProgressHandler *progressQueries.GetProgressHandler

	Maintenance Maintenance
	Config      *config.Config
	Health      *observability.HealthRegistry
	Metrics     *observability.InMemoryMetrics

	// Current user context
	CurrentUserID uuid.UUID
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	submitJournalHandler *journalCommands.SubmitStructuredJournalHandler,
	deleteJournalHandler *journalCommands.DeleteJournalHandler,
	updateProgressHandler *progressCommands.UpdateProgressHandler,
	rebuildProgressHandler *progressCommands.RebuildProgressHandler,
	getProgressHandler *progressQueries.GetProgressHandler,
) *App {
	return &App{
		SubmitJournalHandler:   submitJournalHandler,
		DeleteJournalHandler:   deleteJournalHandler,
		UpdateProgressHandler:  updateProgressHandler,
		RebuildProgressHandler: rebuildProgressHandler,
		GetProgressHandler:     getProgressHandler,
		CurrentUserID:          uuid.Nil,
	}
}

// SetCurrentUserID updates the current user ID.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

// SetMaintenance updates the store maintenance operations.
func (a *App) SetMaintenance(m Maintenance) {
	a.Maintenance = m
}

// SetConfig updates the application configuration.
func (a *App) SetConfig(cfg *config.Config) {
	a.Config = cfg
}

// SetObservability updates the health registry and metrics collector.
func (a *App) SetObservability(health *observability.HealthRegistry, metrics *observability.InMemoryMetrics) {
	a.Health = health
	a.Metrics = metrics
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
