package mcp

import (
	"github.com/google/uuid"
	"github.com/habitlog/habitlog/adapter/cli"
	"github.com/habitlog/habitlog/internal/app"
)

// NewCLIApp creates a CLI application instance backed by the provided container.
func NewCLIApp(container *app.Container, currentUser uuid.UUID) *cli.App {
	cliApp := cli.NewApp(
		container.SubmitJournalHandler,
		container.DeleteJournalHandler,
		container.UpdateProgressHandler,
		container.RebuildProgressHandler,
		container.GetProgressHandler,
	)

	cliApp.SetCurrentUserID(currentUser)
	cliApp.SetMaintenance(container)
	cliApp.SetConfig(container.Config)
	cliApp.SetObservability(container.Health, container.Metrics)

	return cliApp
}
