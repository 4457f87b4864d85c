package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/habitlog/habitlog/adapter/cli"
	"github.com/habitlog/habitlog/internal/progress/application/commands"
	"github.com/habitlog/habitlog/internal/progress/application/queries"
	"github.com/habitlog/habitlog/internal/progress/domain"
)

type progressGetInput struct {
	CategoryID string `json:"category_id" jsonschema:"required"`
	Weeks      int    `json:"weeks,omitempty"`
}

type progressUpdateInput struct {
	CategoryID string `json:"category_id" jsonschema:"required"`
}

func registerProgressTools(srv *mcp.Server, deps ToolDependencies) {
	srv.Tool("progress.get").
		Description("Get the weekly progress report for a category: current week, history, trend, consistency, prediction, and comparison").
		Handler(getProgress(deps.App))

	srv.Tool("progress.update").
		Description("Recompute and store the current week's progress for a category").
		Handler(updateProgress(deps.App))
}

func getProgress(app *cli.App) func(context.Context, progressGetInput) (*domain.Report, error) {
	return func(ctx context.Context, input progressGetInput) (*domain.Report, error) {
		if app == nil || app.GetProgressHandler == nil {
			return nil, errors.New("progress reports require database connection")
		}
		categoryID, err := parseUUID("category_id", input.CategoryID)
		if err != nil {
			return nil, err
		}

		weeks := 0
		if input.Weeks != 0 {
			weeks = queries.ClampWeeks(input.Weeks)
		}

		report, err := app.GetProgressHandler.Handle(ctx, queries.GetProgressQuery{
			UserID:     app.CurrentUserID,
			CategoryID: categoryID,
			Weeks:      weeks,
		})
		if err != nil {
			return nil, toolError(err)
		}
		return report, nil
	}
}

func updateProgress(app *cli.App) func(context.Context, progressUpdateInput) (*domain.ProgressTracking, error) {
	return func(ctx context.Context, input progressUpdateInput) (*domain.ProgressTracking, error) {
		if app == nil || app.UpdateProgressHandler == nil {
			return nil, errors.New("progress updates require database connection")
		}
		categoryID, err := parseUUID("category_id", input.CategoryID)
		if err != nil {
			return nil, err
		}

		tracking, err := app.UpdateProgressHandler.Handle(ctx, commands.UpdateProgressCommand{
			UserID:     app.CurrentUserID,
			CategoryID: categoryID,
		})
		if err != nil {
			return nil, toolError(err)
		}
		return tracking, nil
	}
}
