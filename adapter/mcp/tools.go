package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/habitlog/habitlog/adapter/cli"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App *cli.App
}

// RegisterCLITools registers MCP tools that mirror CLI functionality.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	registerSystemTools(srv, deps)
	registerJournalTools(srv, deps)
	registerProgressTools(srv, deps)

	return nil
}

type healthOutput struct {
	Status string `json:"status"`
	UserID string `json:"user_id"`
}

func registerSystemTools(srv *mcp.Server, deps ToolDependencies) {
	app := deps.App

	srv.Tool("habitlog.health").
		Description("Check habitlog wiring health").
		Handler(func(ctx context.Context, input struct{}) (*healthOutput, error) {
			if app == nil {
				return nil, errors.New("app not initialized")
			}
			status := "ok"
			if app.Health != nil {
				status = string(app.Health.Check(ctx).Status)
			}
			return &healthOutput{Status: status, UserID: app.CurrentUserID.String()}, nil
		})
}
