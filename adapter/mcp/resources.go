package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterResources registers MCP resources that expose habitlog state.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	app := deps.App

	srv.Resource("habitlog://user/profile").
		Name("User Profile").
		Description("The user journals are recorded for").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil {
				return nil, fmt.Errorf("profile requires initialization")
			}
			profile := map[string]any{
				"user_id":  app.CurrentUserID.String(),
				"timezone": "UTC",
			}
			if app.Config != nil {
				profile["environment"] = app.Config.AppEnv
				profile["version"] = app.Config.Version
			}
			return jsonResource(uri, profile)
		})

	srv.Resource("habitlog://health").
		Name("Health").
		Description("Health of the database, cache, and event broker").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.Health == nil {
				return nil, fmt.Errorf("health checks require initialization")
			}
			return jsonResource(uri, app.Health.Check(ctx))
		})

	srv.Resource("habitlog://metrics").
		Name("Metrics").
		Description("Submission, progress, cache, and request counters").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.Metrics == nil {
				return nil, fmt.Errorf("metrics require initialization")
			}
			return jsonResource(uri, app.Metrics.Snapshot())
		})

	return nil
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
