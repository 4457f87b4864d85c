package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/habitlog/habitlog/adapter/api"
	"github.com/habitlog/habitlog/pkg/observability"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the habitlog HTTP API.

Requests are authenticated with HMAC-signed bearer tokens when JWT_SECRET
is set; otherwise every request runs as HABITLOG_USER_ID.

Examples:
  habitlog serve
  habitlog serve --addr 127.0.0.1:9090`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.SubmitJournalHandler == nil || app.Config == nil {
			return errors.New("serving the API requires a database connection")
		}

		cfg := api.ServerConfigFrom(app.Config)
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}

		log := Logger()
		srv := NewAPIServer(app, cfg)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("api server: %w", err)
		case <-cmd.Context().Done():
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("api server shutdown failed", "error", err)
			return err
		}
		return nil
	},
}

// NewAPIServer builds the HTTP API server from the application handlers.
func NewAPIServer(app *App, cfg api.ServerConfig) *api.Server {
	log := Logger()
	metrics := app.Metrics
	if metrics == nil {
		metrics = observability.NewInMemoryMetrics()
	}
	return api.NewServer(cfg, api.Handlers{
		Journals: api.NewJournalHandler(app.SubmitJournalHandler, app.DeleteJournalHandler, metrics, log),
		Progress: api.NewProgressHandler(app.GetProgressHandler, app.UpdateProgressHandler, metrics, log),
		Auth:     api.NewAuthenticator(app.Config.JWTSecret, app.Config.JWTIssuer, app.CurrentUserID),
	}, app.Health, metrics, log)
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (defaults to HTTP_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
