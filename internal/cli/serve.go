package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/layoutd/layoutd/pkg/api"
	"github.com/layoutd/layoutd/pkg/config"
	"github.com/layoutd/layoutd/pkg/metrics"
	"github.com/layoutd/layoutd/pkg/observability"
)

// shutdownGrace is how long in-flight requests get to finish on shutdown.
const shutdownGrace = 10 * time.Second

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run the layout HTTP API.

The server exposes POST /layout for layout requests, GET /healthz and
GET /readyz as probes, and GET /metrics for prometheus scraping.

Configuration comes from an optional TOML file, overridden by LAYOUTD_*
environment variables. A .env file in the working directory is honored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")

	return cmd
}

// runServe wires the full service and blocks until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.SetLogLevel(logLevel(cfg.Log.Level))

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	reg := metrics.NewRegistry()
	hooks := metrics.NewHooks(reg)
	observability.SetLayoutHooks(hooks)
	observability.SetCacheHooks(hooks)

	server := api.NewServer(runner,
		api.WithSecret(cfg.Server.Secret),
		api.WithMetrics(reg),
		api.WithLogger(c.Logger),
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening",
			"addr", httpServer.Addr,
			"engine", cfg.Engine.URL,
			"cache", cfg.Cache.Backend,
			"auth", cfg.Server.Secret != "")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down", "grace", shutdownGrace)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
