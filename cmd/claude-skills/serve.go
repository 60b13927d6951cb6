package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Drcollinjc/claude-skills/pkg/api"
	"github.com/Drcollinjc/claude-skills/pkg/compose"
	"github.com/Drcollinjc/claude-skills/pkg/history"
	"github.com/Drcollinjc/claude-skills/pkg/logger"
	"github.com/Drcollinjc/claude-skills/pkg/presenter"
	"github.com/Drcollinjc/claude-skills/pkg/telemetry"
	"github.com/Drcollinjc/claude-skills/pkg/version"
)

// ServeConfig holds configuration for the serve command.
type ServeConfig struct {
	Host string
	Port int
}

// NewServeConfig creates a ServeConfig with default values.
func NewServeConfig() *ServeConfig {
	return &ServeConfig{
		Host: "localhost",
		Port: 8080,
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the skill selection HTTP API",
	Long: `Run an HTTP server exposing selection, composition, and skill listing
endpoints for orchestrators. The ruleset is loaded once at startup and never
changes while serving; skill content refreshes when skill directories change.

Examples:
  claude-skills serve
  claude-skills serve --host 0.0.0.0 --port 9090`,
	Run: func(cmd *cobra.Command, _ []string) {
		flags := getServeConfigFromFlags(cmd)
		serveCmdRun(cmd.Context(), flags)
	},
}

func init() {
	defaults := NewServeConfig()
	serveCmd.Flags().String("host", defaults.Host, "Host to bind the API server to")
	serveCmd.Flags().Int("port", defaults.Port, "Port to bind the API server to")
	rootCmd.AddCommand(serveCmd)
}

// getServeConfigFromFlags returns only the explicitly set flags; unset fields
// stay zero so configuration file values keep precedence over flag defaults.
func getServeConfigFromFlags(cmd *cobra.Command) *ServeConfig {
	config := &ServeConfig{}
	if host, err := cmd.Flags().GetString("host"); err == nil && cmd.Flags().Changed("host") {
		config.Host = host
	}
	if port, err := cmd.Flags().GetInt("port"); err == nil && cmd.Flags().Changed("port") {
		config.Port = port
	}
	return config
}

func serveCmdRun(ctx context.Context, flags *ServeConfig) {
	cfg := mustConfig()
	ruleset := mustRuleset(cfg)

	host := cfg.Serve.Host
	port := cfg.Serve.Port
	if flags.Host != "" {
		host = flags.Host
	}
	if flags.Port != 0 {
		port = flags.Port
	}

	shutdownTracer, err := telemetry.InitTracer(ctx, telemetry.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    "claude-skills",
		ServiceVersion: version.Get().Version,
		SamplerType:    cfg.Tracing.SamplerType,
		SamplerRatio:   cfg.Tracing.SamplerRatio,
	})
	if err != nil {
		presenter.Error(err, "Failed to initialize tracing")
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			logger.G(ctx).WithError(err).Warn("failed to shut down tracer")
		}
	}()

	discovery, err := cfg.Discovery()
	if err != nil {
		presenter.Error(err, "Failed to initialize skill discovery")
		os.Exit(1)
	}

	composer := compose.NewComposer(discovery,
		compose.WithMaxActive(cfg.MaxActiveSkills),
		compose.WithConstitutionPath(cfg.Constitution),
	)

	opts := []api.Option{}
	if len(cfg.AllowedSkills) > 0 {
		opts = append(opts, api.WithAllowedSkills(cfg.AllowedSkills))
	}

	var store *history.Store
	if cfg.History.Enabled {
		path := cfg.History.Path
		if path == "" {
			path, err = history.DefaultPath()
			if err != nil {
				presenter.Error(err, "Failed to resolve history path")
				os.Exit(1)
			}
		}
		store, err = history.Open(ctx, path)
		if err != nil {
			presenter.Error(err, "Failed to open selection history")
			os.Exit(1)
		}
		defer store.Close()
		opts = append(opts, api.WithHistory(store))
	}

	server := api.NewServer(ruleset, discovery, composer, opts...)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx, host, port)
	}()

	select {
	case <-ctx.Done():
		logger.G(ctx).Info("shutting down selection API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			presenter.Error(err, "Failed to shut down server cleanly")
			os.Exit(1)
		}
		<-errCh
	case err := <-errCh:
		if err != nil {
			presenter.Error(err, "Selection API server failed")
			os.Exit(1)
		}
	}
}
