package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Drcollinjc/claude-skills/pkg/config"
	"github.com/Drcollinjc/claude-skills/pkg/history"
	"github.com/Drcollinjc/claude-skills/pkg/logger"
	"github.com/Drcollinjc/claude-skills/pkg/presenter"
	"github.com/Drcollinjc/claude-skills/pkg/selector"
)

// mustConfig loads the application configuration or exits.
func mustConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		presenter.Error(err, "Failed to load configuration")
		os.Exit(1)
	}
	return cfg
}

// mustRuleset builds the selection ruleset from config or exits.
func mustRuleset(cfg *config.Config) *selector.Ruleset {
	ruleset, err := cfg.Ruleset()
	if err != nil {
		presenter.Error(err, "Failed to load selection ruleset")
		os.Exit(1)
	}
	return ruleset
}

// printSelection writes a selection as plain lines or a JSON array.
func printSelection(selection []string, asJSON bool) {
	if asJSON {
		encoded, err := json.MarshalIndent(selection, "", "  ")
		if err != nil {
			presenter.Error(err, "Failed to encode selection")
			os.Exit(1)
		}
		fmt.Println(string(encoded))
		return
	}

	for _, skill := range selection {
		fmt.Println(skill)
	}
}

// recordSelection appends the selection to history when enabled. Recording
// failures are logged, never fatal: history is an audit trail, not a
// dependency of selection.
func recordSelection(ctx context.Context, cfg *config.Config, kind, command, description string, selection []string, skip bool) {
	if skip || !cfg.History.Enabled {
		return
	}

	path := cfg.History.Path
	if path == "" {
		var err error
		path, err = history.DefaultPath()
		if err != nil {
			logger.G(ctx).WithError(err).Warn("failed to resolve history path")
			return
		}
	}

	store, err := history.Open(ctx, path)
	if err != nil {
		logger.G(ctx).WithError(err).Warn("failed to open selection history")
		return
	}
	defer store.Close()

	if _, err := store.Record(ctx, kind, command, description, selection); err != nil {
		logger.G(ctx).WithError(err).Warn("failed to record selection")
	}
}
