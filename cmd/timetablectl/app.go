package main

import (
	"context"
	"fmt"

	"github.com/noah-isme/timetable-api/internal/app"
	"github.com/noah-isme/timetable-api/pkg/config"
	"github.com/noah-isme/timetable-api/pkg/logger"
)

type globalOptions struct {
	logLevel   string
	rosterFile string
}

// buildApp loads configuration from the environment and applies flag overrides.
func buildApp(ctx context.Context, opts *globalOptions) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Log.Level = opts.logLevel
	cfg.Log.Format = "console"
	if opts.rosterFile != "" {
		cfg.Roster.Source = config.RosterSourceFile
		cfg.Roster.File = opts.rosterFile
	}

	logr, err := logger.New(cfg.Env, cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return app.New(ctx, cfg, logr)
}
