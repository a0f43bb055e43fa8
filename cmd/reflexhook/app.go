package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	reflexhook "github.com/flexigpt/reflexhook-go"
	"github.com/flexigpt/reflexhook-go/internal/config"
	"github.com/flexigpt/reflexhook-go/internal/logging"
)

// app holds what every subcommand shares once flags are parsed.
type app struct {
	configFile string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func (a *app) init(cmd *cobra.Command) error {
	stderr := cmd.ErrOrStderr()
	a.cfg = config.Load(a.configFile, logging.New(stderr, a.logLevel, ""))

	level := a.cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	a.logger = logging.New(stderr, level, a.cfg.LogFormat).With("cmd", cmd.Name())
	return nil
}

func (a *app) pipelineOptions() []reflexhook.Option {
	return []reflexhook.Option{
		reflexhook.WithLogger(a.logger),
		reflexhook.WithRouterBinary(a.cfg.Router.Binary),
		reflexhook.WithRouterTimeout(a.cfg.Router.Timeout),
		reflexhook.WithLookback(a.cfg.Lookback),
	}
}

func (a *app) pipeline() (*reflexhook.Pipeline, error) {
	p, err := reflexhook.New(a.pipelineOptions()...)
	if err != nil {
		return nil, fmt.Errorf("configure pipeline: %w", err)
	}
	return p, nil
}
