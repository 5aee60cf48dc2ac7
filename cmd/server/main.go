// MindCare - supportive mental wellness conversations with risk monitoring
package main

import (
	"context"
	"os"

	"github.com/mindcarehq/mindcare/internal/config"
	"github.com/mindcarehq/mindcare/internal/logging"
	"github.com/mindcarehq/mindcare/internal/server"
)

// Build info - set by ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	logger := logging.New("info", "text")

	logger.Info("starting mindcare",
		"version", Version,
		"commit", Commit,
		"build_time", BuildTime,
	)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"env", cfg.Env,
		"chat_model", cfg.ChatModel,
		"scoring_model", cfg.ScoringModel,
		"history_window", cfg.HistoryWindow,
	)

	srv, err := server.New(cfg, server.WithLogger(logger))
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
