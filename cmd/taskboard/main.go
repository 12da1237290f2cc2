// Package main implements the taskboard CLI: the REST backend, the MCP tool
// server and terminal commands that drive the board through the backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"taskboard/internal/board"
	"taskboard/internal/client"
	"taskboard/internal/config"
	"taskboard/internal/util"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var (
	configPath string
	apiURL     string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:          "taskboard",
	Short:        "Kanban task board with timers and checklists",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if apiURL != "" {
			loaded.Client.BaseURL = apiURL
		}
		if logLevel != "" {
			loaded.Log.Level = logLevel
		}
		cfg = loaded
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: util.ParseLevel(cfg.Log.Level),
		}))
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend base URL (overrides client.base_url)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
}

// openBoard returns an engine loaded from the configured backend. Failures
// are printed to stderr by the engine's sink as well as returned.
func openBoard(ctx context.Context, cmd *cobra.Command) (*board.Engine, error) {
	c := client.New(cfg.Client.BaseURL, cfg.Client.Timeout())
	stderr := cmd.ErrOrStderr()
	e, err := board.New(c, board.Options{
		Logger: logger,
		Sink: board.SinkFunc(func(msg string) {
			fmt.Fprintln(stderr, "error:", msg)
		}),
	})
	if err != nil {
		return nil, err
	}
	if err := e.Load(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// requireTask fails when id is not on the board; engine operations treat
// unknown ids as no-ops.
func requireTask(e *board.Engine, id string) error {
	if _, ok := e.Task(id); !ok {
		return fmt.Errorf("task %s not found", id)
	}
	return nil
}
