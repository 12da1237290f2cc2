package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"taskboard/internal/mcptools"
)

var (
	mcpTransport string
	mcpAddr      string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP tool server (GitHub stats and npm package info)",
	Args:  cobra.NoArgs,
	RunE:  runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpTransport, "transport", "", "Transport: http or stdio (overrides mcp.transport)")
	mcpCmd.Flags().StringVar(&mcpAddr, "addr", "", "HTTP listen address (overrides mcp.addr)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(_ *cobra.Command, _ []string) error {
	transport := mcpTransport
	if transport == "" {
		transport = cfg.MCP.Transport
	}
	addr := mcpAddr
	if addr == "" {
		addr = cfg.MCP.Addr
	}

	registry := mcptools.NewRegistry(cfg.MCP.UpstreamURL, cfg.Client.Timeout())
	s := mcptools.NewServer(mcptools.NewTools(registry, logger))

	switch transport {
	case "stdio":
		return server.ServeStdio(s)
	case "http":
	default:
		return fmt.Errorf("unknown mcp transport %q", transport)
	}

	httpServer := server.NewStreamableHTTPServer(s, server.WithStateLess(true))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting mcp server", slog.String("addr", addr), slog.String("endpoint", "/mcp"))
		if err := httpServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case err, ok := <-errCh:
		if ok {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown mcp server", slog.String("error", err.Error()))
	}
	logger.Info("mcp server stopped")
	return nil
}
