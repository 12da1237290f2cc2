package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"taskboard/internal/server"
	"taskboard/internal/storage/sqlite"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST backend",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var (
	serveAddr   string
	serveDB     string
	serveStatic string
	serveSeed   bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address (overrides server.addr)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "Path to sqlite database file (overrides database.path)")
	serveCmd.Flags().StringVar(&serveStatic, "static", "", "Directory with a built frontend (overrides server.static_dir)")
	serveCmd.Flags().BoolVar(&serveSeed, "seed", false, "Reset the database with demo data before serving")
	rootCmd.AddCommand(serveCmd)
}

func openStore(path string) (*sqlite.Store, error) {
	if path == "" {
		path = cfg.Database.Path
	}
	return sqlite.Open(sqlite.Options{Path: path, Driver: cfg.Database.Driver}, logger)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	static := serveStatic
	if static == "" {
		static = cfg.Server.StaticDir
	}

	store, err := openStore(serveDB)
	if err != nil {
		logger.Error("unable to open database", slog.String("error", err.Error()))
		return err
	}
	defer store.Close()

	if serveSeed {
		if err := store.Reset(cmd.Context(), sqlite.DemoTasks(), sqlite.DemoPersons()); err != nil {
			return err
		}
		logger.Info("database seeded with demo data")
	}

	srv := server.New(store, logger, static)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
	return nil
}
