package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tasktrack/applications/auth"
	"tasktrack/config"
	"tasktrack/db"
	"tasktrack/logger"
	"tasktrack/metrics"
	"tasktrack/server"
	"tasktrack/store"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func ServeCmd(flags *globalFlags) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long:  "Open the database, apply migrations when db.auto_migrate is set, and serve the HTTP API until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), flags, port)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "Override server.port")
	return cmd
}

func runServe(ctx context.Context, flags *globalFlags, port int) error {
	cfg, closer, err := bootstrap(flags)
	if err != nil {
		return err
	}
	defer closer.Close()
	if port > 0 {
		cfg.Server.Port = port
	}

	log := logger.Log
	log.Info("[main] program started")
	if cfg.Auth.JWTSecret == config.Default().Auth.JWTSecret {
		log.Warn("[main] JWT_SECRET is the built-in default; set a real secret outside development.")
	}

	// --- DATABASE ---
	handle, err := db.Open(ctx, cfg.DB, log)
	if err != nil {
		return fmt.Errorf("database initialization failed: %w", err)
	}
	defer handle.Close()

	if cfg.DB.AutoMigrate {
		log.Info("[main] Running database migrations...")
		if err := db.RunMigrations(ctx, handle, cfg.DB.Driver, log); err != nil {
			return fmt.Errorf("database migration failed: %w", err)
		}
	}

	// --- SERVICES ---
	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, log)
	if err != nil {
		return err
	}
	e := server.New(server.Deps{
		Config:  cfg.Server,
		Log:     log,
		Store:   store.New(handle, cfg.DB.Driver, log),
		Tokens:  tokens,
		Hasher:  auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		Metrics: metrics.New(),
	})

	// --- START / SHUTDOWN ---
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		log.Info(fmt.Sprintf("[main] Starting Echo server on http://localhost%s", addr))
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	log.Info("[main] Shutdown signal received, draining connections...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("[main] Server stopped.")
	return nil
}
