package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lifebooster/core/internal/application/store"
	"github.com/lifebooster/core/internal/infrastructure/config"
	"github.com/lifebooster/core/internal/infrastructure/logger"
	"github.com/lifebooster/core/internal/infrastructure/server"
	"github.com/lifebooster/core/internal/infrastructure/storage"
	"github.com/lifebooster/core/internal/ports"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Life Booster API server",
		Long:  "Start the Life Booster API server with all configured routes and middleware",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the stored document as JSON to stdout",
		Run: func(cmd *cobra.Command, args []string) {
			exportDocument()
		},
	}
}

// NewResetCommand creates the reset command
func NewResetCommand() *cobra.Command {
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all stored data",
		Long:  "Erase the stored document and start over from a fresh one on next launch",
		Run: func(cmd *cobra.Command, args []string) {
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				log.Fatal("Refusing to erase data without --force")
			}
			resetData()
		},
	}

	resetCmd.Flags().Bool("force", false, "Confirm the erase")
	return resetCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print Life Booster version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Life Booster Core v1.0.0")
		},
	}
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openBackend(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open storage backend", "error", err)
	}
	defer backend.Close()

	st, err := store.Open(ctx, backend, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open document store", "error", err)
	}

	srv, err := server.New(cfg, st, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize server", "error", err)
	}

	go func() {
		if err := srv.Start(cfg.Server.GetAddress()); err != nil {
			appLogger.Info("Server stopped", "reason", err)
		}
	}()

	appLogger.Info("Life Booster API server started",
		"address", cfg.Server.GetAddress(),
		"backend", cfg.Storage.Backend,
		"environment", cfg.App.Environment,
	)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Graceful shutdown failed", "error", err)
	}
}

func exportDocument() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.NewNop()
	ctx := context.Background()

	backend, err := openBackend(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to open storage backend: %v", err)
	}
	defer backend.Close()

	st, err := store.Open(ctx, backend, appLogger)
	if err != nil {
		log.Fatalf("Failed to open document store: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(st.Snapshot()); err != nil {
		log.Fatalf("Failed to encode document: %v", err)
	}
}

func resetData() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.NewNop()
	ctx := context.Background()

	backend, err := openBackend(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to open storage backend: %v", err)
	}
	defer backend.Close()

	if err := backend.Reset(ctx); err != nil {
		log.Fatalf("Failed to erase stored data: %v", err)
	}

	fmt.Println("All stored data has been erased")
}

func openBackend(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) (ports.DocumentBackend, error) {
	switch cfg.Storage.Backend {
	case "redis":
		return storage.NewRedisBackend(ctx, cfg.Redis, appLogger)
	default:
		return storage.NewFileBackend(cfg.Storage.Path, appLogger), nil
	}
}
