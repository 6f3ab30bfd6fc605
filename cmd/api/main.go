package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Project-Sylos/Mend/internal/api"
	"github.com/Project-Sylos/Mend/internal/config"
	"github.com/Project-Sylos/Mend/internal/logging"
	"github.com/Project-Sylos/Mend/internal/storage"
	"go.uber.org/zap"
)

func main() {
	configPath := getConfigPath()

	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("loaded configuration", zap.String("path", configPath), zap.String("db", cfg.Store.DBPath))

	store, err := storage.New(cfg)
	if err != nil {
		logger.Fatal("failed to open storage", zap.Error(err))
	}

	server := api.NewServer(store, &cfg.API, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		sig := <-sigChan
		logger.Info("shutting down server", zap.Stringer("signal", sig))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Stop(ctx); err != nil {
			logger.Error("error during shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting storage server",
		zap.String("addr", server.Addr()),
		zap.String("api", fmt.Sprintf("http://%s/api/v1/", server.Addr())),
		zap.Bool("auth", cfg.API.Token != ""),
	)

	// I am here to serve.
	if err := server.Start(); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
	<-stopped
	logger.Info("server shutdown complete")
}

// getConfigPath returns the configuration file path
func getConfigPath() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	return "internal/config/default.json"
}
