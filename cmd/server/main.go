package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/chanwatch/chanwatch/internal/config"
	"github.com/chanwatch/chanwatch/pkg/analysis"
	"github.com/chanwatch/chanwatch/pkg/api"
	"github.com/chanwatch/chanwatch/pkg/ingestion"
	"github.com/chanwatch/chanwatch/pkg/models"
	"github.com/chanwatch/chanwatch/pkg/notify"
)

func main() {
	configPath := flag.String("config", "", "Path to optional YAML config file")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting chanwatch server")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// Enrichment runs once per source signature; the loader caches the
	// derived table until the file changes on disk.
	enricher := analysis.NewEnricher()
	loader := ingestion.NewLoader(ingestion.ParserConfig{
		DefaultWorkspace: cfg.Data.DefaultWorkspace,
		SkipErrors:       true,
	}, enricher.Enrich, logger)

	table := func() []models.Message {
		return loader.Load(cfg.Data.Path)
	}

	slackClient := notify.NewSlackClient(cfg.Slack.BaseURL, cfg.Slack.Token)
	trelloClient := notify.NewTrelloClient(cfg.Trello.BaseURL, cfg.Trello.APIKey, cfg.Trello.Token, cfg.Trello.ListID)

	server := api.NewServer(table, slackClient, trelloClient, logger)

	// Setup HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
