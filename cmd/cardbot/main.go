package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fadedpez/cardindex/internal/bot"
	"github.com/fadedpez/cardindex/internal/config"
	"github.com/fadedpez/cardindex/internal/discord"
	"github.com/fadedpez/cardindex/internal/logging"
	"github.com/fadedpez/cardindex/pkg/repositories/deck"
	"github.com/fadedpez/cardindex/pkg/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Invalid LOG_LEVEL: %v", err)
	}
	logger := logging.NewLogger(level)

	repo, err := newRepository(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize deck storage: %v", err)
	}

	session, err := discord.NewSession(cfg.Token)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}

	cardBot := bot.New(cfg, session, repo, logger)

	// Start the bot
	if err := cardBot.Start(); err != nil {
		log.Fatalf("Failed to start bot: %v", err)
	}

	// Keep the search index in step with the deck store
	var maintenance *scheduler.ElasticsearchMaintenanceScheduler
	if esRepo, ok := repo.(*deck.ElasticsearchRepository); ok {
		maintenance = scheduler.NewElasticsearchMaintenanceScheduler(esRepo, cfg.ReindexInterval(), logger)
		maintenance.Start(context.Background())
	}

	fmt.Println("Bot is now running. Press CTRL-C to exit.")

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	<-sc

	// Cleanup and exit
	fmt.Println("Shutting down...")
	if maintenance != nil {
		maintenance.Stop()
	}
	cardBot.Shutdown()
}

func newRepository(cfg *config.Config, logger *logging.Logger) (deck.Repository, error) {
	var repo deck.Repository

	switch cfg.StorageType {
	case config.StorageSQLite:
		logger.Info("Initializing SQLite deck storage at %s", cfg.SQLitePath())
		sqliteRepo, err := deck.NewSQLiteRepository(cfg.SQLitePath())
		if err != nil {
			return nil, err
		}
		repo = sqliteRepo
	case config.StorageFile:
		logger.Info("Initializing file deck storage at %s", cfg.DeckFilePath())
		fileRepo, err := deck.NewFileRepository(cfg.DeckFilePath())
		if err != nil {
			return nil, err
		}
		repo = fileRepo
	default:
		logger.Warn("Using in-memory deck storage (decks will be lost on restart)")
		repo = deck.NewMemoryRepository()
	}

	if !cfg.ElasticsearchEnabled() {
		return repo, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	esRepo, err := deck.NewElasticsearchRepository(ctx, repo, &deck.ElasticsearchConfig{
		URL:         cfg.ElasticsearchURL,
		Username:    cfg.ElasticsearchUsername,
		Password:    cfg.ElasticsearchPassword,
		IndexPrefix: cfg.ElasticsearchIndexPrefix,
		Logger:      logger,
	})
	if err != nil {
		// Card search is optional, keep serving from the base store
		logger.Error("Failed to connect to Elasticsearch, card search disabled: %v", err)
		return repo, nil
	}

	logger.Info("Mirroring decks to Elasticsearch at %s", cfg.ElasticsearchURL)
	return esRepo, nil
}
