package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ptchy/chiabot/internal/api"
	"github.com/ptchy/chiabot/internal/bot"
	"github.com/ptchy/chiabot/internal/config"
	"github.com/ptchy/chiabot/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Pick the session store: Postgres when configured, otherwise the
	// volatile in-memory map.
	var sessions store.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgres(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pg.Close()

		if err := pg.RunMigrations(context.Background()); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		sessions = pg
	} else {
		log.Println("DATABASE_URL not set, sessions are in-memory only")
		sessions = store.NewMemory()
	}

	// Initialize Telegram bot. The dispatcher needs the sink and the
	// sink needs the bot's API client, so wire in two steps.
	dispatcher := bot.NewDispatcher(sessions, nil, cfg)
	telegramBot, err := bot.New(cfg.TelegramToken, dispatcher)
	if err != nil {
		log.Fatalf("Failed to create telegram bot: %v", err)
	}
	dispatcher.SetSink(bot.NewTelegramSink(telegramBot.API()))

	// Initialize API server (webhook endpoint + ledger views)
	apiServer := api.New(cfg, sessions, telegramBot)

	// Webhook mode registers the URL with Telegram and relies on the
	// API server; polling mode pulls updates directly.
	if cfg.WebhookURL != "" {
		if err := telegramBot.RegisterWebhook(cfg.WebhookURL); err != nil {
			log.Fatalf("Failed to register webhook: %v", err)
		}
		log.Printf("Webhook registered at %s", cfg.WebhookURL)
	} else {
		if err := telegramBot.Start(); err != nil {
			log.Fatalf("Failed to start telegram bot: %v", err)
		}
		defer telegramBot.Stop()
	}

	// Start API server
	go func() {
		if err := apiServer.Start(); err != nil {
			log.Printf("API server error: %v", err)
		}
	}()

	// Wait for signal to stop
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
}
