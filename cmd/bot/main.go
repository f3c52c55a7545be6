package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	maxbot "github.com/max-messenger/max-bot-api-client-go"

	"forest-focus-bot/internal/catalog"
	"forest-focus-bot/internal/config"
	"forest-focus-bot/internal/handlers"
	"forest-focus-bot/internal/logging"
	"forest-focus-bot/internal/session"
	"forest-focus-bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	if cfg.BotToken == "" {
		log.Fatal("BOT_TOKEN environment variable is required")
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	store, err := storage.New(cfg, logger)
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}
	defer store.Close()

	sessions := session.NewManager(store, logger)
	handler := handlers.New(cfg, store, sessions, logger)

	api, _ := maxbot.New(cfg.BotToken)

	botCtx := context.Background()
	botInfo, err := api.Bots.GetBot(botCtx)
	if err != nil {
		logger.Warnf("failed to get bot info: %v", err)
	} else {
		fmt.Printf("🤖 Bot: %s\n", botInfo.Name)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		exit := make(chan os.Signal, 1)
		signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
		<-exit
		fmt.Println("\n🛑 Shutting down bot...")
		cancel()
	}()

	logger.Infof("🌱 Forest Focus starting, %d plant species, storage=%s",
		len(catalog.Species), cfg.StorageBackend)

	for update := range api.GetUpdates(ctx) {
		handler.HandleUpdate(ctx, api, update)
	}

	fmt.Println("👋 Bot stopped")
}
