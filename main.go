package main

import (
	"context"
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"

	"github.com/daniilabradorr/diaflow/internal/api"
	"github.com/daniilabradorr/diaflow/internal/bot"
	"github.com/daniilabradorr/diaflow/internal/bot/handlers"
	"github.com/daniilabradorr/diaflow/internal/cache"
	"github.com/daniilabradorr/diaflow/internal/config"
	"github.com/daniilabradorr/diaflow/internal/logger"
	"github.com/daniilabradorr/diaflow/internal/services"
	"github.com/daniilabradorr/diaflow/internal/session"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting DiaFlow bot...")

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithConfig(logger.Config(cfg.Logger)); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	logger.Info("Configuration loaded", "api_url", cfg.APIBaseURL)

	// Session store: Redis when configured, in-memory otherwise.
	var store session.Store
	if cfg.Redis.Host != "" {
		redisStore, err := session.NewRedisStore(cfg.Redis.Host, cfg.Redis.Port)
		if err != nil {
			logger.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
		logger.Info("Using Redis session store", "host", cfg.Redis.Host)
	} else {
		store = session.NewMemoryStore()
		logger.Info("Using in-memory session store")
	}

	sessions := session.NewManager(store, cfg.APIBaseURL)
	apiClient := api.NewClient(cfg.APIBaseURL+"/api", sessions)
	queryCache := cache.New()

	deps := handlers.Dependencies{
		Session:  sessions,
		Glucose:  services.NewGlucoseService(apiClient, queryCache),
		Doses:    services.NewDoseService(apiClient, queryCache),
		Meals:    services.NewMealService(apiClient, queryCache),
		Supplies: services.NewSupplyService(apiClient, queryCache),
		Alerts:   services.NewAlertService(apiClient, queryCache),
		Kits:     services.NewKitService(apiClient, queryCache),
		Reports:  services.NewReportService(apiClient, queryCache),
		Public:   services.NewPublicKitService(cfg.APIBaseURL),
	}
	logger.Info("Services initialized")

	telegramBot, err := bot.NewBot(cfg.TelegramToken, deps)
	if err != nil {
		logger.Fatalf("Failed to create bot: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := telegramBot.Start(context.Background()); err != nil {
			logger.Error("Bot stopped with error", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("Bot is running. Press Ctrl+C to stop.")
	wg.Wait()
}
