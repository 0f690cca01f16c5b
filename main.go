package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kwasu-works/lostfound-bot/blob"
	"github.com/kwasu-works/lostfound-bot/bot"
	"github.com/kwasu-works/lostfound-bot/config"
	"github.com/kwasu-works/lostfound-bot/routes"
	"github.com/kwasu-works/lostfound-bot/storage"
	"github.com/kwasu-works/lostfound-bot/telegram"
)

func main() {
	// Set up logging to stdout
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	// Initialize database and document store
	db := config.InitDB()
	store := storage.NewPostgresStore(db)

	// Telegram client and blob relay
	client := telegram.NewClient(cfg.TelegramToken)

	var relay blob.Relay
	var proxy *blob.ProxyRelay
	switch cfg.BlobStrategy {
	case config.BlobR2:
		relay = blob.NewR2Relay(client, config.GetR2Config())
	default:
		proxy = blob.NewProxyRelay(client, cfg.WebhookBase, cfg.ProxySecret)
		relay = proxy
	}

	dispatcher := bot.NewDispatcher(
		client,
		bot.NewSessionManager(store),
		bot.NewReportRepository(store),
		relay,
	)

	// Create a new Gin router
	r := gin.Default()
	r.Use(gin.LoggerWithWriter(os.Stdout))

	routes.SetupRoutes(r, cfg, dispatcher, proxy, client)

	// Register the webhook with Telegram
	if cfg.WebhookBase != "" {
		webhookURL := cfg.WebhookBase + "/webhook"
		if err := client.SetWebhook(context.Background(), webhookURL, cfg.WebhookSecret); err != nil {
			log.Printf("Setting webhook failed: %v", err)
		} else {
			log.Printf("Webhook registered at %s", webhookURL)
		}
	}

	log.Printf("Starting server on port %s", cfg.Port)
	r.Run(":" + cfg.Port)
}
