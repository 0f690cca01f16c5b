package config

import "os"

// BlobStrategy selects how found-item photos are delivered to chats.
type BlobStrategy string

const (
	// BlobProxy serves photos through this service's /files endpoint with a
	// signed, expiring token. Default: nothing but the Telegram file id is
	// persisted.
	BlobProxy BlobStrategy = "proxy"
	// BlobR2 copies photos into the R2 bucket and hands out its public URL.
	BlobR2 BlobStrategy = "r2"
)

type Config struct {
	TelegramToken string
	WebhookBase   string // public base URL, e.g. https://bot.example.com
	WebhookSecret string
	Port          string
	BlobStrategy  BlobStrategy
	ProxySecret   string // signs proxy file tokens
}

func Load() *Config {
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		WebhookBase:   os.Getenv("WEBHOOK_BASE_URL"),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		Port:          os.Getenv("PORT"),
		BlobStrategy:  BlobStrategy(os.Getenv("BLOB_STRATEGY")),
		ProxySecret:   os.Getenv("FILE_PROXY_SECRET"),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.BlobStrategy == "" {
		cfg.BlobStrategy = BlobProxy
	}
	if cfg.ProxySecret == "" {
		cfg.ProxySecret = cfg.TelegramToken
	}
	return cfg
}
