package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kwasu-works/lostfound-bot/blob"
	"github.com/kwasu-works/lostfound-bot/bot"
	"github.com/kwasu-works/lostfound-bot/config"
	"github.com/kwasu-works/lostfound-bot/controllers"
	"github.com/kwasu-works/lostfound-bot/middleware"
)

// SetupRoutes wires the webhook, keep-alive and file proxy endpoints. The
// proxy route is only mounted when the proxy blob strategy is active.
func SetupRoutes(r *gin.Engine, cfg *config.Config, dispatcher *bot.Dispatcher, proxy *blob.ProxyRelay, files blob.FileSource) {
	webhookController := controllers.NewWebhookController(dispatcher)

	r.GET("/health", webhookController.Health)

	webhook := r.Group("/webhook")
	webhook.Use(middleware.WebhookAuth(cfg.WebhookSecret))
	{
		webhook.POST("", webhookController.HandleUpdate)
	}

	if proxy != nil {
		fileController := controllers.NewFileController(proxy, files)
		r.GET("/files/:token", fileController.ServeFile)
	}
}
