package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kwasu-works/lostfound-bot/bot"
	"github.com/kwasu-works/lostfound-bot/telegram"
)

type WebhookController struct {
	Dispatcher *bot.Dispatcher
}

func NewWebhookController(dispatcher *bot.Dispatcher) *WebhookController {
	return &WebhookController{Dispatcher: dispatcher}
}

// HandleUpdate decodes a Telegram update and runs it through the
// dispatcher. Telegram only needs a 200 back; everything user-facing goes
// out through the bot API, not this response.
func (wc *WebhookController) HandleUpdate(c *gin.Context) {
	var update telegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wc.Dispatcher.HandleUpdate(c.Request.Context(), &update)
	c.Status(http.StatusOK)
}

// Health is the keep-alive endpoint the hosting platform pings.
func (wc *WebhookController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
