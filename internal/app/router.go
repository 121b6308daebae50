// internal/app/router.go
package app

import (
	authHandler "orderbot-service/internal/handlers/auth"
	orderHandler "orderbot-service/internal/handlers/order"
	settingsHandler "orderbot-service/internal/handlers/settings"
	webhookHandler "orderbot-service/internal/handlers/webhook"
	wsHandler "orderbot-service/internal/handlers/websocket"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	WebhookHandler  *webhookHandler.WebhookHandler
	OrderHandler    *orderHandler.OrderHandler
	SettingsHandler *settingsHandler.SettingsHandler
	AuthHandler     *authHandler.AuthHandler
	WSHandler       *wsHandler.WebSocketHandler
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	// Store webhooks and buyer confirmation links are published without a
	// version prefix; the dashboard API lives under /api/v1.
	public := r.Group("/api")
	api := r.Group("/api/v1")

	// ==================== Health & Metrics ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Store Webhook ====================
	public.POST("/webhook/order", h.WebhookHandler.ReceiveOrder)

	// ==================== Public Confirmation ====================
	confirm := public.Group("/orders/confirm")
	{
		confirm.GET("/:token", h.OrderHandler.GetConfirmation)
		confirm.POST("/:token", h.OrderHandler.SubmitConfirmation)
	}

	// ==================== Client Accounts ====================
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.AuthHandler.Register)
		auth.POST("/forgot-password", h.AuthHandler.ForgotPassword)
		auth.POST("/reset-password", h.AuthHandler.ResetPassword)
	}

	// ==================== Dashboard ====================
	clients := api.Group("/clients/:id")
	{
		clients.GET("/orders", h.OrderHandler.ListOrders)
		clients.GET("/bot-settings", h.SettingsHandler.GetSettings)
		clients.PUT("/bot-settings", h.SettingsHandler.UpdateSettings)
	}

	orders := api.Group("/orders")
	{
		orders.GET("/:id", h.OrderHandler.GetOrder)
		orders.GET("/:id/messages", h.OrderHandler.ListMessages)
	}

	api.POST("/bot-settings/preview", h.SettingsHandler.PreviewTemplate)

	// ==================== Operations ====================
	api.GET("/ws/stats", h.WSHandler.GetStats)
}
