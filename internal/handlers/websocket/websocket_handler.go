// internal/handlers/websocket/websocket_handler.go
package websocket

import (
	"net/http"
	"strconv"
	"time"

	"orderbot-service/internal/pkg/response"
	ws "orderbot-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict origins to the dashboard host in production
		return true
	},
}

type WebSocketHandler struct {
	hub    *ws.Hub
	logger *zap.Logger
}

func NewWebSocketHandler(hub *ws.Hub, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
	}
}

// HandleConnection upgrades a dashboard connection and registers it for
// live order updates.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	clientID, err := strconv.ParseInt(c.Query("client_id"), 10, 64)
	if err != nil || clientID <= 0 {
		response.Error(c, http.StatusBadRequest, "client_id query parameter is required", err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		return
	}

	client := ws.NewClient(h.hub, conn, clientID)
	h.hub.Register <- client

	h.logger.Info("WebSocket client connected", zap.Int64("client_id", clientID))

	go client.WritePump()
	go client.ReadPump()
}

// GetStats returns WebSocket connection statistics.
func (h *WebSocketHandler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"total_connections": h.hub.TotalClients(),
		"timestamp":         time.Now(),
	}

	response.Success(c, http.StatusOK, "WebSocket stats", stats)
}
