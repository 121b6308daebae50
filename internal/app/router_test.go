// internal/app/router_test.go
package app

import (
	"testing"

	authHandler "orderbot-service/internal/handlers/auth"
	orderHandler "orderbot-service/internal/handlers/order"
	settingsHandler "orderbot-service/internal/handlers/settings"
	webhookHandler "orderbot-service/internal/handlers/webhook"
	wsHandler "orderbot-service/internal/handlers/websocket"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func routeTable(t *testing.T) map[string]bool {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	SetupRouter(engine, &Handlers{
		WebhookHandler:  webhookHandler.NewWebhookHandler(nil),
		OrderHandler:    orderHandler.NewOrderHandler(nil, nil),
		SettingsHandler: settingsHandler.NewSettingsHandler(nil),
		AuthHandler:     authHandler.NewAuthHandler(nil),
		WSHandler:       wsHandler.NewWebSocketHandler(nil, zap.NewNop()),
	})

	routes := make(map[string]bool)
	for _, r := range engine.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	return routes
}

// Store webhooks and buyer confirmation links are published unversioned;
// only the dashboard API carries the /v1 prefix.
func TestPublicRoutesAreUnversioned(t *testing.T) {
	routes := routeTable(t)

	assert.True(t, routes["POST /api/webhook/order"])
	assert.True(t, routes["GET /api/orders/confirm/:token"])
	assert.True(t, routes["POST /api/orders/confirm/:token"])

	assert.False(t, routes["POST /api/v1/webhook/order"])
	assert.False(t, routes["GET /api/v1/orders/confirm/:token"])
}

func TestDashboardRoutesStayVersioned(t *testing.T) {
	routes := routeTable(t)

	assert.True(t, routes["GET /api/v1/health"])
	assert.True(t, routes["GET /api/v1/clients/:id/orders"])
	assert.True(t, routes["GET /api/v1/clients/:id/bot-settings"])
	assert.True(t, routes["PUT /api/v1/clients/:id/bot-settings"])
	assert.True(t, routes["GET /api/v1/orders/:id"])
	assert.True(t, routes["GET /api/v1/orders/:id/messages"])
	assert.True(t, routes["POST /api/v1/auth/register"])
	assert.True(t, routes["POST /api/v1/bot-settings/preview"])
	assert.True(t, routes["GET /metrics"])
	assert.True(t, routes["GET /ws"])
}
