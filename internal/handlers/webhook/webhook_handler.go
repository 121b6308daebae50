// internal/handlers/webhook/webhook_handler.go
package webhook

import (
	"errors"
	"net/http"

	domainorder "orderbot-service/internal/domain/order"
	xerrors "orderbot-service/internal/pkg/errors"
	"orderbot-service/internal/pkg/response"
	service "orderbot-service/internal/service/order"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	orderService *service.OrderService
}

func NewWebhookHandler(orderService *service.OrderService) *WebhookHandler {
	return &WebhookHandler{orderService: orderService}
}

// ReceiveOrder accepts an order event from an external store and queues
// the buyer notifications.
func (h *WebhookHandler) ReceiveOrder(c *gin.Context) {
	var req domainorder.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	o, b, err := h.orderService.IngestWebhook(c.Request.Context(), &req)
	if err != nil {
		var ve *xerrors.ValidationError
		switch {
		case errors.As(err, &ve):
			c.JSON(http.StatusBadRequest, response.Response{
				Success: false,
				Message: "missing required fields",
				Data:    gin.H{"fields": ve.Fields},
			})
		case errors.Is(err, xerrors.ErrNotFound):
			response.Error(c, http.StatusNotFound, "unknown client", err)
		default:
			response.Error(c, http.StatusInternalServerError, "failed to process order", err)
		}
		return
	}

	response.Success(c, http.StatusCreated, "order received", gin.H{
		"order": domainorder.WebhookSummary{
			ID:          o.ID,
			OrderNumber: o.OrderNumber,
			Status:      o.Status,
			BuyerName:   b.Name,
		},
	})
}
