// internal/handlers/order/order_handler.go
package order

import (
	"errors"
	"net/http"
	"strconv"

	domainorder "orderbot-service/internal/domain/order"
	xerrors "orderbot-service/internal/pkg/errors"
	"orderbot-service/internal/pkg/response"
	confirmsvc "orderbot-service/internal/service/confirm"
	service "orderbot-service/internal/service/order"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService   *service.OrderService
	confirmService *confirmsvc.ConfirmService
}

func NewOrderHandler(orderService *service.OrderService, confirmService *confirmsvc.ConfirmService) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		confirmService: confirmService,
	}
}

// ========== Public Confirmation Endpoints ==========

// GetConfirmation resolves a confirmation token for the public page.
func (h *OrderHandler) GetConfirmation(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		response.Error(c, http.StatusBadRequest, "token is required", nil)
		return
	}

	o, err := h.confirmService.Resolve(c.Request.Context(), token)
	if err != nil {
		response.NotFound(c, "confirmation link is invalid or has expired")
		return
	}

	response.Success(c, http.StatusOK, "order retrieved", gin.H{"order": o})
}

// SubmitConfirmation applies the buyer's decision to the order.
func (h *OrderHandler) SubmitConfirmation(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		response.Error(c, http.StatusBadRequest, "token is required", nil)
		return
	}

	var req domainorder.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	decision, ok := domainorder.ParseDecision(req.Status)
	if !ok {
		response.Error(c, http.StatusBadRequest, "status must be approved, declined or changed", nil)
		return
	}

	o, err := h.confirmService.Consume(c.Request.Context(), token, decision, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrAlreadyConfirmed):
			c.JSON(http.StatusConflict, response.Response{
				Success: false,
				Message: "order has already been confirmed",
				Data:    gin.H{"order": o},
			})
		case errors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "confirmation link is invalid or has expired")
		default:
			response.Error(c, http.StatusInternalServerError, "failed to confirm order", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "order confirmed", gin.H{"order": o})
}

// ========== Dashboard Endpoints ==========

// ListOrders retrieves a client's orders with filters.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	clientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid client ID", err)
		return
	}

	var filters domainorder.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), clientID, &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list orders", err)
		return
	}

	response.Success(c, http.StatusOK, "orders retrieved", result)
}

// GetOrder retrieves an order by ID.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid order ID", err)
		return
	}

	o, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "order not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to get order", err)
		return
	}

	response.Success(c, http.StatusOK, "order retrieved", gin.H{"order": o})
}

// ListMessages retrieves the notification audit trail for an order.
func (h *OrderHandler) ListMessages(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid order ID", err)
		return
	}

	messages, err := h.orderService.ListMessages(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "order not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to list messages", err)
		return
	}

	response.Success(c, http.StatusOK, "messages retrieved", gin.H{
		"messages": messages,
		"count":    len(messages),
	})
}
