// internal/service/order/order_service.go
package order

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"orderbot-service/internal/domain/buyer"
	"orderbot-service/internal/domain/message"
	domainorder "orderbot-service/internal/domain/order"
	"orderbot-service/internal/metrics"
	xerrors "orderbot-service/internal/pkg/errors"
	"orderbot-service/internal/service/confirm"

	"go.uber.org/zap"
)

// IngestStore persists a webhook submission atomically.
type IngestStore interface {
	ClientExists(ctx context.Context, clientID int64) (bool, error)
	CreateOrderWithBuyer(ctx context.Context, b *buyer.Buyer, o *domainorder.Order) (*buyer.Buyer, error)
}

// Scheduler hands the freshly created order to the notification pipeline.
type Scheduler interface {
	Schedule(ctx context.Context, o *domainorder.Order, b *buyer.Buyer) error
}

// OrderReader serves the dashboard's read paths.
type OrderReader interface {
	FindByID(ctx context.Context, id int64) (*domainorder.Order, error)
	ListByClient(ctx context.Context, clientID int64, filters *domainorder.ListFilters) ([]domainorder.Order, int64, error)
}

// MessageReader lists the audit trail of an order.
type MessageReader interface {
	ListByOrder(ctx context.Context, orderID int64) ([]message.Message, error)
}

type OrderService struct {
	store     IngestStore
	orders    OrderReader
	messages  MessageReader
	scheduler Scheduler
	tokenTTL  time.Duration
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewOrderService(
	store IngestStore,
	orders OrderReader,
	messages MessageReader,
	scheduler Scheduler,
	tokenTTL time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		store:     store,
		orders:    orders,
		messages:  messages,
		scheduler: scheduler,
		tokenTTL:  tokenTTL,
		metrics:   m,
		logger:    logger,
	}
}

// IngestWebhook validates an external store's order submission, persists the
// buyer and order together, and schedules the notifications synchronously.
// The caller gets an error whenever the order cannot be considered fully
// created and scheduled.
func (s *OrderService) IngestWebhook(ctx context.Context, req *domainorder.WebhookRequest) (*domainorder.Order, *buyer.Buyer, error) {
	if missing := req.MissingFields(); len(missing) > 0 {
		s.metrics.WebhookOrders.WithLabelValues("invalid").Inc()
		return nil, nil, xerrors.NewValidationError(missing...)
	}

	exists, err := s.store.ClientExists(ctx, req.ClientID)
	if err != nil {
		s.metrics.WebhookOrders.WithLabelValues("error").Inc()
		return nil, nil, err
	}
	if !exists {
		s.metrics.WebhookOrders.WithLabelValues("unknown_client").Inc()
		return nil, nil, fmt.Errorf("client %d: %w", req.ClientID, xerrors.ErrNotFound)
	}

	token, err := confirm.MintToken()
	if err != nil {
		s.metrics.WebhookOrders.WithLabelValues("error").Inc()
		return nil, nil, err
	}

	b := &buyer.Buyer{
		ClientID: req.ClientID,
		Name:     req.Buyer.Name,
		Phone:    req.Buyer.Phone,
		Email:    sql.NullString{String: req.Buyer.Email, Valid: req.Buyer.Email != ""},
		Address:  sql.NullString{String: req.Buyer.Address, Valid: req.Buyer.Address != ""},
	}

	o := &domainorder.Order{
		OrderNumber:       req.OrderNumber,
		ClientID:          req.ClientID,
		ProductName:       req.ProductName,
		Quantity:          req.Quantity,
		TotalPrice:        req.TotalPrice,
		ConfirmationToken: token,
		TokenExpiresAt:    time.Now().Add(s.tokenTTL),
		Status:            domainorder.StatusPending,
		PaymentStatus:     "unpaid",
		DeliveryStatus:    "pending",
		Notes:             sql.NullString{String: req.Notes, Valid: req.Notes != ""},
	}

	b, err = s.store.CreateOrderWithBuyer(ctx, b, o)
	if err != nil {
		s.metrics.WebhookOrders.WithLabelValues("error").Inc()
		return nil, nil, err
	}

	s.logger.Info("order ingested",
		zap.Int64("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.Int64("client_id", o.ClientID),
		zap.Int64("buyer_id", b.ID),
	)

	if err := s.scheduler.Schedule(ctx, o, b); err != nil {
		// The order row exists (the monitor sweep will re-drive it), but the
		// caller must not be told the submission fully succeeded.
		s.metrics.WebhookOrders.WithLabelValues("schedule_failed").Inc()
		return nil, nil, fmt.Errorf("order %d created but scheduling failed: %w", o.ID, err)
	}

	s.metrics.WebhookOrders.WithLabelValues("created").Inc()
	return o, b, nil
}

// GetOrder returns one order for the dashboard.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*domainorder.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// ListOrders returns a client's orders with paging.
func (s *OrderService) ListOrders(ctx context.Context, clientID int64, filters *domainorder.ListFilters) (*domainorder.ListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	if filters.PageSize > 100 {
		filters.PageSize = 100
	}

	orders, total, err := s.orders.ListByClient(ctx, clientID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &domainorder.ListResponse{
		Orders:     orders,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// ListMessages returns the notification audit trail of an order.
func (s *OrderService) ListMessages(ctx context.Context, orderID int64) ([]message.Message, error) {
	if _, err := s.orders.FindByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.messages.ListByOrder(ctx, orderID)
}
