// internal/service/confirm/confirm_service.go
package confirm

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"orderbot-service/internal/domain/client"
	"orderbot-service/internal/domain/order"
	"orderbot-service/internal/metrics"
	xerrors "orderbot-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// MintToken returns a 128-bit random confirmation token in hex. Uniqueness
// is enforced by the orders table constraint, not by the generator alone.
func MintToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// OrderStore is the confirmation flow's persistence contract.
type OrderStore interface {
	FindByToken(ctx context.Context, token string) (*order.Order, error)
	FindByID(ctx context.Context, id int64) (*order.Order, error)
	// ConfirmStatus atomically moves a pending order to a terminal status;
	// false means the order was no longer pending.
	ConfirmStatus(ctx context.Context, id int64, status order.Status, notes string) (bool, error)
}

// ClientStore resolves the tenant for the confirmation email.
type ClientStore interface {
	FindByID(ctx context.Context, id int64) (*client.Client, error)
}

// EmailSender is the external mail sink notified after a confirmation.
type EmailSender interface {
	Send(to, subject, bodyHTML string) error
}

// Broadcaster pushes order updates to connected observers.
type Broadcaster interface {
	BroadcastOrderUpdate(clientID int64, o *order.Order)
}

// ConfirmService resolves and consumes single-use confirmation tokens. A
// token is a capability bound to one order; it expires with the order's
// token_expires_at and is spent by the first state-changing request.
type ConfirmService struct {
	orders      OrderStore
	clients     ClientStore
	emailer     EmailSender
	broadcaster Broadcaster
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewConfirmService(
	orders OrderStore,
	clients ClientStore,
	emailer EmailSender,
	broadcaster Broadcaster,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ConfirmService {
	return &ConfirmService{
		orders:      orders,
		clients:     clients,
		emailer:     emailer,
		broadcaster: broadcaster,
		metrics:     m,
		logger:      logger,
	}
}

// Resolve maps a token to its order for the public confirmation page. An
// expired or unknown token is a plain not-found: the caller learns nothing
// about whether the token ever existed.
func (s *ConfirmService) Resolve(ctx context.Context, token string) (*order.Order, error) {
	o, err := s.orders.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if time.Now().After(o.TokenExpiresAt) {
		return nil, xerrors.ErrNotFound
	}
	return o, nil
}

// Consume applies the buyer's decision to the order. A decision on an
// already-terminal order returns the order with ErrAlreadyConfirmed; the
// state never changes twice.
func (s *ConfirmService) Consume(ctx context.Context, token string, decision order.Status, notes string) (*order.Order, error) {
	o, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	if o.Status.Terminal() {
		return o, xerrors.ErrAlreadyConfirmed
	}

	ok, err := s.orders.ConfirmStatus(ctx, o.ID, decision, notes)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race: someone confirmed between our read and the update.
		current, err := s.orders.FindByID(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		return current, xerrors.ErrAlreadyConfirmed
	}

	updated, err := s.orders.FindByID(ctx, o.ID)
	if err != nil {
		return nil, err
	}

	s.metrics.Confirmations.WithLabelValues(string(decision)).Inc()
	s.logger.Info("order confirmed",
		zap.Int64("order_id", updated.ID),
		zap.String("order_number", updated.OrderNumber),
		zap.String("status", string(decision)),
	)

	s.broadcaster.BroadcastOrderUpdate(updated.ClientID, updated)
	go s.notifyClient(updated)

	return updated, nil
}

// notifyClient emails the tenant about the decision. Mail delivery is an
// external sink: a failure is logged, never surfaced to the buyer.
func (s *ConfirmService) notifyClient(o *order.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	cl, err := s.clients.FindByID(ctx, o.ClientID)
	if err != nil {
		s.logger.Warn("client lookup for email failed", zap.Int64("client_id", o.ClientID), zap.Error(err))
		return
	}

	subject := fmt.Sprintf("Order %s %s", o.OrderNumber, o.Status)
	body := fmt.Sprintf(
		"<p>Order <strong>%s</strong> (%s x%d) was <strong>%s</strong> by the buyer.</p>",
		o.OrderNumber, o.ProductName, o.Quantity, o.Status,
	)
	if err := s.emailer.Send(cl.Email, subject, body); err != nil {
		s.logger.Warn("confirmation email failed", zap.Int64("order_id", o.ID), zap.Error(err))
	}
}
