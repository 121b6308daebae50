// internal/repository/postgres/ingest_store.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"orderbot-service/internal/domain/buyer"
	"orderbot-service/internal/domain/order"
	xerrors "orderbot-service/internal/pkg/errors"
)

// IngestStore persists a webhook submission: buyer find-or-create plus order
// creation in one transaction, so the caller never observes a partial write.
type IngestStore struct {
	db      *DB
	buyers  *BuyerRepository
	orders  *OrderRepository
	clients *ClientRepository
}

func NewIngestStore(db *DB, buyers *BuyerRepository, orders *OrderRepository, clients *ClientRepository) *IngestStore {
	return &IngestStore{db: db, buyers: buyers, orders: orders, clients: clients}
}

func (s *IngestStore) ClientExists(ctx context.Context, clientID int64) (bool, error) {
	return s.clients.Exists(ctx, clientID)
}

// CreateOrderWithBuyer resolves the buyer by (client_id, phone), creating it
// when absent, then inserts the order. Both persist or neither does.
func (s *IngestStore) CreateOrderWithBuyer(ctx context.Context, b *buyer.Buyer, o *order.Order) (*buyer.Buyer, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	existing, err := s.buyers.FindByPhoneWithTx(ctx, tx, b.ClientID, b.Phone)
	switch {
	case err == nil:
		b = existing
	case errors.Is(err, xerrors.ErrNotFound):
		if err := s.buyers.CreateWithTx(ctx, tx, b); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	o.BuyerID = b.ID
	if err := s.orders.CreateWithTx(ctx, tx, o); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return b, nil
}
