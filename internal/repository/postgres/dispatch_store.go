// internal/repository/postgres/dispatch_store.go
package postgres

import (
	"context"
	"fmt"

	"orderbot-service/internal/domain/message"
	"orderbot-service/internal/domain/order"
)

// DispatchStore is the dispatch workers' view of the database: order status
// reads plus the per-attempt finalize that pairs the message audit row with
// the order's sent-flag flip in a single transaction.
type DispatchStore struct {
	db       *DB
	orders   *OrderRepository
	messages *MessageRepository
}

func NewDispatchStore(db *DB, orders *OrderRepository, messages *MessageRepository) *DispatchStore {
	return &DispatchStore{db: db, orders: orders, messages: messages}
}

func (s *DispatchStore) FindOrder(ctx context.Context, id int64) (*order.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// RecordAttempt appends the attempt's audit row and, when markSent is true,
// flips the order's sent flag for the channel. The two writes commit
// together so the audit trail never claims a send the order row denies.
func (s *DispatchStore) RecordAttempt(ctx context.Context, m *message.Message, markSent bool) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.messages.CreateWithTx(ctx, tx, m); err != nil {
		return err
	}
	if markSent {
		if err := s.orders.MarkSentWithTx(ctx, tx, m.OrderID, string(m.Type)); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
