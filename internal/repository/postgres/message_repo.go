// internal/repository/postgres/message_repo.go
package postgres

import (
	"context"
	"fmt"

	"orderbot-service/internal/domain/message"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageInsert = `
	INSERT INTO messages (
		order_id, client_id, buyer_id, message_type, recipient_phone,
		message_content, status, sent_at, error_message
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id, created_at
`

// Create appends one attempt's audit row. Rows are never rewritten; a retry
// creates a new row.
func (r *MessageRepository) Create(ctx context.Context, m *message.Message) error {
	err := r.db.QueryRow(ctx, messageInsert,
		m.OrderID, m.ClientID, m.BuyerID, m.Type, m.RecipientPhone,
		m.Content, m.Status, m.SentAt, m.ErrorMessage,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// CreateWithTx is Create inside an existing transaction, used to pair the
// sent-flag flip with the audit row.
func (r *MessageRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, m *message.Message) error {
	err := tx.QueryRow(ctx, messageInsert,
		m.OrderID, m.ClientID, m.BuyerID, m.Type, m.RecipientPhone,
		m.Content, m.Status, m.SentAt, m.ErrorMessage,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListByOrder returns all attempts for an order, oldest first.
func (r *MessageRepository) ListByOrder(ctx context.Context, orderID int64) ([]message.Message, error) {
	query := `
		SELECT id, order_id, client_id, buyer_id, message_type, recipient_phone,
		       message_content, status, sent_at, delivered_at, error_message, created_at
		FROM messages
		WHERE order_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []message.Message{}
	for rows.Next() {
		var m message.Message
		err := rows.Scan(
			&m.ID, &m.OrderID, &m.ClientID, &m.BuyerID, &m.Type, &m.RecipientPhone,
			&m.Content, &m.Status, &m.SentAt, &m.DeliveredAt, &m.ErrorMessage, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}
