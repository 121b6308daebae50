// internal/domain/message/entity.go
package message

import (
	"database/sql"
	"time"
)

// Type identifies the notification channel a message went through.
type Type string

const (
	TypeWhatsApp Type = "whatsapp"
	TypeSMS      Type = "sms"
)

// Status is the delivery state of one attempt.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
)

// Message is the audit record of a single notification attempt. Rows are
// append-only: a retry creates a new row, it never rewrites a finished one.
type Message struct {
	ID       int64 `json:"id" db:"id"`
	OrderID  int64 `json:"order_id" db:"order_id"`
	ClientID int64 `json:"client_id" db:"client_id"`
	BuyerID  int64 `json:"buyer_id" db:"buyer_id"`

	Type           Type   `json:"message_type" db:"message_type"`
	RecipientPhone string `json:"recipient_phone" db:"recipient_phone"`
	Content        string `json:"message_content" db:"message_content"`

	Status       Status         `json:"status" db:"status"`
	SentAt       sql.NullTime   `json:"sent_at,omitempty" db:"sent_at"`
	DeliveredAt  sql.NullTime   `json:"delivered_at,omitempty" db:"delivered_at"`
	ErrorMessage sql.NullString `json:"error_message,omitempty" db:"error_message"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
