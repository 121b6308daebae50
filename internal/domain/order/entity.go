// internal/domain/order/entity.go
package order

import (
	"database/sql"
	"time"
)

// Status is the confirmation state of an order. Transitions are one-way:
// pending is the only non-terminal state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDeclined Status = "declined"
	StatusChanged  Status = "changed"
)

// Terminal reports whether the status can no longer change.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusDeclined || s == StatusChanged
}

// ParseDecision maps a buyer-submitted decision string to a terminal status.
func ParseDecision(v string) (Status, bool) {
	switch Status(v) {
	case StatusApproved, StatusDeclined, StatusChanged:
		return Status(v), true
	default:
		return "", false
	}
}

type Order struct {
	ID                int64  `json:"id" db:"id"`
	OrderNumber       string `json:"order_number" db:"order_number"`
	ClientID          int64  `json:"client_id" db:"client_id"`
	BuyerID           int64  `json:"buyer_id" db:"buyer_id"`
	ProductName       string `json:"product_name" db:"product_name"`
	Quantity          int    `json:"quantity" db:"quantity"`
	TotalPrice        float64 `json:"total_price" db:"total_price"`

	ConfirmationToken string    `json:"-" db:"confirmation_token"`
	TokenExpiresAt    time.Time `json:"-" db:"token_expires_at"`

	Status      Status       `json:"status" db:"status"`
	ConfirmedAt sql.NullTime `json:"confirmed_at,omitempty" db:"confirmed_at"`

	WhatsAppSent   bool         `json:"whatsapp_sent" db:"whatsapp_sent"`
	WhatsAppSentAt sql.NullTime `json:"whatsapp_sent_at,omitempty" db:"whatsapp_sent_at"`
	SMSSent        bool         `json:"sms_sent" db:"sms_sent"`
	SMSSentAt      sql.NullTime `json:"sms_sent_at,omitempty" db:"sms_sent_at"`

	PaymentStatus   string         `json:"payment_status" db:"payment_status"`
	DeliveryStatus  string         `json:"delivery_status" db:"delivery_status"`
	ShippingAddress sql.NullString `json:"shipping_address,omitempty" db:"shipping_address"`
	ShippingCity    sql.NullString `json:"shipping_city,omitempty" db:"shipping_city"`

	Notes         sql.NullString `json:"notes,omitempty" db:"notes"`
	InternalNotes sql.NullString `json:"internal_notes,omitempty" db:"internal_notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type ListFilters struct {
	Status   *Status `form:"status"`
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}

type ListResponse struct {
	Orders     []Order `json:"orders"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalPages int     `json:"total_pages"`
}
