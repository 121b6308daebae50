// internal/repository/postgres/order_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"orderbot-service/internal/domain/order"
	xerrors "orderbot-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `
	id, order_number, client_id, buyer_id, product_name, quantity, total_price,
	confirmation_token, token_expires_at, status, confirmed_at,
	whatsapp_sent, whatsapp_sent_at, sms_sent, sms_sent_at,
	payment_status, delivery_status, shipping_address, shipping_city,
	notes, internal_notes, created_at, updated_at
`

func scanOrder(row pgx.Row) (*order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.ClientID, &o.BuyerID, &o.ProductName, &o.Quantity, &o.TotalPrice,
		&o.ConfirmationToken, &o.TokenExpiresAt, &o.Status, &o.ConfirmedAt,
		&o.WhatsAppSent, &o.WhatsAppSentAt, &o.SMSSent, &o.SMSSentAt,
		&o.PaymentStatus, &o.DeliveryStatus, &o.ShippingAddress, &o.ShippingCity,
		&o.Notes, &o.InternalNotes, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	return &o, nil
}

// CreateWithTx inserts an order inside an existing transaction.
func (r *OrderRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, o *order.Order) error {
	query := `
		INSERT INTO orders (
			order_number, client_id, buyer_id, product_name, quantity, total_price,
			confirmation_token, token_expires_at, status,
			payment_status, delivery_status, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`
	err := tx.QueryRow(ctx, query,
		o.OrderNumber, o.ClientID, o.BuyerID, o.ProductName, o.Quantity, o.TotalPrice,
		o.ConfirmationToken, o.TokenExpiresAt, o.Status,
		o.PaymentStatus, o.DeliveryStatus, o.Notes,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// FindByID retrieves an order by primary key.
func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*order.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)
	return scanOrder(r.db.QueryRow(ctx, query, id))
}

// FindByToken resolves a confirmation token to its order.
func (r *OrderRepository) FindByToken(ctx context.Context, token string) (*order.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE confirmation_token = $1`, orderColumns)
	return scanOrder(r.db.QueryRow(ctx, query, token))
}

// ConfirmStatus transitions a pending order to a terminal status. The WHERE
// guard makes the transition atomic: zero rows affected means the order was
// no longer pending.
func (r *OrderRepository) ConfirmStatus(ctx context.Context, id int64, status order.Status, notes string) (bool, error) {
	query := `
		UPDATE orders
		SET status = $1,
		    confirmed_at = $2,
		    notes = CASE WHEN $3 <> '' THEN $3 ELSE notes END,
		    updated_at = NOW()
		WHERE id = $4 AND status = 'pending'
	`
	result, err := r.db.Exec(ctx, query, status, time.Now(), notes, id)
	if err != nil {
		return false, fmt.Errorf("failed to confirm order: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// MarkSentWithTx flips the channel's sent flag inside a transaction. The
// guard keeps the flag monotonic: an already-true flag is left untouched.
func (r *OrderRepository) MarkSentWithTx(ctx context.Context, tx pgx.Tx, id int64, channel string) error {
	var query string
	switch channel {
	case "whatsapp":
		query = `UPDATE orders SET whatsapp_sent = true, whatsapp_sent_at = NOW(), updated_at = NOW()
		         WHERE id = $1 AND whatsapp_sent = false`
	case "sms":
		query = `UPDATE orders SET sms_sent = true, sms_sent_at = NOW(), updated_at = NOW()
		         WHERE id = $1 AND sms_sent = false`
	default:
		return fmt.Errorf("unknown channel %q", channel)
	}

	if _, err := tx.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to mark %s sent: %w", channel, err)
	}
	return nil
}

// ListByClient retrieves a client's orders with filters.
func (r *OrderRepository) ListByClient(ctx context.Context, clientID int64, filters *order.ListFilters) ([]order.Order, int64, error) {
	conditions := []string{"client_id = $1"}
	args := []interface{}{clientID}
	argPos := 2

	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM orders WHERE %s", whereClause)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	offset := (filters.Page - 1) * filters.PageSize

	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, orderColumns, whereClause, argPos, argPos+1)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []order.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	return orders, total, nil
}

// FindPendingUnsent returns pending orders whose WhatsApp notification never
// went out and whose creation time is older than the cutoff. The monitor
// sweep re-drives scheduling for these.
func (r *OrderRepository) FindPendingUnsent(ctx context.Context, createdBefore time.Time, limit int) ([]order.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE status = 'pending' AND whatsapp_sent = false AND created_at < $1
		ORDER BY created_at ASC
		LIMIT $2
	`, orderColumns)

	rows, err := r.db.Query(ctx, query, createdBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find unsent pending orders: %w", err)
	}
	defer rows.Close()

	orders := []order.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, nil
}
