// internal/repository/postgres/buyer_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"orderbot-service/internal/domain/buyer"
	xerrors "orderbot-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BuyerRepository struct {
	db *pgxpool.Pool
}

func NewBuyerRepository(db *pgxpool.Pool) *BuyerRepository {
	return &BuyerRepository{db: db}
}

const buyerColumns = `id, client_id, name, phone, email, address, created_at, updated_at`

func scanBuyer(row pgx.Row) (*buyer.Buyer, error) {
	var b buyer.Buyer
	err := row.Scan(&b.ID, &b.ClientID, &b.Name, &b.Phone, &b.Email, &b.Address, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan buyer: %w", err)
	}
	return &b, nil
}

// FindByPhone looks a buyer up by its natural key (client_id, phone).
func (r *BuyerRepository) FindByPhone(ctx context.Context, clientID int64, phone string) (*buyer.Buyer, error) {
	query := fmt.Sprintf(`SELECT %s FROM buyers WHERE client_id = $1 AND phone = $2`, buyerColumns)
	return scanBuyer(r.db.QueryRow(ctx, query, clientID, phone))
}

// FindByPhoneWithTx is FindByPhone inside an existing transaction.
func (r *BuyerRepository) FindByPhoneWithTx(ctx context.Context, tx pgx.Tx, clientID int64, phone string) (*buyer.Buyer, error) {
	query := fmt.Sprintf(`SELECT %s FROM buyers WHERE client_id = $1 AND phone = $2`, buyerColumns)
	return scanBuyer(tx.QueryRow(ctx, query, clientID, phone))
}

// FindByID retrieves a buyer by primary key.
func (r *BuyerRepository) FindByID(ctx context.Context, id int64) (*buyer.Buyer, error) {
	query := fmt.Sprintf(`SELECT %s FROM buyers WHERE id = $1`, buyerColumns)
	return scanBuyer(r.db.QueryRow(ctx, query, id))
}

// CreateWithTx inserts a buyer inside an existing transaction.
func (r *BuyerRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, b *buyer.Buyer) error {
	query := `
		INSERT INTO buyers (client_id, name, phone, email, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := tx.QueryRow(ctx, query, b.ClientID, b.Name, b.Phone, b.Email, b.Address).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create buyer: %w", err)
	}
	return nil
}
