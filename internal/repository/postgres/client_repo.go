// internal/repository/postgres/client_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderbot-service/internal/domain/client"
	xerrors "orderbot-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClientRepository struct {
	db *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `
	id, name, email, phone, company_name, language, password_hash,
	reset_token, reset_token_expires_at, created_at, updated_at
`

func scanClient(row pgx.Row) (*client.Client, error) {
	var c client.Client
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.CompanyName, &c.Language, &c.PasswordHash,
		&c.ResetToken, &c.ResetTokenExpiresAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan client: %w", err)
	}
	return &c, nil
}

// Create registers a new client.
func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	query := `
		INSERT INTO clients (name, email, phone, company_name, language, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		c.Name, c.Email, c.Phone, c.CompanyName, c.Language, c.PasswordHash,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// FindByID retrieves a client by primary key.
func (r *ClientRepository) FindByID(ctx context.Context, id int64) (*client.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE id = $1`, clientColumns)
	return scanClient(r.db.QueryRow(ctx, query, id))
}

// FindByEmail retrieves a client by email.
func (r *ClientRepository) FindByEmail(ctx context.Context, email string) (*client.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE email = $1`, clientColumns)
	return scanClient(r.db.QueryRow(ctx, query, email))
}

// Exists reports whether a client row exists.
func (r *ClientRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check client existence: %w", err)
	}
	return exists, nil
}

// SetResetToken stores a single-use password reset token with its expiry.
func (r *ClientRepository) SetResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error {
	query := `
		UPDATE clients
		SET reset_token = $1, reset_token_expires_at = $2, updated_at = NOW()
		WHERE id = $3
	`
	result, err := r.db.Exec(ctx, query, token, expiresAt, id)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// FindByResetToken resolves a non-expired reset token to its client.
func (r *ClientRepository) FindByResetToken(ctx context.Context, token string) (*client.Client, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM clients
		WHERE reset_token = $1 AND reset_token_expires_at > NOW()
	`, clientColumns)
	return scanClient(r.db.QueryRow(ctx, query, token))
}

// UpdatePassword replaces the password hash and clears any reset token.
func (r *ClientRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `
		UPDATE clients
		SET password_hash = $1, reset_token = NULL, reset_token_expires_at = NULL, updated_at = NOW()
		WHERE id = $2
	`
	result, err := r.db.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
