// internal/domain/client/entity.go
package client

import (
	"database/sql"
	"time"
)

// Client is a tenant owning buyers, orders and bot settings.
type Client struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Email       string `json:"email" db:"email"`
	Phone       string `json:"phone" db:"phone"`
	CompanyName string `json:"company_name" db:"company_name"`
	Language    string `json:"language" db:"language"`

	PasswordHash string `json:"-" db:"password_hash"`

	ResetToken          sql.NullString `json:"-" db:"reset_token"`
	ResetTokenExpiresAt sql.NullTime   `json:"-" db:"reset_token_expires_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"company_name"`
	Language    string `json:"language"`
	Password    string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}
