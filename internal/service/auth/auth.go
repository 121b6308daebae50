// internal/service/auth/auth.go
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"orderbot-service/internal/domain/client"
	xerrors "orderbot-service/internal/pkg/errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = time.Hour

// ClientStore is the account flows' persistence contract.
type ClientStore interface {
	Create(ctx context.Context, c *client.Client) error
	FindByEmail(ctx context.Context, email string) (*client.Client, error)
	SetResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error
	FindByResetToken(ctx context.Context, token string) (*client.Client, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// EmailSender delivers the reset mail.
type EmailSender interface {
	Send(to, subject, bodyHTML string) error
}

// AuthService covers client registration and the password-reset lifecycle.
// Login and session handling live outside this service.
type AuthService struct {
	clients ClientStore
	emailer EmailSender
	baseURL string
	logger  *zap.Logger
}

func NewAuthService(clients ClientStore, emailer EmailSender, baseURL string, logger *zap.Logger) *AuthService {
	return &AuthService{clients: clients, emailer: emailer, baseURL: baseURL, logger: logger}
}

// Register creates a client account with a bcrypt-hashed credential.
func (s *AuthService) Register(ctx context.Context, req *client.RegisterRequest) (*client.Client, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, xerrors.NewValidationError("name", "email", "password")
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters: %w", xerrors.ErrValidation)
	}

	if _, err := s.clients.FindByEmail(ctx, req.Email); err == nil {
		return nil, xerrors.ErrConflict
	} else if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	language := req.Language
	if language == "" {
		language = "en"
	}

	c := &client.Client{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		CompanyName:  req.CompanyName,
		Language:     language,
		PasswordHash: string(hash),
	}
	if err := s.clients.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("client registered", zap.Int64("client_id", c.ID), zap.String("email", c.Email))
	return c, nil
}

// ForgotPassword mints a single-use reset token and mails it. An unknown
// email is reported as success so the endpoint doesn't leak which accounts
// exist.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	c, err := s.clients.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := randomHex(16)
	if err != nil {
		return err
	}
	if err := s.clients.SetResetToken(ctx, c.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
	body := fmt.Sprintf("<p>Use this link to reset your password (valid for one hour):</p><p><a href=%q>%s</a></p>", link, link)
	if err := s.emailer.Send(c.Email, "Password reset", body); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	s.logger.Info("password reset requested", zap.Int64("client_id", c.ID))
	return nil
}

// ResetPassword consumes a valid reset token and replaces the credential.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters: %w", xerrors.ErrValidation)
	}

	c, err := s.clients.FindByResetToken(ctx, token)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// UpdatePassword clears the token, making it single-use.
	if err := s.clients.UpdatePassword(ctx, c.ID, string(hash)); err != nil {
		return err
	}

	s.logger.Info("password reset completed", zap.Int64("client_id", c.ID))
	return nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
