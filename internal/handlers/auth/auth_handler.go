// internal/handlers/auth/auth_handler.go
package auth

import (
	"errors"
	"net/http"

	domainclient "orderbot-service/internal/domain/client"
	xerrors "orderbot-service/internal/pkg/errors"
	"orderbot-service/internal/pkg/response"
	service "orderbot-service/internal/service/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new client account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req domainclient.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	cl, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrConflict):
			response.Error(c, http.StatusConflict, "email already registered", nil)
		case errors.Is(err, xerrors.ErrValidation):
			response.ValidationError(c, "invalid registration details", err)
		default:
			response.Error(c, http.StatusInternalServerError, "failed to register", err)
		}
		return
	}

	response.Success(c, http.StatusCreated, "client registered successfully", gin.H{"client": cl})
}

// ForgotPassword starts a password reset. Always reports success for a
// well-formed request.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req domainclient.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		response.Error(c, http.StatusBadRequest, "email is required", err)
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to process request", err)
		return
	}

	response.Success(c, http.StatusOK, "if the email exists, a reset link has been sent", nil)
}

// ResetPassword consumes a reset token and sets a new password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req domainclient.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			response.Error(c, http.StatusBadRequest, "reset token is invalid or has expired", nil)
		case errors.Is(err, xerrors.ErrValidation):
			response.ValidationError(c, "invalid password", err)
		default:
			response.Error(c, http.StatusInternalServerError, "failed to reset password", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "password reset successfully", nil)
}
