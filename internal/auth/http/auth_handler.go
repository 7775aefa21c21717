package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/voltpass/volt/internal/auth/http/dto"
	authUseCase "github.com/voltpass/volt/internal/auth/usecase"
	apperrors "github.com/voltpass/volt/internal/errors"
	"github.com/voltpass/volt/internal/httputil"
	customValidation "github.com/voltpass/volt/internal/validation"
)

// refreshTokenCookie is the HTTP-only cookie carrying the refresh token.
// Scoped to the auth routes so it is never sent with credential requests.
const refreshTokenCookie = "refresh_token"

const refreshCookiePath = "/auth"

// AuthHandler handles HTTP requests for registration, sessions and password
// recovery.
type AuthHandler struct {
	userUseCase     authUseCase.UserUseCase
	recoveryUseCase authUseCase.RecoveryUseCase
	refreshTTL      time.Duration
	logger          *slog.Logger
}

// NewAuthHandler creates a new auth handler with required dependencies.
func NewAuthHandler(
	userUseCase authUseCase.UserUseCase,
	recoveryUseCase authUseCase.RecoveryUseCase,
	refreshTTL time.Duration,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		userUseCase:     userUseCase,
		recoveryUseCase: recoveryUseCase,
		refreshTTL:      refreshTTL,
		logger:          logger,
	}
}

// setRefreshCookie attaches the refresh token as an HTTP-only cookie.
func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshTokenCookie, token, int(h.refreshTTL.Seconds()), refreshCookiePath, "", true, true)
}

// clearRefreshCookie expires the refresh token cookie.
func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshTokenCookie, "", -1, refreshCookiePath, "", true, true)
}

// RegisterHandler creates a new account.
// POST /auth/register - Returns 201 Created with the public profile fields.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequest(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationError(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	user, err := h.userUseCase.Register(c.Request.Context(), authUseCase.RegisterInput{
		Name:     req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapUserToRegisterResponse(user))
}

// LoginHandler authenticates an account and opens a session.
// POST /auth/login - Returns 200 OK with the access token; the refresh token
// is delivered as an HTTP-only cookie.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequest(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationError(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	_, tokens, err := h.userUseCase.Login(c.Request.Context(), authUseCase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleError(c, err, h.logger)
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	c.JSON(http.StatusOK, dto.SessionResponse{Token: tokens.AccessToken})
}

// LogoutHandler closes the session by expiring the refresh cookie. Access
// tokens stay valid until their natural expiry; there is no revocation list.
// POST /auth/logout - Returns 200 OK.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	h.clearRefreshCookie(c)
	c.Status(http.StatusOK)
}

// RefreshTokenHandler exchanges a valid refresh cookie for a new token pair.
// POST /auth/refresh-token - Returns 200 OK with a fresh access token.
func (h *AuthHandler) RefreshTokenHandler(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshTokenCookie)
	if err != nil || refreshToken == "" {
		httputil.HandleError(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	tokens, err := h.userUseCase.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		httputil.HandleError(c, err, h.logger)
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	c.JSON(http.StatusOK, dto.SessionResponse{Token: tokens.AccessToken})
}

// RecoverHandler starts a password recovery flow for the given e-mail.
// POST /auth/recover - Returns 200 OK; the reset token is delivered by
// e-mail through the outbox worker.
func (h *AuthHandler) RecoverHandler(c *gin.Context) {
	var req dto.RecoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequest(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationError(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.recoveryUseCase.RequestRecovery(c.Request.Context(), req.Email); err != nil {
		httputil.HandleError(c, err, h.logger)
		return
	}

	c.Status(http.StatusOK)
}

// VerifyTokenHandler checks and consumes a recovery token.
// GET /auth/verify-token?token=... - Returns 200 OK with the token, 404 for
// an unknown token, 409 for an already-used token, 401 for an expired one.
func (h *AuthHandler) VerifyTokenHandler(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		httputil.HandleValidationError(c, fmt.Errorf("token query parameter is required"), h.logger)
		return
	}

	verified, err := h.recoveryUseCase.VerifyToken(c.Request.Context(), token)
	if err != nil {
		httputil.HandleError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.VerifyTokenResponse{Token: verified})
}

// ResetPasswordHandler completes a recovery flow, replacing the account
// password. The token is verified and consumed as part of the reset.
// POST /auth/recover/reset - Returns 200 OK.
func (h *AuthHandler) ResetPasswordHandler(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequest(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationError(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	err := h.recoveryUseCase.ResetPassword(c.Request.Context(), req.Token, req.Email, req.Password)
	if err != nil {
		httputil.HandleError(c, err, h.logger)
		return
	}

	c.Status(http.StatusOK)
}
