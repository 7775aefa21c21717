package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltpass/volt/internal/auth/http/dto"
	authUseCase "github.com/voltpass/volt/internal/auth/usecase"
	apperrors "github.com/voltpass/volt/internal/errors"
	"github.com/voltpass/volt/internal/httputil"
	customValidation "github.com/voltpass/volt/internal/validation"
)

// UserHandler handles HTTP requests for the authenticated user's profile.
type UserHandler struct {
	userUseCase authUseCase.UserUseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler with required dependencies.
func NewUserHandler(userUseCase authUseCase.UserUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// GetHandler returns the caller's profile.
// GET /user - Returns 200 OK.
func (h *UserHandler) GetHandler(c *gin.Context) {
	userID, ok := GetUserID(c.Request.Context())
	if !ok {
		httputil.HandleError(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	user, err := h.userUseCase.GetUser(c.Request.Context(), userID)
	if err != nil {
		httputil.HandleError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// UpdateHandler applies a partial profile update. Empty fields are left
// unchanged.
// PUT /user - Returns 200 OK with the updated profile.
func (h *UserHandler) UpdateHandler(c *gin.Context) {
	userID, ok := GetUserID(c.Request.Context())
	if !ok {
		httputil.HandleError(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequest(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationError(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	user, err := h.userUseCase.UpdateUser(c.Request.Context(), userID, authUseCase.UpdateUserInput{
		Name:  req.Username,
		Email: req.Email,
	})
	if err != nil {
		httputil.HandleError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// DeleteHandler removes the caller's account and, through the database
// cascade, every credential and recovery token it owns.
// DELETE /user - Returns 204 No Content.
func (h *UserHandler) DeleteHandler(c *gin.Context) {
	userID, ok := GetUserID(c.Request.Context())
	if !ok {
		httputil.HandleError(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	if err := h.userUseCase.DeleteUser(c.Request.Context(), userID); err != nil {
		httputil.HandleError(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
