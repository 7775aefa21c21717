// Package http provides HTTP handlers for credential management operations.
// All routes require an authenticated user; records are scoped to the caller.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/voltpass/volt/internal/auth/http"
	apperrors "github.com/voltpass/volt/internal/errors"
	"github.com/voltpass/volt/internal/httputil"
	customValidation "github.com/voltpass/volt/internal/validation"
	vaultDomain "github.com/voltpass/volt/internal/vault/domain"
	"github.com/voltpass/volt/internal/vault/http/dto"
	vaultUseCase "github.com/voltpass/volt/internal/vault/usecase"
)

// CredentialHandler handles HTTP requests for credential management.
type CredentialHandler struct {
	credentialUseCase vaultUseCase.CredentialUseCase
	logger            *slog.Logger
}

// NewCredentialHandler creates a new credential handler with required dependencies.
func NewCredentialHandler(
	credentialUseCase vaultUseCase.CredentialUseCase,
	logger *slog.Logger,
) *CredentialHandler {
	return &CredentialHandler{
		credentialUseCase: credentialUseCase,
		logger:            logger,
	}
}

// callerID extracts the authenticated user from the request context.
func (h *CredentialHandler) callerID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := authHTTP.GetUserID(c.Request.Context())
	if !ok {
		httputil.HandleError(c, apperrors.ErrUnauthorized, h.logger)
		return uuid.UUID{}, false
	}
	return userID, true
}

// credentialID parses the :id path parameter.
func (h *CredentialHandler) credentialID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationError(c, fmt.Errorf("invalid credential id: %w", err), h.logger)
		return uuid.UUID{}, false
	}
	return id, true
}

// CreateHandler stores a new credential with its sensitive attributes
// encrypted under the caller's secret key.
// POST /credentials - Returns 201 Created with the plaintext record.
func (h *CredentialHandler) CreateHandler(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	var req dto.CreateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequest(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationError(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	credential, err := h.credentialUseCase.Create(c.Request.Context(), userID, vaultUseCase.CreateCredentialInput{
		Variant: vaultDomain.Variant(req.Variant),
		Fields:  req.Fields,
	})
	if err != nil {
		httputil.HandleError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCredentialToResponse(credential))
}

// ListHandler returns the caller's credentials, decrypted, optionally
// filtered by variant.
// GET /credentials?variant=... - Returns 200 OK.
func (h *CredentialHandler) ListHandler(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	variant := vaultDomain.Variant(c.Query("variant"))

	credentials, err := h.credentialUseCase.List(c.Request.Context(), userID, variant)
	if err != nil {
		httputil.HandleError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCredentialsToListResponse(credentials))
}

// GetHandler returns a single decrypted credential.
// GET /credentials/:id - Returns 200 OK, or 404 for missing and foreign
// records alike.
func (h *CredentialHandler) GetHandler(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	id, ok := h.credentialID(c)
	if !ok {
		return
	}

	credential, err := h.credentialUseCase.Get(c.Request.Context(), userID, id)
	if err != nil {
		httputil.HandleError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCredentialToResponse(credential))
}

// UpdateHandler applies a sparse attribute patch to a credential.
// PUT /credentials/:id - Returns 200 OK with the updated plaintext record.
func (h *CredentialHandler) UpdateHandler(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	id, ok := h.credentialID(c)
	if !ok {
		return
	}

	var req dto.UpdateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequest(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationError(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	credential, err := h.credentialUseCase.Update(c.Request.Context(), userID, id, vaultUseCase.UpdateCredentialInput{
		Fields: req.Fields,
	})
	if err != nil {
		httputil.HandleError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCredentialToResponse(credential))
}

// DeleteHandler removes a single credential.
// DELETE /credentials/:id - Returns 204 No Content.
func (h *CredentialHandler) DeleteHandler(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	id, ok := h.credentialID(c)
	if !ok {
		return
	}

	if err := h.credentialUseCase.Delete(c.Request.Context(), userID, id); err != nil {
		httputil.HandleError(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteBulkHandler removes a batch of the caller's credentials. IDs the
// caller does not own are skipped, not reported.
// DELETE /credentials - Returns 200 OK with the number of records removed.
func (h *CredentialHandler) DeleteBulkHandler(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	var req dto.DeleteBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequest(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationError(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.HandleValidationError(c, fmt.Errorf("invalid credential id %q: %w", raw, err), h.logger)
			return
		}
		ids = append(ids, id)
	}

	deleted, err := h.credentialUseCase.DeleteBulk(c.Request.Context(), userID, ids)
	if err != nil {
		httputil.HandleError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteBulkResponse{Deleted: deleted})
}
