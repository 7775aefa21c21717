package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authHTTP "github.com/voltpass/volt/internal/auth/http"
	vaultDomain "github.com/voltpass/volt/internal/vault/domain"
	"github.com/voltpass/volt/internal/vault/http/dto"
	vaultUseCase "github.com/voltpass/volt/internal/vault/usecase"
)

func setupCredentialHandler(t *testing.T) (*CredentialHandler, *MockCredentialUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	credentialUseCase := new(MockCredentialUseCase)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewCredentialHandler(credentialUseCase, logger), credentialUseCase
}

func createTestContext(
	method, path string,
	body interface{},
	userID uuid.UUID,
) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req.WithContext(authHTTP.WithUserID(req.Context(), userID))

	return c, w
}

func TestCredentialHandler_CreateHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler, credentialUseCase := setupCredentialHandler(t)
		userID := uuid.Must(uuid.NewV7())

		fields := map[string]string{
			"service":         "github.com",
			"service_user_id": "octocat",
			"password":        "hunter2",
		}
		created := &vaultDomain.Credential{
			ID:      uuid.Must(uuid.NewV7()),
			UserID:  userID,
			Variant: vaultDomain.VariantLogin,
			Fields:  fields,
		}
		credentialUseCase.On("Create", mock.Anything, userID, vaultUseCase.CreateCredentialInput{
			Variant: vaultDomain.VariantLogin,
			Fields:  fields,
		}).Return(created, nil)

		c, w := createTestContext(http.MethodPost, "/credentials", dto.CreateCredentialRequest{
			Variant: "login",
			Fields:  fields,
		}, userID)
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.CredentialResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, created.ID.String(), response.ID)
		assert.Equal(t, "login", response.Variant)
		assert.Equal(t, fields, response.Fields)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		handler, credentialUseCase := setupCredentialHandler(t)

		c, w := createTestContext(http.MethodPost, "/credentials", dto.CreateCredentialRequest{
			Variant: "login",
		}, uuid.Must(uuid.NewV7()))
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		credentialUseCase.AssertNotCalled(t, "Create")
	})

	t.Run("duplicate conflict", func(t *testing.T) {
		handler, credentialUseCase := setupCredentialHandler(t)
		userID := uuid.Must(uuid.NewV7())

		credentialUseCase.On("Create", mock.Anything, userID, mock.Anything).
			Return(nil, vaultDomain.ErrCredentialExists)

		c, w := createTestContext(http.MethodPost, "/credentials", dto.CreateCredentialRequest{
			Variant: "login",
			Fields:  map[string]string{"service": "github.com"},
		}, userID)
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestCredentialHandler_ListHandler(t *testing.T) {
	t.Run("filters by variant", func(t *testing.T) {
		handler, credentialUseCase := setupCredentialHandler(t)
		userID := uuid.Must(uuid.NewV7())

		credentials := []*vaultDomain.Credential{
			{
				ID:      uuid.Must(uuid.NewV7()),
				UserID:  userID,
				Variant: vaultDomain.VariantLogin,
				Fields:  map[string]string{"service": "github.com"},
			},
		}
		credentialUseCase.On("List", mock.Anything, userID, vaultDomain.VariantLogin).
			Return(credentials, nil)

		c, w := createTestContext(http.MethodGet, "/credentials?variant=login", nil, userID)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListCredentialsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Credentials, 1)
		assert.Equal(t, "login", response.Credentials[0].Variant)
	})

	t.Run("empty list serializes as empty array", func(t *testing.T) {
		handler, credentialUseCase := setupCredentialHandler(t)
		userID := uuid.Must(uuid.NewV7())

		credentialUseCase.On("List", mock.Anything, userID, vaultDomain.Variant("")).
			Return([]*vaultDomain.Credential{}, nil)

		c, w := createTestContext(http.MethodGet, "/credentials", nil, userID)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"credentials":[]`)
	})
}

func TestCredentialHandler_GetHandler(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		handler, credentialUseCase := setupCredentialHandler(t)

		c, w := createTestContext(http.MethodGet, "/credentials/not-a-uuid", nil, uuid.Must(uuid.NewV7()))
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
		handler.GetHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		credentialUseCase.AssertNotCalled(t, "Get")
	})

	t.Run("foreign record not found", func(t *testing.T) {
		handler, credentialUseCase := setupCredentialHandler(t)
		userID := uuid.Must(uuid.NewV7())
		id := uuid.Must(uuid.NewV7())

		credentialUseCase.On("Get", mock.Anything, userID, id).
			Return(nil, vaultDomain.ErrCredentialNotFound)

		c, w := createTestContext(http.MethodGet, "/credentials/"+id.String(), nil, userID)
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		handler, credentialUseCase := setupCredentialHandler(t)
		userID := uuid.Must(uuid.NewV7())

		credential := &vaultDomain.Credential{
			ID:      uuid.Must(uuid.NewV7()),
			UserID:  userID,
			Variant: vaultDomain.VariantPayment,
			Fields: map[string]string{
				"card_holder": "Jane Doe",
				"card_number": "4111111111111111",
			},
		}
		credentialUseCase.On("Get", mock.Anything, userID, credential.ID).
			Return(credential, nil)

		c, w := createTestContext(http.MethodGet, "/credentials/"+credential.ID.String(), nil, userID)
		c.Params = gin.Params{{Key: "id", Value: credential.ID.String()}}
		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.CredentialResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "4111111111111111", response.Fields["card_number"])
	})
}

func TestCredentialHandler_UpdateHandler(t *testing.T) {
	t.Run("empty patch rejected", func(t *testing.T) {
		handler, credentialUseCase := setupCredentialHandler(t)
		id := uuid.Must(uuid.NewV7())

		c, w := createTestContext(http.MethodPut, "/credentials/"+id.String(),
			dto.UpdateCredentialRequest{}, uuid.Must(uuid.NewV7()))
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		handler.UpdateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		credentialUseCase.AssertNotCalled(t, "Update")
	})

	t.Run("success", func(t *testing.T) {
		handler, credentialUseCase := setupCredentialHandler(t)
		userID := uuid.Must(uuid.NewV7())
		patch := map[string]string{"password": "n3w-password"}

		updated := &vaultDomain.Credential{
			ID:      uuid.Must(uuid.NewV7()),
			UserID:  userID,
			Variant: vaultDomain.VariantLogin,
			Fields: map[string]string{
				"service":  "github.com",
				"password": "n3w-password",
			},
		}
		credentialUseCase.On("Update", mock.Anything, userID, updated.ID, vaultUseCase.UpdateCredentialInput{
			Fields: patch,
		}).Return(updated, nil)

		c, w := createTestContext(http.MethodPut, "/credentials/"+updated.ID.String(),
			dto.UpdateCredentialRequest{Fields: patch}, userID)
		c.Params = gin.Params{{Key: "id", Value: updated.ID.String()}}
		handler.UpdateHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.CredentialResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "n3w-password", response.Fields["password"])
	})
}

func TestCredentialHandler_DeleteHandler(t *testing.T) {
	handler, credentialUseCase := setupCredentialHandler(t)
	userID := uuid.Must(uuid.NewV7())
	id := uuid.Must(uuid.NewV7())

	credentialUseCase.On("Delete", mock.Anything, userID, id).Return(nil)

	c, w := createTestContext(http.MethodDelete, "/credentials/"+id.String(), nil, userID)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	handler.DeleteHandler(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	credentialUseCase.AssertExpectations(t)
}

func TestCredentialHandler_DeleteBulkHandler(t *testing.T) {
	t.Run("success reports deleted count", func(t *testing.T) {
		handler, credentialUseCase := setupCredentialHandler(t)
		userID := uuid.Must(uuid.NewV7())
		ids := []uuid.UUID{uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7())}

		credentialUseCase.On("DeleteBulk", mock.Anything, userID, ids).Return(int64(2), nil)

		c, w := createTestContext(http.MethodDelete, "/credentials", dto.DeleteBulkRequest{
			IDs: []string{ids[0].String(), ids[1].String()},
		}, userID)
		handler.DeleteBulkHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.DeleteBulkResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, int64(2), response.Deleted)
	})

	t.Run("invalid id in batch rejected", func(t *testing.T) {
		handler, credentialUseCase := setupCredentialHandler(t)

		c, w := createTestContext(http.MethodDelete, "/credentials", dto.DeleteBulkRequest{
			IDs: []string{"not-a-uuid"},
		}, uuid.Must(uuid.NewV7()))
		handler.DeleteBulkHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		credentialUseCase.AssertNotCalled(t, "DeleteBulk")
	})
}
