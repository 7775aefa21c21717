package dto

import (
	"time"

	authDomain "github.com/voltpass/volt/internal/auth/domain"
)

// RegisterResponse contains the result of creating a new account. The
// password hash and the field encryption key are never exposed.
type RegisterResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// MapUserToRegisterResponse converts a domain user to a registration response.
func MapUserToRegisterResponse(user *authDomain.User) RegisterResponse {
	return RegisterResponse{
		Username: user.Name,
		Email:    user.Email,
	}
}

// SessionResponse carries the access token issued on login and refresh. The
// refresh token travels separately as an HTTP-only cookie.
type SessionResponse struct {
	Token string `json:"token"`
}

// VerifyTokenResponse echoes a recovery token that was verified and consumed.
type VerifyTokenResponse struct {
	Token string `json:"token"`
}

// UserResponse represents an account profile in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MapUserToResponse converts a domain user to a profile response.
func MapUserToResponse(user *authDomain.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Username:  user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
