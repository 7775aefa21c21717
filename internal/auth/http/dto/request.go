// Package dto provides data transfer objects for account and session HTTP
// request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/voltpass/volt/internal/validation"
)

// RegisterRequest contains the parameters for creating a new account.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks if the register request is valid.
func (r *RegisterRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Email,
			validation.Required,
			customValidation.Email,
		),
		validation.Field(&r.Password,
			validation.Required,
			customValidation.PasswordStrength{MinLength: 8},
		),
	)
}

// LoginRequest contains the parameters for authenticating an account.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks if the login request is valid.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// RecoverRequest contains the parameters for requesting a password reset.
type RecoverRequest struct {
	Email string `json:"email"`
}

// Validate checks if the recover request is valid.
func (r *RecoverRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required,
			customValidation.Email,
		),
	)
}

// ResetPasswordRequest contains the parameters for completing a password
// reset with a recovery token.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks if the reset password request is valid.
func (r *ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.Email,
			validation.Required,
			customValidation.Email,
		),
		validation.Field(&r.Password,
			validation.Required,
			customValidation.PasswordStrength{MinLength: 8},
		),
	)
}

// UpdateUserRequest contains the parameters for a profile update. Empty
// fields are left unchanged.
type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Validate checks if the update user request is valid. Both fields are
// optional; present fields must be well formed.
func (r *UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Length(1, 255),
		),
		validation.Field(&r.Email,
			validation.When(r.Email != "", customValidation.Email),
		),
	)
}
