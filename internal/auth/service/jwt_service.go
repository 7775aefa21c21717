package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/voltpass/volt/internal/errors"
)

// jwtService implements JWTService using HMAC-SHA256 signed tokens.
type jwtService struct {
	issuer        string
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWTService creates a JWTService. Access and refresh secrets must differ;
// a shared secret would let a refresh token pass as an access token.
func NewJWTService(
	issuer string,
	accessSecret string,
	refreshSecret string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) (JWTService, error) {
	if issuer == "" || accessSecret == "" || refreshSecret == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "jwt issuer and secrets are required")
	}
	if accessSecret == refreshSecret {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "access and refresh secrets must differ")
	}

	return &jwtService{
		issuer:        issuer,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

func (j *jwtService) secret(kind TokenKind) []byte {
	if kind == RefreshToken {
		return j.refreshSecret
	}
	return j.accessSecret
}

// TTL returns the validity duration for the given token kind.
func (j *jwtService) TTL(kind TokenKind) time.Duration {
	if kind == RefreshToken {
		return j.refreshTTL
	}
	return j.accessTTL
}

// Issue creates a signed token of the given kind for the user. The user ID
// travels in the subject claim.
func (j *jwtService) Issue(kind TokenKind, userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    j.issuer,
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL(kind))),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret(kind))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Verify validates a token of the given kind and returns the user ID it was
// issued for.
func (j *jwtService) Verify(kind TokenKind, tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			return j.secret(kind), nil
		},
		jwt.WithIssuer(j.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, apperrors.Wrap(apperrors.ErrTokenExpired, "token expired")
		}
		return uuid.Nil, apperrors.Wrap(apperrors.ErrUnauthorized, "invalid token")
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return uuid.Nil, apperrors.Wrap(apperrors.ErrUnauthorized, "token has no subject")
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, apperrors.Wrap(apperrors.ErrUnauthorized, "token subject is not a user id")
	}

	return userID, nil
}
