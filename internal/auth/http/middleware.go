package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authService "github.com/voltpass/volt/internal/auth/service"
	apperrors "github.com/voltpass/volt/internal/errors"
	"github.com/voltpass/volt/internal/httputil"
)

// AuthenticationMiddleware authenticates requests via a Bearer access token
// in the Authorization header.
//
// The middleware extracts the token (case-insensitive "bearer" prefix),
// verifies it as an access token and stores the subject user ID in the
// request context for downstream handlers via GetUserID.
//
// Error handling:
//   - Missing or malformed Authorization header -> 401 Unauthorized
//   - Expired access token -> 401 with token_expired
//   - Invalid signature, wrong token kind, bad subject -> 401 Unauthorized
func AuthenticationMiddleware(jwtService authService.JWTService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleError(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleError(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		tokenString := authHeader[len(bearerPrefix):]
		if tokenString == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleError(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		userID, err := jwtService.Verify(authService.AccessToken, tokenString)
		if err != nil {
			logger.Debug("authentication failed: token verification",
				slog.Any("error", err))
			httputil.HandleError(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}
