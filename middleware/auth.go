package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kaustubhduse/medical-chatbot/internal/core/domain"
	"github.com/kaustubhduse/medical-chatbot/internal/core/token"
	"github.com/kaustubhduse/medical-chatbot/internal/logger"
)

// userIDKey is the private context key for the authenticated user id.
// A typed key keeps the identity out of gin's untyped field bag.
type userIDKey struct{}

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext returns the authenticated user id injected by
// AuthMiddleware, or false when the request never passed the gate.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok
}

const bearerPrefix = "Bearer "

// AuthMiddleware is the access-control gate for protected routes. It
// verifies the bearer token from the Authorization header and injects the
// resolved user id into the request context, or rejects the request with
// 401 before any handler runs.
func AuthMiddleware(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		lg := logger.FromContext(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, domain.ErrorResponse{
				Message: "Authorization header required",
			})
			return
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) || len(authHeader) == len(bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, domain.ErrorResponse{
				Message: "Invalid authorization format",
			})
			return
		}

		userID, err := tokens.Verify(authHeader[len(bearerPrefix):])
		if err != nil {
			lg.Warn().Err(err).Msg("Token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, domain.ErrorResponse{
				Message: "Invalid or expired token",
			})
			return
		}

		c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}
