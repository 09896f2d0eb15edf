package middleware

import (
	"net/http"
	"strings"

	"cv-platform-backend/internal/delivery/http/response"
	"cv-platform-backend/internal/domain"
	"cv-platform-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	msgNoToken      = "Pas de token, autorisation refusée"
	msgInvalidToken = "Token invalide"
)

// TokenVerifier validates a bearer token and returns the identity it carries.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// AuthMiddleware verifies the bearer token and attaches the identity to both
// the gin context and the request context.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, msgNoToken, "")
			c.Abort()
			return
		}

		identity, err := verifier.Verify(tokenString)
		if err != nil {
			logger.Log.Debug("Token validation failed", "error", err, "request_id", c.GetString("RequestID"))
			response.Error(c, http.StatusUnauthorized, msgInvalidToken, "")
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), identity.ID)
		c.Set(string(domain.KeyUserRole), string(identity.Role))
		c.Request = c.Request.WithContext(domain.WithIdentity(c.Request.Context(), identity))

		c.Next()
	}
}
