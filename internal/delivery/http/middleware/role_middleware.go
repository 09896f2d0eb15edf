package middleware

import (
	"net/http"

	"cv-platform-backend/internal/delivery/http/response"
	"cv-platform-backend/internal/domain"
	"cv-platform-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// RequireRoles must run after AuthMiddleware. No identity is a 401; a role
// outside roles is a 403. An empty roles list admits any authenticated caller.
func RequireRoles(audit *security.SecurityLogger, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := domain.IdentityFromContext(c.Request.Context())
		if !ok {
			audit.LogAccessDenied(c.Request.Context(), false, "", c.ClientIP(), c.GetString("RequestID"), c.FullPath())
			response.Error(c, http.StatusUnauthorized, "Utilisateur non authentifié", "")
			c.Abort()
			return
		}

		if len(roles) > 0 && !hasRole(roles, identity.Role) {
			audit.LogAccessDenied(c.Request.Context(), true, identity.ID, c.ClientIP(), c.GetString("RequestID"), c.FullPath())
			response.Error(c, http.StatusForbidden, "Accès refusé - Vous n'avez pas les droits nécessaires", "")
			c.Abort()
			return
		}

		c.Next()
	}
}

func hasRole(roles []domain.Role, role domain.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
