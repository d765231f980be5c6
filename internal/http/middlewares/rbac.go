package middlewares

import (
	"net/http"

	"github.com/geocoder89/vacationhub/internal/domain/role"
	"github.com/gin-gonic/gin"
)

// RequireAdmin must run after RequireAuth so a missing credential is always
// reported as 401 before any role check.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := UserFromContext(c)
		if !ok {
			m.unauthorized(c, CodeMissingToken, "Missing identity context")
			return
		}

		if u.RoleID != role.AdminID {
			m.prom.IncAuthFailure(CodeForbidden)
			abortWithError(c, http.StatusForbidden, CodeForbidden, "Admin role required")
			return
		}

		c.Next()
	}
}
