package middleware

import (
	"net/http"

	"catering/internal/identity"
	"catering/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RoleSupport marks staff tokens allowed to read parked bookings.
const RoleSupport = "support"

// RequireRole lets through only tokens that carry role. Anonymous requests
// get 401, any other role 403.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := identity.ClaimsFrom(c.Request.Context())
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		if claims.Role != role {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}
		c.Next()
	}
}

func SupportOnly() gin.HandlerFunc {
	return RequireRole(RoleSupport)
}
