package middleware

import (
	"net/http"
	"strings"

	"catering/internal/identity"
	"catering/internal/pkg/jwt"
	"catering/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// OptionalJWT lets anonymous requests through and attaches validated
// claims to the request context when a bearer token is present. A token
// that is present but bad is rejected.
func OptionalJWT(svc *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			c.Next()
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must use the Bearer scheme")
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		claims, err := svc.ValidateToken(tokenStr)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Request = c.Request.WithContext(identity.WithClaims(c.Request.Context(), claims))
		c.Set("user_id", claims.Subject)
		c.Set("role", claims.Role)
		c.Next()
	}
}
