package middleware

import (
	"net/http"

	"mangapress/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// context keys set by RequireAuth
const (
	ClaimsKey = "claims"
	UserIDKey = "userID"
	RoleKey   = "role"
)

// RequireAuth verifies the bearer token before any handler runs. Every
// failure ends the request with 401 and the same body.
func RequireAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authService.Verify(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.MsgUnauthorized})
			return
		}

		// Set user info in context for handlers to use
		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.ID)
		c.Set(RoleKey, claims.UserRole)

		c.Next()
	}
}
