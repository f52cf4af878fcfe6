package middleware

import (
	"net/http"
	"strings"

	"github.com/moesamiii/production/internal/services"

	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware guards the deliverable management endpoints. The
// bearer token is the short-lived admin token issued after the password
// check; regular visitors never hold one.
func AdminAuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := authService.ValidateAdminToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("isAdmin", claims.IsAdmin)
		c.Next()
	}
}
