package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mandado/internal/service"
)

// AuthMiddleware returns middleware that validates the bearer token and
// stores the caller's identity on the request context.
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("account_type", string(claims.AccountType))
		c.Next()
	}
}

// RequireAccountType returns middleware that restricts a route group to
// one side of the marketplace. It must run after AuthMiddleware.
func RequireAccountType(accountType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("account_type") != accountType {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account type not allowed"})
			return
		}
		c.Next()
	}
}
