package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"driveus/internal/service"
)

// UserIDKey is the gin context key carrying the authenticated user ID.
const UserIDKey = "userID"

// AuthRequired returns middleware that rejects requests without a valid
// bearer token and stores the account ID in the context.
func AuthRequired(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		userID, err := authService.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}
