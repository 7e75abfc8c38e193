package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/daybook-app/daybook/internal/core/services"
)

// ContextUserIDKey is where the authenticated user's id lives in the gin
// context after AuthMiddleware ran.
const ContextUserIDKey = "userID"

func AuthMiddleware(tokenService *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, errMsg := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMsg})
			return
		}

		userID, err := tokenService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// bearerToken pulls the credential out of the Authorization header. The
// second return value is the client-facing message when no token is found.
func bearerToken(c *gin.Context) (string, string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", "authorization header required"
	}

	fields := strings.Fields(header)
	if len(fields) != 2 || fields[0] != "Bearer" {
		return "", "invalid authorization header format"
	}
	return fields[1], ""
}

func GetUserID(c *gin.Context) (string, bool) {
	id, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", false
	}
	idStr, ok := id.(string)
	return idStr, ok
}
