package middleware

import (
	"net/http"
	"strings"

	"menushot/internal/auth"

	"github.com/gin-gonic/gin"
)

// SessionAuth checks the bearer token against the :session_id path param.
// With token auth disabled every request passes through.
func SessionAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !tokens.Enabled() {
			c.Set("sessionID", c.Param("session_id"))
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format, use 'Bearer <token>'"})
			c.Abort()
			return
		}

		sessionID, err := tokens.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		if sessionID != c.Param("session_id") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token does not belong to this session"})
			return
		}

		c.Set("sessionID", sessionID)
		c.Next()
	}
}
