package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/cooking-assistant/backend/internal/types"
)

const sessionKey = "session"

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// AuthMiddleware validates the bearer token and stores the caller's
// Session in the context.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(sessionKey, types.Session{
			Email:    claims.Email,
			Name:     claims.Name,
			Servings: types.DefaultServings,
		})
		c.Next()
	}
}

// GetSession returns the session stored by AuthMiddleware
func GetSession(c *gin.Context) (types.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return types.Session{}, false
	}
	sess, ok := v.(types.Session)
	return sess, ok
}
