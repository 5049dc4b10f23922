package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/strategy-ledger/internal/service"
	"github.com/strategy-ledger/pkg/response"
)

const (
	// ContextKeyClient is the key for the token's client name in gin context
	ContextKeyClient = "client"
)

// TokenValidator checks a bearer token
type TokenValidator interface {
	Enabled() bool
	ValidateToken(tokenString string) (*service.JWTClaims, error)
}

// AuthMiddleware creates a JWT authentication middleware. When no secret is
// configured every request passes through.
func AuthMiddleware(auth TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.Enabled() {
			c.Next()
			return
		}

		tokenString, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, "missing or malformed authorization header")
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextKeyClient, claims.Client)
		c.Next()
	}
}

// bearerToken reads the Authorization header, falling back to the token query
// parameter for websocket clients that cannot set headers.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if token := c.Query("token"); token != "" {
			return token, true
		}
		return "", false
	}

	// Check Bearer prefix
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetClient gets the authenticated client name from the gin context
func GetClient(c *gin.Context) string {
	return c.GetString(ContextKeyClient)
}
