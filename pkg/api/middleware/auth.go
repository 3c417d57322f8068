package middleware

import (
	"context"
	"net/http"
	"strings"

	"readstash-go/pkg/models"

	"github.com/gin-gonic/gin"
)

// UserStore resolves API keys to users.
type UserStore interface {
	GetUserByAPIKey(ctx context.Context, apiKey string) (*models.User, error)
}

// RequireAuth authenticates the request by API key and stores the owning
// user in the gin context. Handlers read it back with c.MustGet("userID").
func RequireAuth(store UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		// Extract API key from "Bearer <key>" or just "<key>"
		apiKey := strings.TrimPrefix(authHeader, "Bearer ")
		apiKey = strings.TrimSpace(apiKey)

		user, err := store.GetUserByAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			c.Abort()
			return
		}

		c.Set("userID", user.ID)
		c.Set("user", user)
		c.Next()
	}
}
