package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andreybutenko/formalwear-server/internal/domain"
	"github.com/andreybutenko/formalwear-server/internal/service"
	"github.com/andreybutenko/formalwear-server/pkg/log"
	"github.com/andreybutenko/formalwear-server/pkg/response"
)

const (
	UserKey       = "user"
	UserIDKey     = "user_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// AuthMiddleware resolves bearer tokens into users. Every protected route
// passes through here; a failed resolution stops the request outright.
type AuthMiddleware struct {
	auth service.AuthService
}

// NewAuthMiddleware creates a new auth middleware.
func NewAuthMiddleware(auth service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// RequireAuth returns a Gin middleware that validates session tokens.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			response.Unauthorized(c, "invalid authorization format")
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, BearerPrefix)
		user, err := m.auth.ResolveToken(c.Request.Context(), token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired session")
			c.Abort()
			return
		}

		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID)
		c.Request = c.Request.WithContext(log.WithUser(c.Request.Context(), user.ID))

		c.Next()
	}
}

// GetUser extracts the authenticated user from Gin context.
func GetUser(c *gin.Context) *domain.User {
	if u, exists := c.Get(UserKey); exists {
		return u.(*domain.User)
	}
	return nil
}

// GetUserID extracts the authenticated user's ID from Gin context.
func GetUserID(c *gin.Context) string {
	if id, exists := c.Get(UserIDKey); exists {
		return id.(string)
	}
	return ""
}
