package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/til-acronyms/internal/models"
	"github.com/til-acronyms/internal/service"
	"github.com/til-acronyms/pkg/response"
)

const (
	// ContextKeyUser is the key for the resolved acting user in gin context
	ContextKeyUser = "current_user"
)

// bearerToken extracts the opaque token from the Authorization header
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

// BearerAuth guards API mutations. A request without a resolvable
// bearer identity is rejected as unauthorized, never as a server error.
func BearerAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Unauthorized(c, "missing bearer token")
			c.Abort()
			return
		}

		user, err := authService.ResolveBearer(c.Request.Context(), token)
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// SessionAuth guards web mutations. A request without a valid session
// identity is redirected to the login page.
func SessionAuth(sessions *service.SessionManager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cookieName)
		if err != nil || sessionID == "" {
			c.Redirect(302, "/login")
			c.Abort()
			return
		}

		user, err := sessions.Current(c.Request.Context(), sessionID)
		if err != nil {
			c.Redirect(302, "/login")
			c.Abort()
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// ResolveIdentity resolves the acting identity in a fixed order: bearer
// header first, session cookie second. It never rejects; anonymous
// requests pass through with no user set.
func ResolveIdentity(authService *service.AuthService, sessions *service.SessionManager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if user, err := authService.ResolveBearer(c.Request.Context(), token); err == nil {
				c.Set(ContextKeyUser, user)
				c.Next()
				return
			}
		}

		if sessionID, err := c.Cookie(cookieName); err == nil && sessionID != "" {
			if user, err := sessions.Current(c.Request.Context(), sessionID); err == nil {
				c.Set(ContextKeyUser, user)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the resolved acting user, or nil for anonymous
func CurrentUser(c *gin.Context) *models.User {
	val, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil
	}
	user, ok := val.(*models.User)
	if !ok {
		return nil
	}
	return user
}
