package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kasu-ict/grievance-portal/internal/users"
)

const currentUserKey = "currentUser"

// Middleware authenticates the bearer token and loads the actor from the
// directory, so a deactivated account loses access even while its token is
// still within its lifetime.
func Middleware(tokens *TokenService, directory *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		user, err := directory.GetUser(c.Request.Context(), claims.Subject)
		if err != nil || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session no longer valid"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireRole guards a route group to the given roles.
func RequireRole(roles ...users.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

// CurrentUser returns the authenticated actor, or nil outside the middleware.
func CurrentUser(c *gin.Context) *users.User {
	if v, ok := c.Get(currentUserKey); ok {
		if user, ok := v.(*users.User); ok {
			return user
		}
	}
	return nil
}
