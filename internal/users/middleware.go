package users

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextKeyUser is the gin context key for the authenticated user.
const ContextKeyUser = "authUser"

// Middleware resolves the bearer token, if any, and stores the user in
// the gin context. It never rejects; RequireAuth does.
func Middleware(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := c.GetHeader("Authorization"); token != "" {
			if u, err := svc.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(ContextKeyUser, u)
			}
		}
		c.Next()
	}
}

// RequireAuth rejects requests without a valid session.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := Current(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Login required. Include 'Authorization: Bearer mct_...' header.",
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects requests from non-admin users.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := Current(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Login required.",
			})
			return
		}
		if !u.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Admin access required.",
			})
			return
		}
		c.Next()
	}
}

// Current returns the authenticated user from the gin context.
func Current(c *gin.Context) (*User, bool) {
	v, ok := c.Get(ContextKeyUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*User)
	return u, ok
}
