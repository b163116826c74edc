// auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"grocery-admin/internal/service"
)

// Context keys set by AuthMiddleware
const (
	KeyUserID          = "userID"
	KeyUserName        = "userName"
	KeyUserRole        = "userRole"
	KeyUserPermissions = "userPermissions"
	keyAuthUser        = "authUser"
)

// AuthMiddleware validates the bearer token and stores the user in the context.
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "header Authorization tidak ada"})
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		user, err := authService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token tidak valid atau kedaluwarsa"})
			return
		}

		c.Set(keyAuthUser, user)
		c.Set(KeyUserID, user.ID)
		c.Set(KeyUserName, user.Name)
		c.Set(KeyUserRole, user.Role)
		c.Set(KeyUserPermissions, user.Permissions)
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil outside AuthMiddleware.
func CurrentUser(c *gin.Context) *service.AuthUser {
	v, ok := c.Get(keyAuthUser)
	if !ok {
		return nil
	}
	u, _ := v.(*service.AuthUser)
	return u
}

// ActorID is the id of the authenticated user, 0 when anonymous.
func ActorID(c *gin.Context) int64 {
	return c.GetInt64(KeyUserID)
}
