// admin_only.go
package middleware

import (
	"log"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"grocery-admin/internal/model"
)

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(KeyUserRole) != model.RoleAdmin {
			log.Printf("[Auth] akses admin ditolak untuk user %d", c.GetInt64(KeyUserID))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "hak akses admin diperlukan"})
			return
		}
		c.Next()
	}
}

// RequirePermission rejects users whose role lacks the permission.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(c.GetStringSlice(KeyUserPermissions), permission) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "izin " + permission + " diperlukan"})
			return
		}
		c.Next()
	}
}
