package middleware

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"grocery-admin/internal/dto"
)

// PendingMutation lets one request per user and route run at a time. A second
// submission while the first is still running gets 409, so a double-clicked bulk
// action is applied once.
func PendingMutation() gin.HandlerFunc {
	var inflight sync.Map
	return func(c *gin.Context) {
		key := fmt.Sprintf("%d %s %s", ActorID(c), c.Request.Method, c.FullPath())
		if _, busy := inflight.LoadOrStore(key, struct{}{}); busy {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error": "permintaan sebelumnya masih diproses",
				"flash": dto.Warning("Permintaan sebelumnya masih diproses, mohon tunggu"),
			})
			return
		}
		defer inflight.Delete(key)
		c.Next()
	}
}
