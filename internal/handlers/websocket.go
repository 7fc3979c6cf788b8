package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/caminoapp/camino-backend/internal/middleware"
	"github.com/caminoapp/camino-backend/internal/services"
)

// WebSocket upgrades an authenticated connection and registers it with the
// hub under the caller's identity.
func WebSocket(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(middleware.ContextUserID)
		role := c.GetString(middleware.ContextRole)
		services.HandleWebSocket(hub, c.Writer, c.Request, userID, role)
	}
}
