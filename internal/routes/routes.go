package routes

import (
	"github.com/moesamiii/production/internal/handlers"
	"github.com/moesamiii/production/internal/logger"
	"github.com/moesamiii/production/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all HTTP and WebSocket routes.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.WebSocketHandler,
) {
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.DeliverableHandler.RegisterRoutes(api)
		appHandlers.ChatHandler.RegisterRoutes(api)
	}

	// The change channel is open to any visitor holding a local identity.
	wsGroup := ginRouter.Group("/ws")
	{
		wsGroup.GET("", wsHandler.ServeWS)
	}
	logger.Info("WebSocket route /ws registered")
}
