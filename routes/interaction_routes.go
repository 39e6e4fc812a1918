package routes

import (
	"github.com/sportclub/crm_backend/controllers"
	"github.com/sportclub/crm_backend/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterInteractionRoutes 注册互动记录路由
func RegisterInteractionRoutes(router *gin.Engine) {
	interactions := router.Group("/api/interactions")
	interactions.Use(middleware.AuthMiddleware())

	interactions.GET("", controllers.GetInteractions)
}
