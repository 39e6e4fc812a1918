package routes

import (
	"github.com/sportclub/crm_backend/controllers"
	"github.com/sportclub/crm_backend/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterProspectRoutes 注册潜在客户路由
func RegisterProspectRoutes(router *gin.Engine) {
	prospects := router.Group("/api/prospects")
	prospects.Use(middleware.AuthMiddleware())

	prospects.GET("", controllers.GetProspects)
	prospects.GET("/:id", controllers.GetProspect)
	prospects.POST("", controllers.CreateProspect)
	prospects.PUT("/:id", controllers.UpdateProspect)
	prospects.POST("/reassign", controllers.ReassignProspects)
	prospects.POST("/:id/convert", controllers.ConvertProspect)
}
