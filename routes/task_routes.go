package routes

import (
	"github.com/sportclub/crm_backend/controllers"
	"github.com/sportclub/crm_backend/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterTaskRoutes 注册任务路由
func RegisterTaskRoutes(router *gin.Engine) {
	tasks := router.Group("/api/tasks")
	tasks.Use(middleware.AuthMiddleware())

	tasks.GET("", controllers.GetTasks)
	tasks.POST("", controllers.CreateTask)
	tasks.POST("/massive", controllers.CreateBulkTasks)
	tasks.PUT("/:id/status", controllers.UpdateTaskStatus)
	tasks.POST("/log-interaction", controllers.LogInteraction)
}
