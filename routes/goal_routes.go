package routes

import (
	"github.com/sportclub/crm_backend/controllers"
	"github.com/sportclub/crm_backend/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterGoalRoutes 注册目标路由
func RegisterGoalRoutes(router *gin.Engine) {
	goals := router.Group("/api/goals")
	goals.Use(middleware.AuthMiddleware())

	goals.GET("", controllers.GetGoals)
	goals.POST("", controllers.SetGoal)
	goals.GET("/report", controllers.GetGoalReport)
}
