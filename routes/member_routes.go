package routes

import (
	"github.com/sportclub/crm_backend/controllers"
	"github.com/sportclub/crm_backend/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterMemberRoutes 注册会员路由
func RegisterMemberRoutes(router *gin.Engine) {
	members := router.Group("/api/members")
	members.Use(middleware.AuthMiddleware())

	members.GET("", controllers.GetMembers)
	members.PUT("/:id", controllers.UpdateMember)
}
