package routes

import (
	"github.com/sportclub/crm_backend/repository"
	"github.com/sportclub/crm_backend/utils"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine) {
	// 注册认证路由
	RegisterAuthRoutes(router)

	// 注册用户管理路由
	RegisterUserRoutes(router)

	// 注册业务路由
	RegisterProspectRoutes(router)
	RegisterMemberRoutes(router)
	RegisterTaskRoutes(router)
	RegisterInteractionRoutes(router)
	RegisterImportRoutes(router)
	RegisterGoalRoutes(router)

	// 健康检查路由
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// 数据库状态检查路由
	router.GET("/api/db-status", func(c *gin.Context) {
		status, err := repository.GetDatabaseStatus()
		if err != nil {
			utils.ErrorResponse(c, "obtener estado de la base de datos falló: "+err.Error(), 500)
			return
		}
		c.JSON(200, status)
	})
}
