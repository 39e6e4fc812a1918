package routes

import (
	"github.com/sportclub/crm_backend/controllers"
	"github.com/sportclub/crm_backend/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterImportRoutes 注册导入路由
func RegisterImportRoutes(router *gin.Engine) {
	imports := router.Group("/api/imports")
	imports.Use(middleware.AuthMiddleware())

	imports.POST("/sync", controllers.SyncSheetNow)
	imports.POST("/upload", controllers.UploadImport)
	imports.GET("/last-sync", controllers.GetLastSync)
}
