package controllers

import (
	"github.com/sportclub/crm_backend/config"
	"github.com/sportclub/crm_backend/models"
	"github.com/sportclub/crm_backend/service"
	"github.com/sportclub/crm_backend/utils"

	"github.com/gin-gonic/gin"
)

// SyncSheetNow 立即执行一次表格同步，仅管理角色可用。
// 手动同步不检查12小时窗口，但同样会推进锁时间戳。
func SyncSheetNow(c *gin.Context) {
	loginUser, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}
	if !service.CanManage(models.UserRole(loginUser.Role)) {
		utils.HandleError(c, utils.CreateForbiddenError())
		return
	}

	result, err := service.SyncNow(c.Request.Context(), config.AppConfig.SheetCSVURL)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, result, result.Message)
}

// UploadImport 上传CSV文本执行一次导入，仅管理角色可用
func UploadImport(c *gin.Context) {
	loginUser, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}
	if !service.CanManage(models.UserRole(loginUser.Role)) {
		utils.HandleError(c, utils.CreateForbiddenError())
		return
	}

	var req models.ImportUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("datos de importación inválidos"))
		return
	}

	if req.AssignmentType != models.ImportAssignRoundRobin && req.AssignmentType != models.ImportAssignManual {
		utils.HandleError(c, utils.CreateBadRequestError("tipo de asignación inválido"))
		return
	}

	result, err := service.RunImport(c.Request.Context(), req.CSV, req.AssignmentType,
		req.SellerIDs, req.Assignments, loginUser.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, result, result.Message)
}

// GetLastSync 上次自动同步时间
func GetLastSync(c *gin.Context) {
	if _, err := utils.GetUser(c); err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}

	last, err := service.GetLastAutoImport(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"lastAutoImport": last}, "")
}
